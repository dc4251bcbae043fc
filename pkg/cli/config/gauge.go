package config

import (
	"log/slog"
	"time"

	controller "github.com/secmon-lab/medpredict/pkg/controller/http"
	"github.com/secmon-lab/medpredict/pkg/service/animator"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
	"github.com/urfave/cli/v3"
)

// Gauge holds the gauge drawing and animation settings
type Gauge struct {
	Size         float64
	StrokeWidth  float64
	NoAnimate    bool
	TickInterval time.Duration
}

// Flags returns CLI flags for Gauge configuration
func (g *Gauge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "gauge-size",
			Usage:       "Gauge diameter in pixels",
			Category:    "Gauge",
			Value:       gauge.DefaultSize,
			Sources:     cli.EnvVars("MEDPREDICT_GAUGE_SIZE"),
			Destination: &g.Size,
		},
		&cli.FloatFlag{
			Name:        "gauge-stroke",
			Usage:       "Gauge arc stroke width in pixels",
			Category:    "Gauge",
			Value:       gauge.DefaultStrokeWidth,
			Sources:     cli.EnvVars("MEDPREDICT_GAUGE_STROKE"),
			Destination: &g.StrokeWidth,
		},
		&cli.BoolFlag{
			Name:        "gauge-no-animate",
			Usage:       "Draw the gauge without the dash offset transition",
			Category:    "Gauge",
			Sources:     cli.EnvVars("MEDPREDICT_GAUGE_NO_ANIMATE"),
			Destination: &g.NoAnimate,
		},
		&cli.DurationFlag{
			Name:        "gauge-tick",
			Usage:       "Interval between two gauge animation steps",
			Category:    "Gauge",
			Value:       animator.DefaultInterval,
			Sources:     cli.EnvVars("MEDPREDICT_GAUGE_TICK"),
			Destination: &g.TickInterval,
		},
	}
}

// RenderOptions returns the gauge render options
func (g *Gauge) RenderOptions() []gauge.Option {
	return []gauge.Option{
		gauge.WithSize(g.Size),
		gauge.WithStrokeWidth(g.StrokeWidth),
		gauge.WithAnimate(!g.NoAnimate),
	}
}

// ServerOptions returns the HTTP server options
func (g *Gauge) ServerOptions() []controller.ConfigOption {
	return []controller.ConfigOption{
		controller.WithGaugeSize(g.Size),
		controller.WithStrokeWidth(g.StrokeWidth),
		controller.WithAnimate(!g.NoAnimate),
		controller.WithTickInterval(g.TickInterval),
	}
}

// LogValue returns structured log value
func (g Gauge) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("size", g.Size),
		slog.Float64("stroke_width", g.StrokeWidth),
		slog.Bool("animate", !g.NoAnimate),
		slog.Duration("tick_interval", g.TickInterval),
	)
}
