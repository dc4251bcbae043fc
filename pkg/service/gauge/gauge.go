// Package gauge renders the semicircular risk gauge. Rendering is a pure
// function of the percent value and the static size configuration.
package gauge

import (
	"math"
	"strconv"
	"strings"

	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

const (
	DefaultSize        = 260.0
	DefaultStrokeWidth = 18.0

	// TransitionDuration is the stroke-dashoffset transition applied when animate is on
	TransitionDuration = "700ms"
)

const (
	ColorLow    = "#2563eb"
	ColorMedium = "#fdba20"
	ColorHigh   = "#ee4444"
	ColorTrack  = "#e9edf5"
)

const (
	mediumBandStart types.RiskValue = 34
	highBandStart   types.RiskValue = 67
)

type config struct {
	size        float64
	strokeWidth float64
	animate     bool
}

// Option configures Render
type Option func(*config)

// WithSize sets the pixel diameter of the gauge
func WithSize(size float64) Option {
	return func(c *config) {
		c.size = size
	}
}

// WithStrokeWidth sets the arc stroke width
func WithStrokeWidth(width float64) Option {
	return func(c *config) {
		c.strokeWidth = width
	}
}

// WithAnimate enables or disables the dash-offset transition
func WithAnimate(animate bool) Option {
	return func(c *config) {
		c.animate = animate
	}
}

// Render computes the arc geometry for percent. Any input is accepted: it is
// rounded and clamped into [0,100], NaN counts as 0.
func Render(percent float64, opts ...Option) *model.GaugeGeometry {
	cfg := config{
		size:        DefaultSize,
		strokeWidth: DefaultStrokeWidth,
		animate:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !(cfg.size > 0) || math.IsInf(cfg.size, 0) {
		cfg.size = DefaultSize
	}
	if !(cfg.strokeWidth >= 0) || cfg.strokeWidth > cfg.size {
		cfg.strokeWidth = DefaultStrokeWidth
	}

	p := types.ClampRiskValue(percent)
	center := cfg.size / 2
	radius := center - cfg.strokeWidth/2

	total := math.Pi * radius
	visible := float64(p) / 100 * total
	dashOffset := math.Max(0, total-visible)

	priority := BandOf(p)

	return &model.GaugeGeometry{
		Percent:       p,
		Size:          cfg.size,
		StrokeWidth:   cfg.strokeWidth,
		Center:        center,
		Radius:        radius,
		Path:          arcPath(center, radius),
		Total:         total,
		Visible:       visible,
		DashOffset:    dashOffset,
		Color:         ColorOf(p),
		Priority:      priority,
		PercentLabel:  p.String(),
		PriorityLabel: priority.Label(),
		Animate:       cfg.animate,
	}
}

// BandOf classifies a gauge percent: [0,34) Low, [34,67) Medium, [67,100] High.
// These bands belong to the gauge and differ from the maintenance priority thresholds.
func BandOf(p types.RiskValue) types.PriorityClass {
	switch {
	case p < mediumBandStart:
		return types.PriorityLow
	case p < highBandStart:
		return types.PriorityMedium
	default:
		return types.PriorityHigh
	}
}

// ColorOf returns the arc color for a gauge percent
func ColorOf(p types.RiskValue) string {
	switch BandOf(p) {
	case types.PriorityLow:
		return ColorLow
	case types.PriorityMedium:
		return ColorMedium
	default:
		return ColorHigh
	}
}

// ParsePercent coerces free text into a number. Anything non-numeric is 0.
func ParsePercent(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

// arcPath draws the upper half circle from the leftmost to the rightmost point
func arcPath(center, radius float64) string {
	var b strings.Builder
	b.WriteString("M ")
	b.WriteString(num(center - radius))
	b.WriteString(" ")
	b.WriteString(num(center))
	b.WriteString(" A ")
	b.WriteString(num(radius))
	b.WriteString(" ")
	b.WriteString(num(radius))
	b.WriteString(" 0 0 1 ")
	b.WriteString(num(center + radius))
	b.WriteString(" ")
	b.WriteString(num(center))
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
