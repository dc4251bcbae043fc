package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/cli/config"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
	"github.com/urfave/cli/v3"
)

func cmdGauge() *cli.Command {
	var (
		gaugeCfg config.Gauge
		percent  string
		asJSON   bool
	)

	flags := joinFlags(
		gaugeCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "percent",
				Aliases:     []string{"p"},
				Usage:       "Risk percent to draw; non-numeric input draws 0",
				Value:       "0",
				Destination: &percent,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the gauge geometry as JSON instead of SVG",
				Destination: &asJSON,
			},
		},
	)

	return &cli.Command{
		Name:  "gauge",
		Usage: "Draw the risk gauge for a percent",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			geometry := gauge.Render(gauge.ParsePercent(percent), gaugeCfg.RenderOptions()...)
			w := c.Root().Writer

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(geometry); err != nil {
					return goerr.Wrap(err, "failed to encode gauge geometry")
				}
				return nil
			}

			svg, err := gauge.SVG(geometry)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, svg); err != nil {
				return goerr.Wrap(err, "failed to write gauge svg")
			}
			return nil
		},
	}
}
