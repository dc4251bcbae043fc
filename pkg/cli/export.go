package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/cli/config"
	"github.com/secmon-lab/medpredict/pkg/service/report"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		dashboardCfg config.Dashboard
		reportCfg    config.Report
		output       string
		runAgain     bool
	)

	flags := joinFlags(
		dashboardCfg.Flags(),
		reportCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Path of the PDF file to write",
				Value:       report.DefaultFileName,
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "run-again",
				Usage:       "Produce a fresh prediction before exporting",
				Destination: &runAgain,
			},
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Write the dashboard report as PDF",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			predictor, opts, err := dashboardCfg.Configure()
			if err != nil {
				return err
			}
			dashboardUC, err := usecase.NewDashboard(predictor, reportCfg.Configure(), opts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create dashboard use case")
			}

			if runAgain {
				if _, err := dashboardUC.RunAgain(ctx); err != nil {
					return err
				}
			}

			return writeReport(ctx, dashboardUC, output)
		},
	}
}

// writeReport renders into a temporary file next to path and renames it, so a
// failed export never leaves a truncated PDF behind
func writeReport(ctx context.Context, dashboardUC usecase.DashboardUseCase, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".medpredict-*.pdf")
	if err != nil {
		return goerr.Wrap(err, "failed to create report file", goerr.V("path", path))
	}
	defer os.Remove(tmp.Name())

	if err := dashboardUC.ExportReport(ctx, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close report file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to move report file", goerr.V("path", path))
	}

	ctxlog.From(ctx).Info("Report exported", slog.String("path", path))
	return nil
}
