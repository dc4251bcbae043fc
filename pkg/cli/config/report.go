package config

import (
	"log/slog"

	"github.com/secmon-lab/medpredict/pkg/service/report"
	"github.com/urfave/cli/v3"
)

// Report holds the PDF report settings
type Report struct {
	Title      string
	NoCompress bool
}

// Flags returns CLI flags for Report configuration
func (r *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-title",
			Usage:       "Title printed on the PDF report",
			Category:    "Report",
			Value:       report.DefaultTitle,
			Sources:     cli.EnvVars("MEDPREDICT_REPORT_TITLE"),
			Destination: &r.Title,
		},
		&cli.BoolFlag{
			Name:        "report-no-compress",
			Usage:       "Write uncompressed PDF streams",
			Category:    "Report",
			Sources:     cli.EnvVars("MEDPREDICT_REPORT_NO_COMPRESS"),
			Destination: &r.NoCompress,
		},
	}
}

// Configure creates the report renderer
func (r *Report) Configure() *report.Renderer {
	return report.New(
		report.WithTitle(r.Title),
		report.WithCompression(!r.NoCompress),
	)
}

// LogValue returns structured log value
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("title", r.Title),
		slog.Bool("compress", !r.NoCompress),
	)
}
