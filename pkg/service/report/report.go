// Package report renders the maintenance report PDF: a fixed-position text
// header followed by a paginated two-column table of the input snapshot.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
)

const (
	DefaultTitle    = "MedPredict Maintenance Report"
	DefaultFileName = "MedPredict_Report.pdf"
)

// Layout in millimeters on an A4 portrait page
const (
	marginLeft  = 14.0
	titleY      = 20.0
	firstLineY  = 30.0
	lineStep    = 8.0
	tableStartY = 85.0
	tableMargin = 15.0
	rowHeight   = 8.0
	titleFont   = 16.0
	bodyFont    = 12.0
	tableFont   = 10.0
	fontFamily  = "Helvetica"
	pageFormat  = "A4"
	pageUnit    = "mm"
	orientation = "P"
	headerFillR = 41
	headerFillG = 128
	headerFillB = 185
	stripeFill  = 245
)

// Renderer renders dashboards into PDF documents
type Renderer struct {
	title    string
	compress bool
	now      func() time.Time
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTitle sets the report title
func WithTitle(title string) Option {
	return func(r *Renderer) {
		if title != "" {
			r.title = title
		}
	}
}

// WithCompression toggles stream compression of the PDF
func WithCompression(compress bool) Option {
	return func(r *Renderer) {
		r.compress = compress
	}
}

// WithClock sets the clock used for the document creation date
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Renderer
func New(opts ...Option) *Renderer {
	r := &Renderer{
		title:    DefaultTitle,
		compress: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report for dashboard to w. Failures of the sink are returned.
func (r *Renderer) Render(ctx context.Context, w io.Writer, dashboard *model.Dashboard) error {
	if dashboard == nil {
		return goerr.New("dashboard is nil")
	}

	pdf := r.layout(dashboard)
	if pdf.Err() {
		return goerr.Wrap(model.ErrReportExport, "failed to lay out report",
			goerr.V("reason", pdf.Error().Error()))
	}

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to write report",
			goerr.V("prediction_id", dashboard.Prediction.ID))
	}

	ctxlog.From(ctx).Debug("Report rendered",
		"prediction_id", dashboard.Prediction.ID,
		"pages", pdf.PageNo(),
	)
	return nil
}

func (r *Renderer) layout(d *model.Dashboard) *fpdf.Fpdf {
	pdf := fpdf.New(orientation, pageUnit, pageFormat, "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("medpredict", false)
	pdf.SetAutoPageBreak(false, tableMargin)
	pdf.AddPage()

	// core fonts are cp1252; translate "°", "–" and friends
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "", titleFont)
	pdf.Text(marginLeft, titleY, tr(r.title))

	pdf.SetFont(fontFamily, "", bodyFont)
	for i, line := range headerLines(d) {
		pdf.Text(marginLeft, firstLineY+float64(i)*lineStep, tr(line))
	}

	writeTable(pdf, tr, []string{"Parameter", "Value"}, d.InputSnapshot.Rows())
	return pdf
}

// headerLines returns the text block printed above the table
func headerLines(d *model.Dashboard) []string {
	return []string{
		fmt.Sprintf("Organization: %s", d.Org),
		fmt.Sprintf("Failure Probability (30 days): %s", d.Prediction.FailureProbability),
		fmt.Sprintf("Confidence: %s", d.Prediction.Confidence),
		fmt.Sprintf("Maintenance Recommendation: %s", d.Maintenance.Recommendation),
		fmt.Sprintf("Maintenance Priority: %s", d.Maintenance.Priority),
		fmt.Sprintf("Priority Description: %s", d.Maintenance.PriorityDesc),
		fmt.Sprintf("Failure Risk: %s", d.Prediction.FailureProbability),
	}
}
