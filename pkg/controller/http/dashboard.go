package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
	"github.com/secmon-lab/medpredict/pkg/service/report"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/secmon-lab/medpredict/pkg/utils/apperr"
)

// DashboardHandler serves the dashboard values, "run again" and the report export
type DashboardHandler struct {
	dashboardUC usecase.DashboardUseCase
	config      *Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardUC usecase.DashboardUseCase, config *Config) *DashboardHandler {
	return &DashboardHandler{
		dashboardUC: dashboardUC,
		config:      config,
	}
}

// HandleGet returns the current dashboard values
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.dashboardUC.Current(r.Context()))
}

// HandleRunAgain produces a fresh prediction
func (h *DashboardHandler) HandleRunAgain(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUC.RunAgain(r.Context())
	if err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, dashboard)
}

const maxHistoryLimit = 100

// HandleHistory lists recorded predictions, newest first. ?limit= caps the count.
func (h *DashboardHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, goerr.New("limit must be a positive integer", goerr.V("limit", v)), http.StatusBadRequest)
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	predictions, err := h.dashboardUC.History(r.Context(), limit)
	if err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"predictions": predictions,
	})
}

// HandlePrediction returns one recorded prediction
func (h *DashboardHandler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	id := types.PredictionID(chi.URLParam(r, "id"))
	prediction, err := h.dashboardUC.Prediction(r.Context(), id)
	switch {
	case errors.Is(err, model.ErrPredictionNotFound):
		writeError(w, err, http.StatusNotFound)
		return
	case err != nil:
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, http.StatusOK, prediction)
}

// HandleReport renders the PDF report. The document is rendered fully before
// any header is sent so a failure still yields an error status.
func (h *DashboardHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dashboardUC.ExportReport(r.Context(), &buf); err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.DefaultFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		apperr.Handle(r.Context(), err)
	}
}

var fallbackTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>MedPredict</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif; background: #f8f9fa; margin: 0; padding: 2rem; color: #212529; }
        .cards { display: flex; gap: 1rem; margin-bottom: 1.5rem; }
        .card { background: #fff; border-radius: 12px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); flex: 1; }
        .title { color: #6c757d; font-weight: 600; }
        .value { font-size: 2rem; font-weight: 700; }
        li { display: flex; justify-content: space-between; list-style: none; }
        ul { padding: 0; }
    </style>
</head>
<body>
    <h1>Prediction Results <small>Org: {{.Dashboard.Org}}</small></h1>
    <div class="cards">
        <div class="card">
            <div class="title">Failure Probability (30 days)</div>
            <div class="value">{{.Dashboard.Prediction.FailureProbability}}</div>
            <div>Confidence: {{.Dashboard.Prediction.Confidence}}</div>
        </div>
        <div class="card">
            <div class="title">Maintenance Recommendation</div>
            <div class="value">{{.Dashboard.Maintenance.Recommendation}}</div>
            <div>Window before peak risk</div>
        </div>
        <div class="card">
            <div class="title">Maintenance Priority</div>
            <div class="value">{{.Dashboard.Maintenance.Priority}}</div>
            <div>{{.Dashboard.Maintenance.PriorityDesc}}</div>
        </div>
    </div>
    <div class="cards">
        <div class="card">
            <div class="title">Failure Risk Speedometer</div>
            <div>{{.Gauge}}</div>
            <div>{{.Dashboard.Prediction.FailureProbability}} risk</div>
        </div>
        <div class="card">
            <div class="title">Input Snapshot</div>
            <ul>{{range .Dashboard.InputSnapshot}}<li><span>{{.Name}}</span><span>{{.Value}}</span></li>{{end}}</ul>
        </div>
    </div>
    <form method="post" action="/api/predictions"><button>Run Again</button></form>
    <p><a href="/api/report.pdf">Export</a></p>
</body>
</html>`))

type fallbackView struct {
	Dashboard *model.Dashboard
	Gauge     template.HTML
}

// HandleFallbackHome renders a static dashboard when the frontend is not built
func (h *DashboardHandler) HandleFallbackHome(w http.ResponseWriter, r *http.Request) {
	dashboard := h.dashboardUC.Current(r.Context())
	svg, err := gauge.SVG(gauge.Render(float64(dashboard.Prediction.FailureProbability), h.config.gaugeOptions()...))
	if err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	// svg is produced by our own template from numeric values only
	view := fallbackView{Dashboard: dashboard, Gauge: template.HTML(svg)}
	if err := fallbackTemplate.Execute(&buf, view); err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		apperr.Handle(r.Context(), err)
	}
}
