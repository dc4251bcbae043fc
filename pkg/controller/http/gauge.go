package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/secmon-lab/medpredict/pkg/utils/apperr"
	"github.com/secmon-lab/medpredict/pkg/utils/metrics"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamReadLimit    = 512
)

// GaugeHandler serves gauge drawings and the animated gauge stream
type GaugeHandler struct {
	dashboardUC usecase.DashboardUseCase
	config      *Config
	metrics     *metrics.Metrics
	upgrader    websocket.Upgrader
}

// NewGaugeHandler creates a new gauge handler
func NewGaugeHandler(dashboardUC usecase.DashboardUseCase, config *Config, m *metrics.Metrics) *GaugeHandler {
	return &GaugeHandler{
		dashboardUC: dashboardUC,
		config:      config,
		metrics:     m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// gaugeQuery reads percent, size, stroke and animate from the query string.
// Missing or bad size settings fall back to the server defaults, bad percent
// text is 0 and a missing percent means the current prediction.
func (h *GaugeHandler) gaugeQuery(r *http.Request) (float64, []gauge.Option) {
	q := r.URL.Query()
	opts := h.config.gaugeOptions()

	if v, err := strconv.ParseFloat(q.Get("size"), 64); err == nil {
		opts = append(opts, gauge.WithSize(v))
	}
	if v, err := strconv.ParseFloat(q.Get("stroke"), 64); err == nil {
		opts = append(opts, gauge.WithStrokeWidth(v))
	}
	if v := q.Get("animate"); v != "" {
		if animate, err := strconv.ParseBool(v); err == nil {
			opts = append(opts, gauge.WithAnimate(animate))
		}
	}

	if !q.Has("percent") {
		current := h.dashboardUC.Current(r.Context())
		return float64(current.Prediction.FailureProbability), opts
	}
	return gauge.ParsePercent(q.Get("percent")), opts
}

// HandleGeometry returns the gauge geometry as JSON
func (h *GaugeHandler) HandleGeometry(w http.ResponseWriter, r *http.Request) {
	percent, opts := h.gaugeQuery(r)
	writeJSON(w, r, http.StatusOK, gauge.Render(percent, opts...))
}

// HandleSVG returns the gauge drawing
func (h *GaugeHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	percent, opts := h.gaugeQuery(r)
	svg, err := gauge.SVG(gauge.Render(percent, opts...))
	if err != nil {
		apperr.Handle(r.Context(), err)
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(svg)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write gauge svg", "error", err)
	}
}

// GaugeFrame is one message of the gauge stream
type GaugeFrame struct {
	State    model.AnimationState `json:"state"`
	Geometry *model.GaugeGeometry `json:"geometry"`
	SVG      string               `json:"svg"`
}

func (h *GaugeHandler) frame(state model.AnimationState) (*GaugeFrame, error) {
	geometry := gauge.Render(float64(state.Displayed), h.config.gaugeOptions()...)
	svg, err := gauge.SVG(geometry)
	if err != nil {
		return nil, err
	}
	return &GaugeFrame{State: state, Geometry: geometry, SVG: svg}, nil
}
