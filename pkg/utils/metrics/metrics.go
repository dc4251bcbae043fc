package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors
type Metrics struct {
	// Predictions counts "run again" cycles by outcome (ok, error)
	Predictions *prometheus.CounterVec

	// FailureProbability is the current target risk value
	FailureProbability prometheus.Gauge

	// AnimationTicks counts gauge steps pushed to viewers
	AnimationTicks prometheus.Counter

	// Viewers is the number of connected gauge streams
	Viewers prometheus.Gauge

	// ReportExports counts PDF exports by outcome
	ReportExports *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil registry gets a private one
// that is not exposed anywhere.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medpredict_predictions_total",
			Help: "Total number of prediction cycles.",
		}, []string{"status"}),

		FailureProbability: factory.NewGauge(prometheus.GaugeOpts{
			Name: "medpredict_failure_probability_percent",
			Help: "Failure probability of the latest prediction.",
		}),

		AnimationTicks: factory.NewCounter(prometheus.CounterOpts{
			Name: "medpredict_gauge_ticks_total",
			Help: "Total number of gauge animation steps sent to viewers.",
		}),

		Viewers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "medpredict_gauge_viewers",
			Help: "Current number of connected gauge streams.",
		}),

		ReportExports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medpredict_report_exports_total",
			Help: "Total number of report exports.",
		}, []string{"status"}),

		gatherer: reg,
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Status returns the label value for an operation outcome
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
