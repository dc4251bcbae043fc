package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/frontend"
	"github.com/secmon-lab/medpredict/pkg/service/animator"
	"github.com/secmon-lab/medpredict/pkg/service/gauge"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/secmon-lab/medpredict/pkg/utils/metrics"
)

// Config holds the HTTP server settings
type Config struct {
	addr         string
	gaugeSize    float64
	strokeWidth  float64
	animate      bool
	tickInterval time.Duration
}

// ConfigOption is a functional option for Config
type ConfigOption func(*Config)

// WithGaugeSize sets the default gauge diameter in pixels
func WithGaugeSize(size float64) ConfigOption {
	return func(c *Config) {
		c.gaugeSize = size
	}
}

// WithStrokeWidth sets the default gauge stroke width
func WithStrokeWidth(width float64) ConfigOption {
	return func(c *Config) {
		c.strokeWidth = width
	}
}

// WithAnimate sets whether gauge drawings carry the dash-offset transition
func WithAnimate(animate bool) ConfigOption {
	return func(c *Config) {
		c.animate = animate
	}
}

// WithTickInterval sets the interval of the per-viewer gauge animation
func WithTickInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.tickInterval = d
	}
}

// NewConfig creates a server configuration
func NewConfig(addr string, opts ...ConfigOption) *Config {
	c := &Config{
		addr:         addr,
		gaugeSize:    gauge.DefaultSize,
		strokeWidth:  gauge.DefaultStrokeWidth,
		animate:      true,
		tickInterval: animator.DefaultInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// gaugeOptions returns the render options for the configured defaults
func (c *Config) gaugeOptions() []gauge.Option {
	return []gauge.Option{
		gauge.WithSize(c.gaugeSize),
		gauge.WithStrokeWidth(c.strokeWidth),
		gauge.WithAnimate(c.animate),
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	config *Config,
	dashboardUC usecase.DashboardUseCase,
	m *metrics.Metrics,
) (*Server, error) {
	if config == nil {
		return nil, goerr.New("server config is required")
	}
	if dashboardUC == nil {
		return nil, goerr.New("dashboard use case is required")
	}
	if m == nil {
		m = metrics.New(nil)
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	dashboardHandler := NewDashboardHandler(dashboardUC, config)
	gaugeHandler := NewGaugeHandler(dashboardUC, config, m)

	// Health check
	router.Get("/health", handleHealth)
	router.Handle("/metrics", m.Handler())

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Use(CORS)
		r.Get("/dashboard", dashboardHandler.HandleGet)
		r.Post("/predictions", dashboardHandler.HandleRunAgain)
		r.Get("/predictions", dashboardHandler.HandleHistory)
		r.Get("/predictions/{id}", dashboardHandler.HandlePrediction)
		r.Get("/report.pdf", dashboardHandler.HandleReport)
		r.Get("/gauge", gaugeHandler.HandleGeometry)
		r.Get("/gauge.svg", gaugeHandler.HandleSVG)
	})

	// Gauge animation stream
	router.Get("/ws/gauge", gaugeHandler.HandleStream)

	// Frontend routes
	fs, err := frontend.GetHTTPFS()
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
			"error", err,
		)
		router.Get("/*", dashboardHandler.HandleFallbackHome)
	} else {
		spa, err := NewSPAHandler(fs)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create SPA handler")
		}
		ctxlog.From(ctx).Info("Serving frontend from embedded files")
		router.Handle("/*", spa)
	}

	server := &Server{
		Server: &http.Server{
			Addr:              config.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}

	return server, nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "medpredict",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}
