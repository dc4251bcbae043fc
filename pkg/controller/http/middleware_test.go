package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	controller "github.com/secmon-lab/medpredict/pkg/controller/http"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := ctxlog.With(context.Background(), logger)

	var seenLogger bool
	handler := middleware.RequestID(controller.LoggingMiddleware(ctx)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenLogger = ctxlog.From(r.Context()) != nil
			w.WriteHeader(http.StatusTeapot)
		}),
	))

	req := httptest.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	gt.Equal(t, w.Code, http.StatusTeapot)
	gt.True(t, seenLogger)
	gt.S(t, buf.String()).Contains(`"msg":"HTTP request"`)
	gt.S(t, buf.String()).Contains(`"path":"/api/dashboard"`)
	gt.S(t, buf.String()).Contains(`"status":418`)
	gt.S(t, buf.String()).Contains(`"request_id"`)
}

func TestCORS(t *testing.T) {
	var called bool
	handler := controller.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight is answered without calling next", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("OPTIONS", "/api/predictions", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.False(t, called)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")
	})

	t.Run("regular request passes through", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusOK)
		gt.True(t, called)
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Methods"), "GET, POST, OPTIONS")
	})
}
