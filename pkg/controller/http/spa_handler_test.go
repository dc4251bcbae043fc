package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	httpCtrl "github.com/secmon-lab/medpredict/pkg/controller/http"
)

func TestSPAHandler(t *testing.T) {
	handler, err := httpCtrl.NewSPAHandler(http.Dir("testdata/spa"))
	gt.NoError(t, err).Required()

	t.Run("serve bundled script", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/assets/app.js", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/javascript; charset=utf-8")
		gt.S(t, w.Header().Get("Cache-Control")).Contains("immutable")
		gt.S(t, w.Body.String()).Contains("console.log")
	})

	t.Run("serve stylesheet", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/assets/style.css", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "text/css; charset=utf-8")
		gt.S(t, w.Body.String()).Contains("body")
	})

	t.Run("unknown paths get index.html", func(t *testing.T) {
		for _, p := range []string{"/", "/dashboard", "/assets", "/unknown/deep/path", "/../../etc/passwd"} {
			req := httptest.NewRequest("GET", p, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			gt.Equal(t, w.Code, http.StatusOK)
			gt.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
			gt.S(t, w.Body.String()).Contains(`<div id="root">`)
		}
	})

	t.Run("reject writes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		gt.Equal(t, w.Code, http.StatusMethodNotAllowed)
	})
}

func TestNewSPAHandlerWithoutIndex(t *testing.T) {
	_, err := httpCtrl.NewSPAHandler(http.Dir("testdata/empty"))
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to open index.html")
}
