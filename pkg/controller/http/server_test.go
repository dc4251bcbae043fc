package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	controller "github.com/secmon-lab/medpredict/pkg/controller/http"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
	"github.com/secmon-lab/medpredict/pkg/service/predictor"
	"github.com/secmon-lab/medpredict/pkg/service/report"
	"github.com/secmon-lab/medpredict/pkg/usecase"
	"github.com/secmon-lab/medpredict/pkg/utils/metrics"
)

type failingRenderer struct{}

func (failingRenderer) Render(ctx context.Context, w io.Writer, d *model.Dashboard) error {
	return errors.New("disk full")
}

func newTestServer(t *testing.T, p *predictor.Fixed, opts ...usecase.DashboardOption) (*controller.Server, *metrics.Metrics) {
	t.Helper()
	return newTestServerWithRenderer(t, p, report.New(), opts...)
}

func newTestServerWithRenderer(t *testing.T, p *predictor.Fixed, renderer interface {
	Render(ctx context.Context, w io.Writer, d *model.Dashboard) error
}, opts ...usecase.DashboardOption) (*controller.Server, *metrics.Metrics) {
	t.Helper()

	m := metrics.New(nil)
	uc, err := usecase.NewDashboard(p, renderer, append(opts, usecase.WithMetrics(m))...)
	gt.NoError(t, err).Required()

	config := controller.NewConfig(":0", controller.WithTickInterval(time.Millisecond))
	server, err := controller.NewServer(context.Background(), config, uc, m)
	gt.NoError(t, err).Required()
	return server, m
}

func serve(server *controller.Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)
	return w
}

func TestNewServerValidation(t *testing.T) {
	uc, err := usecase.NewDashboard(predictor.NewFixed(), report.New())
	gt.NoError(t, err).Required()

	_, err = controller.NewServer(context.Background(), nil, uc, nil)
	gt.Error(t, err)

	_, err = controller.NewServer(context.Background(), controller.NewConfig(":0"), nil, nil)
	gt.Error(t, err)
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t, predictor.NewFixed())

	w := serve(server, "GET", "/health")
	gt.Equal(t, w.Code, http.StatusOK)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	gt.Equal(t, body["status"], "healthy")
	gt.Equal(t, body["service"], "medpredict")
}

func TestDashboardAPI(t *testing.T) {
	t.Run("current values", func(t *testing.T) {
		server, _ := newTestServer(t, predictor.NewFixed())

		w := serve(server, "GET", "/api/dashboard")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/json")
		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "*")

		var d model.Dashboard
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &d)).Required()
		gt.Equal(t, d.Org, "St. Mary's Health")
		gt.Equal(t, d.Prediction.FailureProbability, types.RiskValue(27))
		gt.Equal(t, d.Maintenance.Priority, types.PriorityLow)
		gt.Equal(t, len(d.InputSnapshot), 10)
	})

	t.Run("run again reclassifies priority", func(t *testing.T) {
		server, m := newTestServer(t, predictor.NewFixed(predictor.FixedValue{Probability: 85, Confidence: 91}))

		w := serve(server, "POST", "/api/predictions")
		gt.Equal(t, w.Code, http.StatusOK)

		var d model.Dashboard
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &d)).Required()
		gt.Equal(t, d.Prediction.FailureProbability, types.RiskValue(85))
		gt.Equal(t, d.Prediction.Confidence, types.Confidence(91))
		gt.Equal(t, d.Maintenance.Priority, types.PriorityHigh)
		gt.Equal(t, d.Maintenance.PriorityDesc, "Immediate maintenance required")

		w = serve(server, "GET", "/metrics")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.S(t, w.Body.String()).Contains(`medpredict_predictions_total{status="ok"} 1`)
		gt.Equal(t, testutil.ToFloat64(m.FailureProbability), 85.0)
	})

	t.Run("predictor failure", func(t *testing.T) {
		server, _ := newTestServer(t, predictor.NewFixed())

		w := serve(server, "POST", "/api/predictions")
		gt.Equal(t, w.Code, http.StatusInternalServerError)
		gt.S(t, w.Body.String()).Contains("error")

		// previous values stay in place
		w = serve(server, "GET", "/api/dashboard")
		var d model.Dashboard
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &d)).Required()
		gt.Equal(t, d.Prediction.FailureProbability, types.RiskValue(27))
	})

	t.Run("preflight", func(t *testing.T) {
		server, _ := newTestServer(t, predictor.NewFixed())

		w := serve(server, "OPTIONS", "/api/predictions")
		gt.Equal(t, w.Code, http.StatusNoContent)
		gt.S(t, w.Header().Get("Access-Control-Allow-Methods")).Contains("POST")
	})
}

func TestReportAPI(t *testing.T) {
	t.Run("download", func(t *testing.T) {
		server, _ := newTestServer(t, predictor.NewFixed())

		w := serve(server, "GET", "/api/report.pdf")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/pdf")
		gt.Equal(t, w.Header().Get("Content-Disposition"), `attachment; filename="MedPredict_Report.pdf"`)
		gt.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	})

	t.Run("renderer failure", func(t *testing.T) {
		server, _ := newTestServerWithRenderer(t, predictor.NewFixed(), failingRenderer{})

		w := serve(server, "GET", "/api/report.pdf")
		gt.Equal(t, w.Code, http.StatusInternalServerError)
		gt.Equal(t, w.Header().Get("Content-Type"), "application/json")
		gt.S(t, w.Body.String()).Contains("disk full")
	})
}

func TestGaugeAPI(t *testing.T) {
	server, _ := newTestServer(t, predictor.NewFixed())

	t.Run("geometry for explicit percent", func(t *testing.T) {
		w := serve(server, "GET", "/api/gauge?percent=73")
		gt.Equal(t, w.Code, http.StatusOK)

		var g model.GaugeGeometry
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &g)).Required()
		gt.Equal(t, g.Percent, types.RiskValue(73))
		gt.Equal(t, g.Color, "#ee4444")
		gt.Equal(t, g.PriorityLabel, "High Priority")
		gt.Equal(t, g.Path, "M 9 130 A 121 121 0 0 1 251 130")
	})

	t.Run("geometry defaults to the current prediction", func(t *testing.T) {
		w := serve(server, "GET", "/api/gauge")
		var g model.GaugeGeometry
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &g)).Required()
		gt.Equal(t, g.Percent, types.RiskValue(27))
		gt.Equal(t, g.Color, "#2563eb")
	})

	t.Run("bad input is coerced", func(t *testing.T) {
		w := serve(server, "GET", "/api/gauge?percent=abc&size=-3&stroke=x&animate=false")
		gt.Equal(t, w.Code, http.StatusOK)

		var g model.GaugeGeometry
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &g)).Required()
		gt.Equal(t, g.Percent, types.RiskValue(0))
		gt.Equal(t, g.Size, 260.0)
		gt.Equal(t, g.StrokeWidth, 18.0)
		gt.False(t, g.Animate)
		gt.Equal(t, g.DashOffset, g.Total)
	})

	t.Run("svg", func(t *testing.T) {
		w := serve(server, "GET", "/api/gauge.svg?percent=150&size=200&stroke=20")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, w.Header().Get("Content-Type"), "image/svg+xml")

		body := w.Body.String()
		gt.S(t, body).Contains("<svg")
		gt.S(t, body).Contains(`width="200"`)
		gt.S(t, body).Contains("100%")
		gt.S(t, body).Contains("#ee4444")
		gt.S(t, body).Contains("stroke-dashoffset 700ms ease")
	})
}

func TestFrontend(t *testing.T) {
	server, _ := newTestServer(t, predictor.NewFixed())

	w := serve(server, "GET", "/")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, w.Header().Get("Content-Type"), "text/html; charset=utf-8")
	gt.S(t, w.Body.String()).Contains("MedPredict")

	w = serve(server, "GET", "/assets/app.js")
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("/ws/gauge")
}

func readFrame(t *testing.T, conn *websocket.Conn) controller.GaugeFrame {
	t.Helper()
	gt.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame controller.GaugeFrame
	gt.NoError(t, conn.ReadJSON(&frame)).Required()
	return frame
}

func TestGaugeStream(t *testing.T) {
	server, m := newTestServer(t, predictor.NewFixed(predictor.FixedValue{Probability: 30, Confidence: 90}))
	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/gauge"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	gt.NoError(t, err).Required()
	defer resp.Body.Close()
	defer conn.Close()

	first := readFrame(t, conn)
	gt.Equal(t, first.State.Displayed, types.RiskValue(27))
	gt.Equal(t, first.State.Target, types.RiskValue(27))
	gt.False(t, first.State.Running)
	gt.S(t, first.SVG).Contains("27%")

	res, err := http.Post(ts.URL+"/api/predictions", "application/json", nil)
	gt.NoError(t, err).Required()
	gt.NoError(t, res.Body.Close())
	gt.Equal(t, res.StatusCode, http.StatusOK)

	// frames may be skipped for a slow reader but must walk up and end at the target
	prev := types.RiskValue(27)
	for {
		frame := readFrame(t, conn)
		gt.Equal(t, frame.State.Target, types.RiskValue(30))
		gt.True(t, frame.State.Displayed > prev)
		gt.True(t, frame.State.Displayed <= 30)
		gt.Equal(t, frame.Geometry.Percent, frame.State.Displayed)
		prev = frame.State.Displayed
		if frame.State.Displayed == 30 {
			gt.False(t, frame.State.Running)
			break
		}
	}

	gt.Equal(t, testutil.ToFloat64(m.Viewers), 1.0)
	gt.Equal(t, testutil.ToFloat64(m.AnimationTicks), 3.0)
}

func TestGaugeStreamRequiresUpgrade(t *testing.T) {
	server, _ := newTestServer(t, predictor.NewFixed())

	w := serve(server, "GET", "/ws/gauge")
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestPredictionHistoryAPI(t *testing.T) {
	server, _ := newTestServer(t, predictor.NewFixed(predictor.FixedValue{Probability: 61, Confidence: 84}))

	w := serve(server, "POST", "/api/predictions")
	gt.Equal(t, w.Code, http.StatusOK)
	var d model.Dashboard
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &d)).Required()

	t.Run("list newest first", func(t *testing.T) {
		w := serve(server, "GET", "/api/predictions")
		gt.Equal(t, w.Code, http.StatusOK)

		var body struct {
			Predictions []model.Prediction `json:"predictions"`
		}
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &body)).Required()
		gt.Equal(t, len(body.Predictions), 2)
		gt.Equal(t, body.Predictions[0].FailureProbability, types.RiskValue(61))
		gt.Equal(t, body.Predictions[1].FailureProbability, types.RiskValue(27))
	})

	t.Run("limit", func(t *testing.T) {
		w := serve(server, "GET", "/api/predictions?limit=1")
		gt.Equal(t, w.Code, http.StatusOK)
		gt.S(t, w.Body.String()).Contains(string(d.Prediction.ID))

		w = serve(server, "GET", "/api/predictions?limit=zero")
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("get by id", func(t *testing.T) {
		w := serve(server, "GET", "/api/predictions/"+string(d.Prediction.ID))
		gt.Equal(t, w.Code, http.StatusOK)

		var p model.Prediction
		gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &p)).Required()
		gt.Equal(t, p.Confidence, types.Confidence(84))

		w = serve(server, "GET", "/api/predictions/unknown")
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}
