package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/interfaces"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
	"github.com/secmon-lab/medpredict/pkg/repository"
	"github.com/secmon-lab/medpredict/pkg/utils/metrics"
)

const (
	DefaultOrg                = "St. Mary's Health"
	DefaultRecommendation     = "Schedule in 2–3 weeks"
	DefaultFailureProbability = types.RiskValue(27)
	DefaultConfidence         = types.Confidence(82)
)

// DashboardConfig holds the initial values of the dashboard
type DashboardConfig struct {
	org            string
	recommendation string
	probability    types.RiskValue
	confidence     types.Confidence
	snapshot       model.InputSnapshot
	metrics        *metrics.Metrics
	repo           interfaces.PredictionRepository
}

// DashboardOption is a functional option for configuring Dashboard
type DashboardOption func(*DashboardConfig)

// WithOrg sets the organization name
func WithOrg(org string) DashboardOption {
	return func(c *DashboardConfig) {
		c.org = org
	}
}

// WithRecommendation sets the maintenance recommendation text
func WithRecommendation(recommendation string) DashboardOption {
	return func(c *DashboardConfig) {
		c.recommendation = recommendation
	}
}

// WithInitialPrediction sets the values shown before the first "run again"
func WithInitialPrediction(probability types.RiskValue, confidence types.Confidence) DashboardOption {
	return func(c *DashboardConfig) {
		c.probability = probability
		c.confidence = confidence
	}
}

// WithInputSnapshot replaces the input snapshot
func WithInputSnapshot(snapshot model.InputSnapshot) DashboardOption {
	return func(c *DashboardConfig) {
		c.snapshot = snapshot
	}
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) DashboardOption {
	return func(c *DashboardConfig) {
		c.metrics = m
	}
}

// WithRepository sets where predictions are recorded
func WithRepository(repo interfaces.PredictionRepository) DashboardOption {
	return func(c *DashboardConfig) {
		c.repo = repo
	}
}

// TargetChanged is raised when a prediction replaces the target risk value
type TargetChanged struct {
	Previous types.RiskValue
	Current  types.RiskValue
}

// Dashboard implements DashboardUseCase. It holds the current, non-animated
// dashboard values. A target change fans out to two independent reactions:
// the maintenance priority is reclassified synchronously, and subscribers are
// told the new target so they can restart their gauge animation.
type Dashboard struct {
	predictor interfaces.Predictor
	renderer  interfaces.ReportRenderer
	metrics   *metrics.Metrics
	repo      interfaces.PredictionRepository

	// runMu serializes committing a prediction: recording, state swap and
	// publishing happen in the same order for every caller
	runMu sync.Mutex

	mu    sync.RWMutex
	state *model.Dashboard

	subMu  sync.Mutex
	subs   map[int]chan types.RiskValue
	nextID int
}

// NewDashboard creates a dashboard use case
func NewDashboard(predictor interfaces.Predictor, renderer interfaces.ReportRenderer, opts ...DashboardOption) (*Dashboard, error) {
	if predictor == nil {
		return nil, goerr.New("predictor is required")
	}
	if renderer == nil {
		return nil, goerr.New("report renderer is required")
	}

	cfg := &DashboardConfig{
		org:            DefaultOrg,
		recommendation: DefaultRecommendation,
		probability:    DefaultFailureProbability,
		confidence:     DefaultConfidence,
		snapshot:       model.DefaultInputSnapshot(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.New(nil)
	}
	if cfg.repo == nil {
		cfg.repo = repository.NewMemory()
	}

	prediction, err := model.NewPrediction(cfg.probability, cfg.confidence)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid initial prediction")
	}

	state := &model.Dashboard{
		Org:           cfg.org,
		Prediction:    *prediction,
		Maintenance:   model.NewMaintenance(cfg.recommendation, prediction.FailureProbability),
		InputSnapshot: cfg.snapshot.Clone(),
	}
	if err := state.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard configuration")
	}
	if err := cfg.repo.SavePrediction(context.Background(), prediction); err != nil {
		return nil, goerr.Wrap(err, "failed to record initial prediction")
	}
	cfg.metrics.FailureProbability.Set(float64(prediction.FailureProbability))

	return &Dashboard{
		predictor: predictor,
		renderer:  renderer,
		metrics:   cfg.metrics,
		repo:      cfg.repo,
		state:     state,
		subs:      make(map[int]chan types.RiskValue),
	}, nil
}

// Current returns a copy of the dashboard values
func (uc *Dashboard) Current(ctx context.Context) *model.Dashboard {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state.Clone()
}

// RunAgain asks the predictor for a fresh prediction and makes it the new target
func (uc *Dashboard) RunAgain(ctx context.Context) (*model.Dashboard, error) {
	prediction, err := uc.predictor.Predict(ctx)
	if err == nil && prediction == nil {
		err = goerr.Wrap(model.ErrPredictionFailed, "predictor returned no prediction")
	}
	uc.metrics.Predictions.WithLabelValues(metrics.Status(err)).Inc()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to run prediction")
	}
	if err := prediction.Validate(); err != nil {
		return nil, goerr.Wrap(err, "predictor returned an invalid prediction")
	}
	uc.runMu.Lock()
	defer uc.runMu.Unlock()

	if err := uc.repo.SavePrediction(ctx, prediction); err != nil {
		return nil, goerr.Wrap(err, "failed to record prediction", goerr.V("prediction_id", prediction.ID))
	}

	uc.mu.Lock()
	event := TargetChanged{
		Previous: uc.state.Prediction.FailureProbability,
		Current:  prediction.FailureProbability,
	}
	uc.state.Prediction = *prediction
	uc.state.Maintenance = reclassifyMaintenance(uc.state.Maintenance, event)
	result := uc.state.Clone()
	uc.mu.Unlock()

	uc.metrics.FailureProbability.Set(float64(event.Current))
	uc.publish(event)

	ctxlog.From(ctx).Info("Prediction updated",
		"prediction_id", prediction.ID,
		"previous", event.Previous.Int(),
		"failure_probability", event.Current.Int(),
		"confidence", int(prediction.Confidence),
		"priority", result.Maintenance.Priority,
	)

	return result, nil
}

// History returns up to limit recorded predictions, newest first
func (uc *Dashboard) History(ctx context.Context, limit int) ([]*model.Prediction, error) {
	predictions, err := uc.repo.ListPredictions(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list predictions", goerr.V("limit", limit))
	}
	return predictions, nil
}

// Prediction returns a recorded prediction
func (uc *Dashboard) Prediction(ctx context.Context, id types.PredictionID) (*model.Prediction, error) {
	prediction, err := uc.repo.GetPrediction(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get prediction", goerr.V("prediction_id", id))
	}
	return prediction, nil
}

// Subscribe returns a feed of target values starting with the current one.
// A slow reader only sees the latest target. The returned function ends the
// subscription and closes the channel.
func (uc *Dashboard) Subscribe() (<-chan types.RiskValue, func()) {
	ch := make(chan types.RiskValue, 1)

	uc.subMu.Lock()
	id := uc.nextID
	uc.nextID++
	uc.subs[id] = ch
	uc.mu.RLock()
	ch <- uc.state.Prediction.FailureProbability
	uc.mu.RUnlock()
	uc.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			uc.subMu.Lock()
			delete(uc.subs, id)
			close(ch)
			uc.subMu.Unlock()
		})
	}
}

// ExportReport renders the current dashboard values to w
func (uc *Dashboard) ExportReport(ctx context.Context, w io.Writer) error {
	dashboard := uc.Current(ctx)
	err := uc.renderer.Render(ctx, w, dashboard)
	uc.metrics.ReportExports.WithLabelValues(metrics.Status(err)).Inc()
	if err != nil {
		return goerr.Wrap(err, "failed to export report",
			goerr.V("prediction_id", dashboard.Prediction.ID))
	}
	return nil
}

// publish delivers the new target to every subscriber, replacing any value
// the subscriber has not read yet
func (uc *Dashboard) publish(event TargetChanged) {
	uc.subMu.Lock()
	defer uc.subMu.Unlock()

	for _, ch := range uc.subs {
		select {
		case <-ch:
		default:
		}
		ch <- event.Current
	}
}

// reclassifyMaintenance derives the maintenance priority from the new target.
// It never looks at any animated value.
func reclassifyMaintenance(current model.Maintenance, event TargetChanged) model.Maintenance {
	return model.NewMaintenance(current.Recommendation, event.Current)
}
