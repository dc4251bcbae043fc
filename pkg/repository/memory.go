package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/interfaces"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// DefaultRetention is the number of predictions Memory keeps
const DefaultRetention = 100

// Memory implements PredictionRepository with in-memory storage. Only the
// latest predictions are retained; older ones are evicted.
type Memory struct {
	mu          sync.RWMutex
	predictions map[types.PredictionID]*model.Prediction
	order       []types.PredictionID
	retention   int
}

// MemoryOption configures Memory
type MemoryOption func(*Memory)

// WithRetention sets how many predictions are kept
func WithRetention(n int) MemoryOption {
	return func(m *Memory) {
		if n > 0 {
			m.retention = n
		}
	}
}

// NewMemory creates a new memory repository
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		predictions: make(map[types.PredictionID]*model.Prediction),
		retention:   DefaultRetention,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ interfaces.PredictionRepository = (*Memory)(nil)

// SavePrediction saves a prediction to memory
func (m *Memory) SavePrediction(ctx context.Context, prediction *model.Prediction) error {
	if prediction == nil {
		return goerr.New("prediction is nil")
	}
	if prediction.ID == "" {
		return goerr.New("prediction ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.predictions[prediction.ID]; !exists {
		m.order = append(m.order, prediction.ID)
	}
	// Store a copy to prevent external modification
	p := *prediction
	m.predictions[prediction.ID] = &p

	for len(m.order) > m.retention {
		delete(m.predictions, m.order[0])
		m.order = m.order[1:]
	}
	return nil
}

// GetPrediction retrieves a prediction by ID
func (m *Memory) GetPrediction(ctx context.Context, id types.PredictionID) (*model.Prediction, error) {
	if id == "" {
		return nil, goerr.New("prediction ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.predictions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrPredictionNotFound, "unknown prediction", goerr.V("id", id))
	}

	c := *p
	return &c, nil
}

// ListPredictions lists retained predictions, newest first
func (m *Memory) ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.order)
	if limit > 0 && limit < n {
		n = limit
	}

	result := make([]*model.Prediction, 0, n)
	for i := len(m.order) - 1; i >= 0 && len(result) < n; i-- {
		c := *m.predictions[m.order[i]]
		result = append(result, &c)
	}
	return result, nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}
