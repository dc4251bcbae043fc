package interfaces

import (
	"context"

	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// PredictionRepository keeps the predictions produced during the process lifetime
type PredictionRepository interface {
	// SavePrediction records a prediction
	SavePrediction(ctx context.Context, prediction *model.Prediction) error

	// GetPrediction returns a recorded prediction. It fails with
	// model.ErrPredictionNotFound for unknown or evicted IDs.
	GetPrediction(ctx context.Context, id types.PredictionID) (*model.Prediction, error)

	// ListPredictions returns up to limit predictions, newest first.
	// A limit <= 0 returns everything retained.
	ListPredictions(ctx context.Context, limit int) ([]*model.Prediction, error)

	Close() error
}
