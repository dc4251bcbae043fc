package usecase

import (
	"context"
	"io"

	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// DashboardUseCase defines the operations of the prediction dashboard
type DashboardUseCase interface {
	// Current returns the current dashboard values
	Current(ctx context.Context) *model.Dashboard

	// RunAgain produces a fresh prediction and makes it the new target
	RunAgain(ctx context.Context) (*model.Dashboard, error)

	// History returns recorded predictions, newest first
	History(ctx context.Context, limit int) ([]*model.Prediction, error)

	// Prediction returns a recorded prediction by ID
	Prediction(ctx context.Context, id types.PredictionID) (*model.Prediction, error)

	// Subscribe returns a feed of target risk values and its cancel function
	Subscribe() (<-chan types.RiskValue, func())

	// ExportReport renders the current values as a PDF report
	ExportReport(ctx context.Context, w io.Writer) error
}

var _ DashboardUseCase = (*Dashboard)(nil)
