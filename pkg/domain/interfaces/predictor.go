package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/medpredict/pkg/domain/model"
)

// Predictor produces the failure probability of the monitored device.
// Production of RiskValue is fully external to the dashboard.
type Predictor interface {
	Predict(ctx context.Context) (*model.Prediction, error)
}

// ReportRenderer writes the current dashboard values as a document
type ReportRenderer interface {
	Render(ctx context.Context, w io.Writer, dashboard *model.Dashboard) error
}
