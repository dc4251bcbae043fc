package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// Prediction is one output of the predictor. It is immutable once produced.
type Prediction struct {
	ID                 types.PredictionID `json:"id"`
	FailureProbability types.RiskValue    `json:"failure_probability"`
	Confidence         types.Confidence   `json:"confidence"`
	CreatedAt          time.Time          `json:"created_at"`
}

// NewPrediction creates a new prediction with a fresh ID
func NewPrediction(probability types.RiskValue, confidence types.Confidence) (*Prediction, error) {
	p := &Prediction{
		ID:                 types.NewPredictionID(),
		FailureProbability: probability,
		Confidence:         confidence,
		CreatedAt:          time.Now(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate validates the prediction
func (p *Prediction) Validate() error {
	if p.ID == "" {
		return goerr.New("prediction ID is required")
	}
	if err := p.FailureProbability.Validate(); err != nil {
		return goerr.Wrap(err, "invalid failure probability")
	}
	if err := p.Confidence.Validate(); err != nil {
		return goerr.Wrap(err, "invalid confidence")
	}
	return nil
}
