package types

import "github.com/google/uuid"

// PredictionID identifies a single prediction cycle
type PredictionID string

// String returns the string representation
func (id PredictionID) String() string {
	return string(id)
}

// NewPredictionID creates a new PredictionID
func NewPredictionID() PredictionID {
	return PredictionID(uuid.New().String())
}
