// Package predictor provides stand-in failure predictors. There is no real
// model behind them.
package predictor

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

const (
	minConfidence   = 80
	confidenceRange = 20
)

// Random draws a uniform failure probability in [0,100) and a confidence in [80,100)
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random predictor. A zero seed uses a random source.
func NewRandom(seed uint64) *Random {
	var src rand.Source
	if seed == 0 {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	} else {
		src = rand.NewPCG(seed, seed)
	}
	return &Random{rng: rand.New(src)}
}

// Predict implements interfaces.Predictor
func (r *Random) Predict(ctx context.Context) (*model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, goerr.Wrap(err, "prediction cancelled")
	}

	r.mu.Lock()
	probability := types.RiskValue(r.rng.IntN(int(types.MaxRiskValue)))
	confidence := types.Confidence(minConfidence + r.rng.IntN(confidenceRange))
	r.mu.Unlock()

	p, err := model.NewPrediction(probability, confidence)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create prediction")
	}
	return p, nil
}

// Fixed replays a list of predictions, repeating the last one when exhausted
type Fixed struct {
	mu     sync.Mutex
	values []FixedValue
	next   int
}

// FixedValue is one scripted prediction
type FixedValue struct {
	Probability types.RiskValue
	Confidence  types.Confidence
}

// NewFixed creates a Fixed predictor
func NewFixed(values ...FixedValue) *Fixed {
	return &Fixed{values: values}
}

// Predict implements interfaces.Predictor
func (f *Fixed) Predict(ctx context.Context) (*model.Prediction, error) {
	f.mu.Lock()
	if len(f.values) == 0 {
		f.mu.Unlock()
		return nil, goerr.Wrap(model.ErrPredictionFailed, "no fixed prediction configured")
	}
	v := f.values[f.next]
	if f.next < len(f.values)-1 {
		f.next++
	}
	f.mu.Unlock()

	p, err := model.NewPrediction(v.Probability, v.Confidence)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid fixed prediction",
			goerr.V("probability", v.Probability),
			goerr.V("confidence", v.Confidence))
	}
	return p, nil
}
