package types

import (
	"math"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

const (
	MinRiskValue RiskValue = 0
	MaxRiskValue RiskValue = 100
)

// RiskValue represents a failure-probability percentage in [0,100]
type RiskValue int

// NewRiskValue creates a RiskValue and rejects values out of range
func NewRiskValue(v int) (RiskValue, error) {
	r := RiskValue(v)
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r, nil
}

// ClampRiskValue rounds a number half-up and clamps it into [0,100].
// NaN is treated as 0.
func ClampRiskValue(v float64) RiskValue {
	if math.IsNaN(v) {
		return MinRiskValue
	}
	if v <= float64(MinRiskValue) {
		return MinRiskValue
	}
	if v >= float64(MaxRiskValue) {
		return MaxRiskValue
	}
	return RiskValue(math.Floor(v + 0.5))
}

// Validate checks the range of the value
func (r RiskValue) Validate() error {
	if r < MinRiskValue || r > MaxRiskValue {
		return goerr.New("risk value out of range", goerr.V("value", int(r)))
	}
	return nil
}

// Int returns the value as int
func (r RiskValue) Int() int {
	return int(r)
}

// String returns the value as a percentage label such as "27%"
func (r RiskValue) String() string {
	return strconv.Itoa(int(r)) + "%"
}

// Confidence represents the confidence of a prediction in percent
type Confidence int

// Validate checks the range of the confidence
func (c Confidence) Validate() error {
	if c < 0 || c > 100 {
		return goerr.New("confidence out of range", goerr.V("value", int(c)))
	}
	return nil
}

// String returns the confidence as a percentage label
func (c Confidence) String() string {
	return strconv.Itoa(int(c)) + "%"
}

// Direction is the unit step applied to a displayed value on each tick
type Direction int

const (
	DirectionDown Direction = -1
	DirectionNone Direction = 0
	DirectionUp   Direction = 1
)

// DirectionOf returns the step that moves from toward to
func DirectionOf(from, to RiskValue) Direction {
	switch {
	case to > from:
		return DirectionUp
	case to < from:
		return DirectionDown
	default:
		return DirectionNone
	}
}
