package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

// Dashboard holds the values shown on the prediction results page.
// FailureProbability in Prediction is the target value; it is never the animated one.
type Dashboard struct {
	Org           string        `json:"org"`
	Prediction    Prediction    `json:"prediction"`
	Maintenance   Maintenance   `json:"maintenance"`
	InputSnapshot InputSnapshot `json:"input_snapshot"`
}

// Maintenance holds the maintenance recommendation and its priority
type Maintenance struct {
	Recommendation string              `json:"recommendation"`
	Priority       types.PriorityClass `json:"priority"`
	PriorityDesc   string              `json:"priority_desc"`
}

// NewMaintenance derives the maintenance priority from the target risk value
func NewMaintenance(recommendation string, target types.RiskValue) Maintenance {
	priority := types.PriorityOf(target)
	return Maintenance{
		Recommendation: recommendation,
		Priority:       priority,
		PriorityDesc:   priority.Description(),
	}
}

// Validate validates the dashboard
func (d *Dashboard) Validate() error {
	if d.Org == "" {
		return goerr.New("organization is required")
	}
	if err := d.Prediction.Validate(); err != nil {
		return goerr.Wrap(err, "invalid prediction")
	}
	if !d.Maintenance.Priority.IsValid() {
		return goerr.New("invalid maintenance priority", goerr.V("priority", d.Maintenance.Priority))
	}
	if err := d.InputSnapshot.Validate(); err != nil {
		return goerr.Wrap(err, "invalid input snapshot")
	}
	return nil
}

// Clone returns a deep copy of the dashboard
func (d *Dashboard) Clone() *Dashboard {
	c := *d
	c.InputSnapshot = d.InputSnapshot.Clone()
	return &c
}
