package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medpredict/pkg/domain/model"
	"github.com/secmon-lab/medpredict/pkg/domain/types"
)

func newDashboard(t *testing.T) *model.Dashboard {
	t.Helper()
	p, err := model.NewPrediction(27, 82)
	gt.NoError(t, err).Required()
	return &model.Dashboard{
		Org:           "St. Mary's Health",
		Prediction:    *p,
		Maintenance:   model.NewMaintenance("Schedule in 2–3 weeks", p.FailureProbability),
		InputSnapshot: model.DefaultInputSnapshot(),
	}
}

func TestNewMaintenance(t *testing.T) {
	testCases := []struct {
		target   types.RiskValue
		priority types.PriorityClass
		desc     string
	}{
		{target: 0, priority: types.PriorityLow, desc: "Minimal risk detected"},
		{target: 49, priority: types.PriorityLow, desc: "Minimal risk detected"},
		{target: 50, priority: types.PriorityMedium, desc: "Based on risk & cost"},
		{target: 79, priority: types.PriorityMedium, desc: "Based on risk & cost"},
		{target: 80, priority: types.PriorityHigh, desc: "Immediate maintenance required"},
		{target: 100, priority: types.PriorityHigh, desc: "Immediate maintenance required"},
	}

	for _, tc := range testCases {
		m := model.NewMaintenance("Schedule in 2–3 weeks", tc.target)
		gt.Equal(t, m.Priority, tc.priority)
		gt.Equal(t, m.PriorityDesc, tc.desc)
		gt.Equal(t, m.Recommendation, "Schedule in 2–3 weeks")
	}
}

func TestDashboardValidate(t *testing.T) {
	gt.NoError(t, newDashboard(t).Validate())

	t.Run("missing org", func(t *testing.T) {
		d := newDashboard(t)
		d.Org = ""
		gt.Error(t, d.Validate())
	})

	t.Run("bad priority", func(t *testing.T) {
		d := newDashboard(t)
		d.Maintenance.Priority = "Urgent"
		gt.Error(t, d.Validate())
	})

	t.Run("duplicate parameter", func(t *testing.T) {
		d := newDashboard(t)
		d.InputSnapshot = append(d.InputSnapshot, model.Parameter{Name: "Humidity", Value: "50%"})
		gt.Error(t, d.Validate())
	})

	t.Run("probability out of range", func(t *testing.T) {
		d := newDashboard(t)
		d.Prediction.FailureProbability = 101
		gt.Error(t, d.Validate())
	})
}

func TestDashboardClone(t *testing.T) {
	d := newDashboard(t)
	c := d.Clone()

	c.InputSnapshot[0].Value = "99"
	c.Org = "Other"

	gt.Equal(t, d.InputSnapshot[0].Value, "36")
	gt.Equal(t, d.Org, "St. Mary's Health")
}

func TestInputSnapshotRows(t *testing.T) {
	rows := model.DefaultInputSnapshot().Rows()
	gt.Equal(t, len(rows), 10)
	gt.Equal(t, rows[9], []string{"Device type", "MRI"})
}
