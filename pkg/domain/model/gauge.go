package model

import "github.com/secmon-lab/medpredict/pkg/domain/types"

// GaugeGeometry describes a semicircular gauge drawing for one percent value
type GaugeGeometry struct {
	Percent       types.RiskValue     `json:"percent"`
	Size          float64             `json:"size"`
	StrokeWidth   float64             `json:"stroke_width"`
	Center        float64             `json:"center"`
	Radius        float64             `json:"radius"`
	Path          string              `json:"path"`
	Total         float64             `json:"total"`
	Visible       float64             `json:"visible"`
	DashOffset    float64             `json:"dash_offset"`
	Color         string              `json:"color"`
	Priority      types.PriorityClass `json:"priority"`
	PercentLabel  string              `json:"percent_label"`
	PriorityLabel string              `json:"priority_label"`
	Animate       bool                `json:"animate"`
}

// AnimationState is a snapshot of a risk animator
type AnimationState struct {
	Displayed types.RiskValue `json:"displayed"`
	Target    types.RiskValue `json:"target"`
	Direction types.Direction `json:"direction"`
	Running   bool            `json:"running"`
}
