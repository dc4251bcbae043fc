package model

import (
	"github.com/m-mizutani/goerr/v2"
)

// Parameter is one model input shown in the input snapshot
type Parameter struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// InputSnapshot is the ordered list of model inputs
type InputSnapshot []Parameter

// Validate validates the snapshot
func (s InputSnapshot) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, p := range s {
		if p.Name == "" {
			return goerr.New("parameter name is required", goerr.V("index", i))
		}
		if seen[p.Name] {
			return goerr.New("duplicate parameter", goerr.V("name", p.Name))
		}
		seen[p.Name] = true
	}
	return nil
}

// Clone returns a copy of the snapshot
func (s InputSnapshot) Clone() InputSnapshot {
	if s == nil {
		return nil
	}
	c := make(InputSnapshot, len(s))
	copy(c, s)
	return c
}

// Rows returns the snapshot as parameter/value rows for tabular rendering
func (s InputSnapshot) Rows() [][]string {
	rows := make([][]string, 0, len(s))
	for _, p := range s {
		rows = append(rows, []string{p.Name, p.Value})
	}
	return rows
}

// DefaultInputSnapshot returns the inputs of the sample MRI device
func DefaultInputSnapshot() InputSnapshot {
	return InputSnapshot{
		{Name: "Age (months)", Value: "36"},
		{Name: "Usage hrs/day", Value: "8"},
		{Name: "Operational hours", Value: "12400"},
		{Name: "Temperature Avg", Value: "22°C"},
		{Name: "Humidity", Value: "48%"},
		{Name: "Vibration Avg", Value: "0.35g"},
		{Name: "Voltage fluctuation", Value: "3.1%"},
		{Name: "Last repair cost", Value: "$1,250"},
		{Name: "Errors (24h)", Value: "5"},
		{Name: "Device type", Value: "MRI"},
	}
}

// SnapshotFile is the YAML document that overrides the input snapshot
type SnapshotFile struct {
	Parameters InputSnapshot `yaml:"parameters"`
}
