package types

// PriorityClass is the urgency bucket derived from a RiskValue
type PriorityClass string

const (
	PriorityLow    PriorityClass = "Low"
	PriorityMedium PriorityClass = "Medium"
	PriorityHigh   PriorityClass = "High"
)

const (
	highPriorityThreshold   RiskValue = 80
	mediumPriorityThreshold RiskValue = 50
)

// PriorityOf classifies a target risk value: High if >= 80, Medium if >= 50, otherwise Low
func PriorityOf(r RiskValue) PriorityClass {
	switch {
	case r >= highPriorityThreshold:
		return PriorityHigh
	case r >= mediumPriorityThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// String returns the string representation of the priority
func (p PriorityClass) String() string {
	return string(p)
}

// IsValid checks if the priority is valid
func (p PriorityClass) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Label returns the display label, e.g. "High Priority"
func (p PriorityClass) Label() string {
	return string(p) + " Priority"
}

// Description returns the maintenance explanation shown next to the priority
func (p PriorityClass) Description() string {
	switch p {
	case PriorityHigh:
		return "Immediate maintenance required"
	case PriorityMedium:
		return "Based on risk & cost"
	default:
		return "Minimal risk detected"
	}
}
