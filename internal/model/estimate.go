package model

import "slices"

// CostBreakdownItem is one priced contribution, or a zero-cost descriptor of
// a derived fact (area, quality multiplier).
type CostBreakdownItem struct {
	Category string  `yaml:"category" json:"category"`
	Label    string  `yaml:"label" json:"label"`
	Cost     float64 `yaml:"cost" json:"cost"`
	Details  string  `yaml:"details,omitempty" json:"details,omitempty"`
}

// EstimatedCost is the full result of a cost computation. It is always
// recomputed in full, never patched.
type EstimatedCost struct {
	Total             float64             `yaml:"total" json:"total"`
	Breakdown         []CostBreakdownItem `yaml:"breakdown" json:"breakdown"`
	QualityMultiplier float64             `yaml:"quality_multiplier" json:"quality_multiplier"`
	Area              float64             `yaml:"area" json:"area"`
}

// Clone returns a copy that shares no memory with e.
func (e EstimatedCost) Clone() EstimatedCost {
	e.Breakdown = slices.Clone(e.Breakdown)
	return e
}
