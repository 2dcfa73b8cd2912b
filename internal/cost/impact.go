package cost

import "github.com/sells-group/kitchen-estimator/internal/model"

// Impact is the previewed effect of choosing an option.
type Impact struct {
	// Impact is the signed change in total, quality multiplier applied.
	Impact float64 `json:"impact"`
	// IsContribution is set when the option is already the chosen
	// single-select answer and Impact is its current contribution.
	IsContribution bool `json:"is_contribution"`
}

// OptionImpact previews selecting, deselecting or switching to value for
// question id without touching answers. The quality question, unknown
// questions and options without a cost rule have no impact. A previous
// single-select answer that no longer names an option counts as zero.
func (c *Calculator) OptionImpact(id, value string, answers model.Answers) Impact {
	q, ok := c.cat.Base(id)
	if !ok || !q.IsChoice() || id == c.cat.Roles.QualityQuestion {
		return Impact{}
	}
	target, ok := q.Option(value)
	if !ok || target.Cost == nil {
		return Impact{}
	}

	area := c.Area(answers)
	multiplier := c.QualityMultiplier(answers)
	cost := c.OptionCost(target.Cost, area) * multiplier

	current := answers.Get(id)
	if q.AllowsMultiple() {
		if current.Contains(value) {
			return Impact{Impact: -cost}
		}
		return Impact{Impact: cost}
	}

	chosen, ok := current.AsText()
	switch {
	case !ok:
		return Impact{Impact: cost}
	case chosen == value:
		return Impact{Impact: cost, IsContribution: true}
	}

	var prior float64
	if opt, ok := q.Option(chosen); ok {
		prior = c.OptionCost(opt.Cost, area) * multiplier
	}
	return Impact{Impact: cost - prior}
}
