// Package cost folds a set of answers into a priced estimate.
package cost

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

// Params holds the pricing constants that are not part of the catalog.
type Params struct {
	DefaultArea       float64 `yaml:"default_area" mapstructure:"default_area"`
	WorktopLabel      string  `yaml:"worktop_label" mapstructure:"worktop_label"`
	WorktopMinimumRun float64 `yaml:"worktop_minimum_run" mapstructure:"worktop_minimum_run"`
	WorktopDivisor    float64 `yaml:"worktop_divisor" mapstructure:"worktop_divisor"`
	AreaUnit          string  `yaml:"area_unit" mapstructure:"area_unit"`
}

// DefaultParams returns the default pricing constants.
func DefaultParams() Params {
	return Params{
		DefaultArea:       10,
		WorktopLabel:      "Werkblad",
		WorktopMinimumRun: 2,
		WorktopDivisor:    3,
		AreaUnit:          "m²",
	}
}

const areaLabel = "Keuken Afmeting"

// Calculator computes estimates for one catalog. It holds no mutable state;
// every method is a pure function of its arguments.
type Calculator struct {
	cat    *catalog.Catalog
	params Params
}

// NewCalculator creates a Calculator. Zero-valued params fall back to
// DefaultParams.
func NewCalculator(cat *catalog.Catalog, params Params) *Calculator {
	def := DefaultParams()
	if params.DefaultArea <= 0 {
		params.DefaultArea = def.DefaultArea
	}
	if params.WorktopLabel == "" {
		params.WorktopLabel = def.WorktopLabel
	}
	if params.WorktopMinimumRun <= 0 {
		params.WorktopMinimumRun = def.WorktopMinimumRun
	}
	if params.WorktopDivisor <= 0 {
		params.WorktopDivisor = def.WorktopDivisor
	}
	if params.AreaUnit == "" {
		params.AreaUnit = def.AreaUnit
	}
	return &Calculator{cat: cat, params: params}
}

// Params returns the effective pricing constants.
func (c *Calculator) Params() Params {
	return c.params
}

// Catalog returns the catalog the calculator prices.
func (c *Calculator) Catalog() *catalog.Catalog {
	return c.cat
}

// Area returns the effective area: length times width when both are
// positive, the default area otherwise.
func (c *Calculator) Area(answers model.Answers) float64 {
	d, ok := answers.Get(c.cat.Roles.DimensionsQuestion).AsDimensions()
	if ok && d.Positive() {
		return d.Length * d.Width
	}
	return c.params.DefaultArea
}

// QualityMultiplier returns the factor of the chosen quality option, or of
// the default option when unanswered. It is 1.0 when neither resolves to a
// multiplier rule.
func (c *Calculator) QualityMultiplier(answers model.Answers) float64 {
	opt, ok := c.qualityOption(answers)
	if !ok || opt.Cost == nil || opt.Cost.Kind != model.CostKindMultiplier || opt.Cost.Factor == 0 {
		return 1.0
	}
	return opt.Cost.Factor
}

func (c *Calculator) qualityOption(answers model.Answers) (model.QuestionOption, bool) {
	q, ok := c.cat.Base(c.cat.Roles.QualityQuestion)
	if !ok {
		return model.QuestionOption{}, false
	}
	if v, ok := answers.Get(q.ID).AsText(); ok {
		if opt, ok := q.Option(v); ok {
			return opt, true
		}
	}
	return q.Option(c.cat.Roles.DefaultQuality)
}

// OptionCost returns the unmultiplied cost of a rule at the given area.
// Multiplier rules cost nothing.
func (c *Calculator) OptionCost(rule *model.CostRule, area float64) float64 {
	if rule == nil {
		return 0
	}
	switch rule.Kind {
	case model.CostKindFixed:
		return rule.Amount
	case model.CostKindPerArea:
		if rule.Label == c.params.WorktopLabel {
			return rule.Rate * math.Max(c.params.WorktopMinimumRun, area/c.params.WorktopDivisor)
		}
		return rule.Rate * area
	}
	return 0
}

// Estimate computes the full estimate for answers.
func (c *Calculator) Estimate(answers model.Answers) model.EstimatedCost {
	roles := c.cat.Roles
	area := c.Area(answers)
	multiplier := c.QualityMultiplier(answers)

	breakdown := []model.CostBreakdownItem{c.areaItem(answers, area)}
	if item, ok := c.qualityItem(answers, multiplier); ok {
		breakdown = append(breakdown, item)
	}

	for _, q := range c.cat.Questions {
		if q.ID == roles.QualityQuestion || q.Category == roles.IdentityCategory || !q.IsChoice() {
			continue
		}
		a := answers.Get(q.ID)
		var selected []string
		if q.AllowsMultiple() {
			selected, _ = a.AsSelection()
		} else if v, ok := a.AsText(); ok {
			selected = []string{v}
		}
		for _, v := range selected {
			opt, ok := q.Option(v)
			if !ok || opt.Cost == nil || opt.Cost.Kind == model.CostKindMultiplier {
				continue
			}
			breakdown = append(breakdown, model.CostBreakdownItem{
				Category: q.Category,
				Label:    opt.Cost.Label,
				Cost:     c.OptionCost(opt.Cost, area),
				Details:  opt.Label,
			})
		}
	}

	var total float64
	for i := range breakdown {
		item := &breakdown[i]
		if !c.cat.IsInformational(item.Category) {
			item.Cost *= multiplier
		}
		if c.counts(*item) {
			total += item.Cost
		}
	}

	return model.EstimatedCost{
		Total:             total,
		Breakdown:         breakdown,
		QualityMultiplier: multiplier,
		Area:              area,
	}
}

// counts reports whether item contributes to the total.
func (c *Calculator) counts(item model.CostBreakdownItem) bool {
	roles := c.cat.Roles
	switch item.Category {
	case roles.QualityCategory, roles.IdentityCategory:
		return false
	case roles.AreaCategory:
		return !c.IsAreaItem(item)
	}
	return true
}

// IsAreaItem reports whether item is the area descriptor.
func (c *Calculator) IsAreaItem(item model.CostBreakdownItem) bool {
	return item.Category == c.cat.Roles.AreaCategory && strings.Contains(item.Details, c.params.AreaUnit)
}

func (c *Calculator) areaItem(answers model.Answers, area float64) model.CostBreakdownItem {
	item := model.CostBreakdownItem{Category: c.cat.Roles.AreaCategory, Label: areaLabel}
	if d, ok := answers.Get(c.cat.Roles.DimensionsQuestion).AsDimensions(); ok && d.Positive() {
		item.Details = fmt.Sprintf("%sm x %sm = %.2f %s", trim(d.Length), trim(d.Width), area, c.params.AreaUnit)
	} else {
		item.Details = fmt.Sprintf("standaard %.2f %s (geen geldige afmetingen)", area, c.params.AreaUnit)
	}
	return item
}

func (c *Calculator) qualityItem(answers model.Answers, multiplier float64) (model.CostBreakdownItem, bool) {
	q, ok := c.cat.Base(c.cat.Roles.QualityQuestion)
	if !ok {
		return model.CostBreakdownItem{}, false
	}
	item := model.CostBreakdownItem{
		Category: q.Category,
		Label:    q.Text,
		Details:  fmt.Sprintf("x%.2f", multiplier),
	}
	if opt, ok := c.qualityOption(answers); ok && opt.Cost != nil {
		item.Label = opt.Cost.Label
		item.Details = fmt.Sprintf("%s (x%.2f)", opt.Label, multiplier)
	}
	return item, true
}

func trim(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
