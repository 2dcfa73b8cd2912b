// Package report turns a finished wizard session into the pieces the summary
// screen shows: the chosen options, the visible cost lines and formatted
// amounts.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

const (
	consentQuestion = "Toestemming e-mailgebruik"
	consentGiven    = "Ja"
	consentMissing  = "Nee (vereist om op te slaan)"
)

var printer = message.NewPrinter(language.Dutch)

// ChosenOption is one line of the answer summary.
type ChosenOption struct {
	Question string `json:"question" yaml:"question"`
	Value    string `json:"value" yaml:"value"`
}

// Summarize lists the human-readable answer to every active question.
// Unanswered questions and empty optional multi-selects are left out.
func Summarize(cat *catalog.Catalog, active []model.Question, answers model.Answers) []ChosenOption {
	var out []ChosenOption
	for _, q := range active {
		a := answers.Get(q.ID)

		if q.ID == cat.Conditional.ID {
			email, ok := a.AsText()
			if !ok {
				continue
			}
			out = append(out, ChosenOption{Question: q.Text, Value: email})
			if consent, _ := answers.Get(cat.Roles.ConsentKey).AsFlag(); consent {
				out = append(out, ChosenOption{Question: consentQuestion, Value: consentGiven})
			} else {
				out = append(out, ChosenOption{Question: consentQuestion, Value: consentMissing})
			}
			continue
		}

		if v := describe(q, a); v != "" {
			out = append(out, ChosenOption{Question: q.Text, Value: v})
		}
	}
	return out
}

func describe(q model.Question, a model.Answer) string {
	switch {
	case q.AllowsMultiple():
		sel, _ := a.AsSelection()
		labels := make([]string, 0, len(sel))
		for _, v := range sel {
			labels = append(labels, optionLabel(q, v))
		}
		return strings.Join(labels, ", ")

	case q.Type == model.QuestionTypeDimensions:
		d, ok := a.AsDimensions()
		if !ok || !d.Positive() {
			return ""
		}
		return fmt.Sprintf("%sm x %sm", trim(d.Length), trim(d.Width))

	case q.IsChoice():
		v, ok := a.AsText()
		if !ok {
			return ""
		}
		if opt, ok := q.Option(v); ok {
			return opt.Label
		}
		return ""
	}

	switch a.Kind() {
	case model.AnswerText:
		v, _ := a.AsText()
		return v
	case model.AnswerNumber:
		n, _ := a.AsNumber()
		return trim(n)
	}
	return ""
}

func optionLabel(q model.Question, value string) string {
	if opt, ok := q.Option(value); ok {
		return opt.Label
	}
	return value
}

// VisibleBreakdown drops identity lines and zero-cost lines, keeping the
// area and quality descriptors.
func VisibleBreakdown(calc *cost.Calculator, est model.EstimatedCost) []model.CostBreakdownItem {
	roles := calc.Catalog().Roles
	out := make([]model.CostBreakdownItem, 0, len(est.Breakdown))
	for _, item := range est.Breakdown {
		if item.Category == roles.IdentityCategory {
			continue
		}
		if item.Cost != 0 || IsDescriptor(calc, item) {
			out = append(out, item)
		}
	}
	return out
}

// IsDescriptor reports whether item describes a derived fact and has no
// amount to show.
func IsDescriptor(calc *cost.Calculator, item model.CostBreakdownItem) bool {
	if calc.IsAreaItem(item) {
		return true
	}
	return item.Category == calc.Catalog().Roles.QualityCategory && strings.Contains(item.Details, "x")
}

// FormatEUR renders amount as whole euros with Dutch digit grouping,
// e.g. "€ 12.500".
func FormatEUR(amount float64) string {
	n := int64(math.Round(amount))
	if n < 0 {
		return printer.Sprintf("€ -%d", -n)
	}
	return printer.Sprintf("€ %d", n)
}

// FormatImpact renders a cost impact preview, e.g. "+ € 500".
func FormatImpact(impact cost.Impact) string {
	n := int64(math.Round(impact.Impact))
	switch {
	case impact.IsContribution:
		return "huidige keuze: " + FormatEUR(impact.Impact)
	case n > 0:
		return "+ " + FormatEUR(impact.Impact)
	case n < 0:
		return "- " + FormatEUR(-impact.Impact)
	}
	return "geen meerkosten"
}

// Progress returns the 1-based step label and the completion percentage.
func Progress(step, total int) (string, int) {
	if total <= 0 {
		return "", 0
	}
	pct := int(math.Round(float64(step+1) / float64(total) * 100))
	return fmt.Sprintf("Stap %d van %d", step+1, total), pct
}

func trim(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
