// Package display renders wizard state, estimates and the catalog to a
// terminal. All output goes through an io.Writer so commands and tests can
// capture it.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/report"
	"github.com/sells-group/kitchen-estimator/internal/wizard"
)

// Color modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const ruleWidth = 60

// ColorEnabled resolves a color mode for f. In auto mode color is used only
// when f is a terminal.
func ColorEnabled(f *os.File, mode string) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer writes human-readable views.
type Renderer struct {
	out  io.Writer
	calc *cost.Calculator

	bold   *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
	faint  *color.Color
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer, calc *cost.Calculator, colorOutput bool) *Renderer {
	r := &Renderer{
		out:    out,
		calc:   calc,
		bold:   color.New(color.Bold),
		cyan:   color.New(color.FgCyan),
		green:  color.New(color.FgGreen, color.Bold),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		faint:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.bold, r.cyan, r.green, r.yellow, r.red, r.faint} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Question renders the current step of snap with a cost preview per option.
func (r *Renderer) Question(snap wizard.Snapshot, impact func(id, value string) cost.Impact) {
	q := snap.Current
	if q == nil {
		return
	}
	label, pct := report.Progress(snap.Step, len(snap.Questions))
	fmt.Fprintln(r.out)
	r.faint.Fprintf(r.out, "%s (%d%% voltooid)\n", label, pct)
	fmt.Fprintln(r.out, strings.Repeat("-", ruleWidth))
	r.bold.Fprintln(r.out, q.Text)
	if q.Detail != "" {
		fmt.Fprintln(r.out, q.Detail)
	}
	fmt.Fprintln(r.out)

	answer := snap.Answers.Get(q.ID)
	switch q.Type {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice:
		r.options(*q, answer, impact)
	case model.QuestionTypeDimensions:
		r.dimensions(*q, answer)
	case model.QuestionTypeText:
		r.text(*q, answer)
		if q.Format == model.TextFormatEmail {
			given, _ := snap.Answers.Get(r.calc.Catalog().Roles.ConsentKey).AsFlag()
			r.consent(given)
		}
	}

	if snap.Validation != "" {
		fmt.Fprintln(r.out)
		r.red.Fprintln(r.out, snap.Validation)
	}
	fmt.Fprintln(r.out)
	r.cyan.Fprint(r.out, r.prompt(*q))
}

func (r *Renderer) options(q model.Question, answer model.Answer, impact func(id, value string) cost.Impact) {
	for i, opt := range q.Options {
		marker := " "
		if answer.Contains(opt.Value) {
			marker = "*"
		}
		line := fmt.Sprintf("  %s %d) %s", marker, i+1, opt.Label)
		if opt.PriceIndication != "" {
			line += "  " + r.faint.Sprint(opt.PriceIndication)
		}
		if impact != nil && opt.Cost != nil && opt.Cost.Kind != model.CostKindMultiplier {
			line += "  " + r.yellow.Sprintf("[%s]", report.FormatImpact(impact(q.ID, opt.Value)))
		}
		fmt.Fprintln(r.out, line)
		if opt.Detail != "" {
			fmt.Fprintln(r.out, "       "+r.faint.Sprint(opt.Detail))
		}
	}
}

func (r *Renderer) dimensions(q model.Question, answer model.Answer) {
	current, _ := answer.AsDimensions()
	fmt.Fprintln(r.out, "Kies een standaardgrootte (optioneel):")
	for i, p := range q.Presets {
		marker := " "
		if current.Length == p.Length && current.Width == p.Width {
			marker = "*"
		}
		fmt.Fprintf(r.out, "  %s %d) %s  %s\n", marker, i+1, p.Label, r.faint.Sprint(p.Description))
	}
	fmt.Fprintln(r.out, "Of voer aangepaste afmetingen in als LENGTE x BREEDTE (bv. 3.5 x 2.8).")
	if current.Positive() {
		fmt.Fprintf(r.out, "Huidig: %gm x %gm\n", current.Length, current.Width)
	}
}

func (r *Renderer) text(q model.Question, answer model.Answer) {
	if v, ok := answer.AsText(); ok && v != "" {
		fmt.Fprintf(r.out, "Huidig: %s\n", v)
	}
	if q.Placeholder != "" {
		r.faint.Fprintf(r.out, "bv. %s\n", q.Placeholder)
	}
}

func (r *Renderer) prompt(q model.Question) string {
	switch q.Type {
	case model.QuestionTypeSingleChoice:
		return "Keuze (nummer, !nummer = direct verder, b = terug, q = stop): "
	case model.QuestionTypeMultiChoice:
		return "Keuze (nummer om aan/uit te zetten, enter = verder, b = terug): "
	case model.QuestionTypeDimensions:
		return "Afmetingen (nummer of L x B, enter = verder, b = terug): "
	}
	return "Antwoord (enter = verder, b = terug): "
}

func (r *Renderer) consent(given bool) {
	state := "nee"
	if given {
		state = "ja"
	}
	fmt.Fprintln(r.out, "Ik geef toestemming om mijn e-mailadres te gebruiken voor het ontvangen van deze berekening")
	fmt.Fprintf(r.out, "en voor eventueel contact door een specialist. Akkoord: %s (typ j of n)\n", state)
}

// Prompt prints an input prompt without a trailing newline.
func (r *Renderer) Prompt(text string) {
	r.cyan.Fprint(r.out, text)
}

// Summary renders the result screen for a completed session.
func (r *Renderer) Summary(snap wizard.Snapshot) {
	if snap.Estimate == nil {
		return
	}
	fmt.Fprintln(r.out)
	r.bold.Fprintln(r.out, "Uw geschatte keukenkosten")
	fmt.Fprintln(r.out, strings.Repeat("=", ruleWidth))
	r.Estimate(*snap.Estimate)

	chosen := report.Summarize(r.calc.Catalog(), snap.Questions, snap.Answers)
	if len(chosen) > 0 {
		fmt.Fprintln(r.out)
		r.bold.Fprintln(r.out, "Uw keuzes")
		for _, c := range chosen {
			fmt.Fprintf(r.out, "  %s: %s\n", c.Question, c.Value)
		}
	}
	fmt.Fprintln(r.out)
	r.faint.Fprintln(r.out, "Prijzen zijn schattingen en kunnen afwijken.")
}

// Estimate renders the total and the visible breakdown as a table.
func (r *Renderer) Estimate(est model.EstimatedCost) {
	r.green.Fprintf(r.out, "Totaal: %s\n", report.FormatEUR(est.Total))
	fmt.Fprintf(r.out, "Oppervlakte: %.2f m², kwaliteitsfactor x%.2f\n\n", est.Area, est.QualityMultiplier)

	items := report.VisibleBreakdown(r.calc, est)
	if len(items) == 0 {
		fmt.Fprintln(r.out, "Geen kostenspecificaties beschikbaar.")
		return
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "Omschrijving\tKosten\t")
	_, _ = fmt.Fprintln(w, "------------\t------\t")
	for _, item := range items {
		desc := item.Label
		if item.Details != "" {
			desc += " (" + item.Details + ")"
		}
		amount := ""
		if !report.IsDescriptor(r.calc, item) {
			amount = report.FormatEUR(item.Cost)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t\n", desc, amount)
	}
	_ = w.Flush()
}

// Catalog lists every question and its options.
func (r *Renderer) Catalog(cat *catalog.Catalog) {
	for i, q := range cat.Questions {
		r.bold.Fprintf(r.out, "%2d. %s", i+1, q.Text)
		fmt.Fprintf(r.out, "  %s\n", r.faint.Sprintf("[%s, %s, %s]", q.ID, q.Type, q.Category))
		for _, opt := range q.Options {
			fmt.Fprintf(r.out, "      - %s (%s)%s\n", opt.Label, opt.Value, describeRule(opt.Cost))
		}
		if q.ID == cat.Roles.TriggerQuestion {
			c := cat.Conditional
			fmt.Fprintf(r.out, "      %s %s  %s\n", r.yellow.Sprint("->"), c.Text,
				r.faint.Sprintf("[%s, alleen bij %q]", c.ID, cat.Roles.TriggerValue))
		}
	}
}

func describeRule(rule *model.CostRule) string {
	if rule == nil {
		return ""
	}
	switch rule.Kind {
	case model.CostKindFixed:
		if rule.Amount == 0 {
			return ""
		}
		return "  " + report.FormatEUR(rule.Amount)
	case model.CostKindPerArea:
		return "  " + report.FormatEUR(rule.Rate) + "/m²"
	case model.CostKindMultiplier:
		return fmt.Sprintf("  x%.2f", rule.Factor)
	}
	return ""
}

// Impacts lists the previewed cost change of every option of q.
func (r *Renderer) Impacts(q model.Question, impact func(id, value string) cost.Impact) {
	r.bold.Fprintln(r.out, q.Text)
	for _, opt := range q.Options {
		fmt.Fprintf(r.out, "  %-30s %s\n", opt.Label, report.FormatImpact(impact(q.ID, opt.Value)))
	}
}

// Success prints a confirmation line.
func (r *Renderer) Success(format string, args ...any) {
	r.green.Fprintf(r.out, format+"\n", args...)
}

// Warn prints a warning line.
func (r *Renderer) Warn(format string, args ...any) {
	r.yellow.Fprintf(r.out, format+"\n", args...)
}

// Error prints an error line.
func (r *Renderer) Error(format string, args ...any) {
	r.red.Fprintf(r.out, format+"\n", args...)
}
