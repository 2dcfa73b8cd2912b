package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/display"
	"github.com/sells-group/kitchen-estimator/internal/lead"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/wizard"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the interactive cost wizard",
	Long: `Asks the renovation questions one at a time and shows the estimate at the end.

Input:
  <n>      choose option n (toggles on multi-choice questions)
  !<n>     choose option n and continue immediately
  L x B    custom kitchen dimensions in meters
  enter    continue to the next question
  b        back, r restart, q quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		calc := newCalculator()
		s := newSession(cat, calc, newRenderer(cmd.OutOrStdout(), calc), lead.NewLogSubmitter(zap.L()),
			wizard.WithAutoAdvanceDelay(autoAdvanceDelay()),
		)
		defer s.close()
		return s.run(ctx, cmd.InOrStdin())
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

const (
	summaryPrompt = "c = contact opnemen, b = aanpassen, r = opnieuw beginnen, q = stoppen: "
	thanksMessage = "Bedankt voor uw bericht! Een specialist neemt contact met u op."
)

// contactForm collects the lead fields one line at a time.
type contactForm struct {
	req   lead.Request
	field int
}

// session drives a navigator from line-based terminal input. Transitions
// fired by the auto-advance timer arrive through changed and are rendered
// from the input loop.
type session struct {
	cat       *catalog.Catalog
	nav       *wizard.Navigator
	render    *display.Renderer
	submitter lead.Submitter
	changed   chan struct{}
	form      *contactForm
}

func newSession(c *catalog.Catalog, calc *cost.Calculator, r *display.Renderer, sub lead.Submitter, opts ...wizard.Option) *session {
	s := &session{
		cat:       c,
		render:    r,
		submitter: sub,
		changed:   make(chan struct{}, 1),
	}
	opts = append([]wizard.Option{wizard.WithCalculator(calc), wizard.WithOnTransition(s.signal)}, opts...)
	s.nav = wizard.New(c, opts...)
	return s
}

func (s *session) signal(wizard.Snapshot) {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *session) close() {
	s.nav.Close()
}

func (s *session) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lines <- strings.TrimSpace(line):
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	s.show()
	for {
		// Render pending transitions before taking more input.
		select {
		case <-s.changed:
			s.show()
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return nil
		case <-s.changed:
			s.show()
		case line, ok := <-lines:
			if !ok {
				s.drain()
				select {
				case err := <-readErr:
					return eris.Wrap(err, "read input")
				default:
					return nil
				}
			}
			done, err := s.handle(ctx, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

func (s *session) drain() {
	select {
	case <-s.changed:
		s.show()
	default:
	}
}

func (s *session) show() {
	snap := s.nav.Snapshot()
	if snap.Phase == wizard.PhaseSummary {
		s.render.Summary(snap)
		s.render.Prompt(summaryPrompt)
		return
	}
	s.render.Question(snap, s.nav.CostImpact)
}

// handle applies one line of input. It reports done when the user quits.
func (s *session) handle(ctx context.Context, line string) (bool, error) {
	if s.form != nil {
		return false, s.handleForm(ctx, line)
	}

	switch strings.ToLower(line) {
	case "q":
		s.render.Warn("Sessie beëindigd.")
		return true, nil
	case "b":
		s.nav.Back()
		return false, nil
	case "r":
		s.nav.Restart()
		return false, nil
	}

	snap := s.nav.Snapshot()
	if snap.Phase == wizard.PhaseSummary {
		if strings.EqualFold(line, "c") {
			s.startForm(snap)
		} else {
			s.render.Prompt(summaryPrompt)
		}
		return false, nil
	}
	if line == "" {
		_ = s.nav.Advance()
		return false, nil
	}

	q := *snap.Current
	confirm := strings.HasPrefix(line, "!")
	if n, err := strconv.Atoi(strings.TrimPrefix(line, "!")); err == nil && q.Type != model.QuestionTypeText {
		a, ok := pick(q, n)
		if !ok {
			s.render.Error("Ongeldige keuze: %d", n)
			return false, nil
		}
		s.apply(snap.Step, q.ID, a, confirm)
		return false, nil
	}

	switch q.Type {
	case model.QuestionTypeDimensions:
		d, ok := parseDimensions(line)
		if !ok {
			s.render.Error("Voer de afmetingen in als LENGTE x BREEDTE, bv. 3.5 x 2.8")
			return false, nil
		}
		s.apply(snap.Step, q.ID, model.Dims(d.Length, d.Width), true)
	case model.QuestionTypeText:
		if q.Format == model.TextFormatEmail {
			switch strings.ToLower(line) {
			case "j", "ja":
				return false, s.nav.SetConsent(true)
			case "n", "nee":
				return false, s.nav.SetConsent(false)
			}
		}
		s.apply(snap.Step, q.ID, model.Text(line), true)
	default:
		s.render.Error("Kies een nummer uit de lijst.")
	}
	return false, nil
}

// apply records input typed while step was showing. Input that arrives
// after an auto-advance moved the wizard on is dropped.
func (s *session) apply(step int, id string, a model.Answer, confirm bool) {
	var err error
	if confirm {
		err = s.nav.DoubleConfirmAt(step, id, a)
	} else {
		err = s.nav.SetAnswerAt(step, id, a)
	}
	switch {
	case errors.Is(err, wizard.ErrStaleStep):
		s.render.Warn("De vraag is inmiddels gewijzigd; uw invoer is niet verwerkt.")
	case err != nil:
		zap.L().Debug("input rejected", zap.String("question", id), zap.Error(err))
	}
}

// pick maps a 1-based menu number to an answer for q.
func pick(q model.Question, n int) (model.Answer, bool) {
	switch {
	case q.IsChoice():
		if n < 1 || n > len(q.Options) {
			return model.Answer{}, false
		}
		return model.Text(q.Options[n-1].Value), true
	case q.Type == model.QuestionTypeDimensions:
		if n < 1 || n > len(q.Presets) {
			return model.Answer{}, false
		}
		p := q.Presets[n-1]
		return model.Dims(p.Length, p.Width), true
	}
	return model.Answer{}, false
}

// parseDimensions reads "L x B" with finite sides. A decimal comma is
// accepted; range checks are left to validation.
func parseDimensions(s string) (model.Dimensions, bool) {
	s = strings.ReplaceAll(strings.ToLower(s), ",", ".")
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == '*' })
	if len(parts) != 2 {
		return model.Dimensions{}, false
	}
	l, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Dimensions{}, false
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Dimensions{}, false
	}
	if math.IsInf(l, 0) || math.IsInf(w, 0) || math.IsNaN(l) || math.IsNaN(w) {
		return model.Dimensions{}, false
	}
	return model.Dimensions{Length: l, Width: w}, true
}

var formPrompts = []string{"Naam", "E-mail", "Bericht (optioneel)"}

func (s *session) startForm(snap wizard.Snapshot) {
	s.form = &contactForm{req: lead.Prefill(s.cat, snap)}
	s.promptField()
}

func (s *session) promptField() {
	label := formPrompts[s.form.field]
	var current string
	switch s.form.field {
	case 0:
		current = s.form.req.Name
	case 1:
		current = s.form.req.Email
	}
	if current != "" {
		label += " [" + current + "]"
	}
	s.render.Prompt(label + ": ")
}

func (s *session) handleForm(ctx context.Context, line string) error {
	if line != "" {
		switch s.form.field {
		case 0:
			s.form.req.Name = line
		case 1:
			s.form.req.Email = line
		case 2:
			s.form.req.Message = line
		}
	}
	s.form.field++
	if s.form.field < len(formPrompts) {
		s.promptField()
		return nil
	}

	req := s.form.req
	s.form = nil
	l, err := lead.New(s.cat, s.nav.Snapshot(), req)
	if err != nil {
		s.render.Error("Het formulier is niet volledig: naam (minimaal 2 karakters) en een geldig e-mailadres zijn verplicht.")
		s.render.Prompt(summaryPrompt)
		return nil
	}
	if err := s.submitter.Submit(ctx, l); err != nil {
		return eris.Wrap(err, "submit lead")
	}
	s.render.Success(thanksMessage)
	s.render.Prompt(summaryPrompt)
	return nil
}
