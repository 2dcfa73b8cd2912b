// Package wizard implements the step navigator: the state machine that walks
// a user through the active question list, gates each step on validation,
// auto-advances after single-choice answers and produces the estimate on
// completion.
package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/kitchen-estimator/internal/answers"
	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/cost"
	"github.com/sells-group/kitchen-estimator/internal/flow"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/validation"
)

// ErrInactiveQuestion is returned when an answer targets a question that is
// not part of the active flow.
var ErrInactiveQuestion = eris.New("wizard: question not in active flow")

// ErrStaleStep is returned when input aimed at a step arrives after the
// navigator has moved away from it.
var ErrStaleStep = eris.New("wizard: step no longer current")

// Phase is the navigator's top-level state.
type Phase int

const (
	PhaseAnswering Phase = iota
	PhaseSummary
)

func (p Phase) String() string {
	if p == PhaseSummary {
		return "summary"
	}
	return "answering"
}

// Snapshot is a read-only view of the navigator for the presentation layer.
type Snapshot struct {
	SessionID   string
	Phase       Phase
	Step        int
	Questions   []model.Question
	Current     *model.Question
	Answers     model.Answers
	Validation  string
	Estimate    *model.EstimatedCost
	AutoAdvance bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithScheduler replaces the wall-clock scheduler used for auto-advance.
func WithScheduler(s Scheduler) Option {
	return func(n *Navigator) { n.sched = s }
}

// WithAutoAdvanceDelay sets the debounce delay. Zero or negative disables
// auto-advance.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(n *Navigator) { n.delay = d }
}

// WithLogger sets the logger. Defaults to zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) { n.log = l }
}

// WithCalculator sets the cost calculator. Defaults to one built from
// cost.DefaultParams.
func WithCalculator(c *cost.Calculator) Option {
	return func(n *Navigator) { n.calc = c }
}

// WithOnTransition registers a callback that receives a snapshot after every
// state change, including those fired by the auto-advance timer. It is
// called without the navigator's lock held.
func WithOnTransition(f func(Snapshot)) Option {
	return func(n *Navigator) { n.onTransition = f }
}

// Navigator is the wizard state machine. All intents are serialised; the
// auto-advance timer is the only asynchronous source of transitions.
type Navigator struct {
	mu sync.Mutex

	cat   *catalog.Catalog
	store *answers.Store
	calc  *cost.Calculator

	sched        Scheduler
	delay        time.Duration
	log          *zap.Logger
	onTransition func(Snapshot)
	sessionID    string

	phase    Phase
	step     int
	failure  *validation.Failure
	estimate *model.EstimatedCost

	pending    Timer
	generation uint64
	closed     bool
}

// New returns a navigator at step 0 with no answers.
func New(cat *catalog.Catalog, opts ...Option) *Navigator {
	n := &Navigator{
		cat:       cat,
		store:     answers.NewStore(cat),
		sched:     clockScheduler{},
		delay:     DefaultAutoAdvanceDelay,
		log:       zap.L(),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.calc == nil {
		n.calc = cost.NewCalculator(cat, cost.DefaultParams())
	}
	n.log = n.log.With(zap.String("session", n.sessionID))
	return n
}

// SessionID identifies this wizard session in logs.
func (n *Navigator) SessionID() string {
	return n.sessionID
}

// Snapshot returns the current state.
func (n *Navigator) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshotLocked()
}

// SetAnswer records an answer. When it answers the current single-choice
// step, auto-advance is scheduled; any pending auto-advance is cancelled
// first.
func (n *Navigator) SetAnswer(id string, a model.Answer) error {
	return n.setAnswer(-1, id, a)
}

// SetAnswerAt is SetAnswer for input taken while step was showing. It
// returns ErrStaleStep when step is no longer the current step.
func (n *Navigator) SetAnswerAt(step int, id string, a model.Answer) error {
	return n.setAnswer(step, id, a)
}

func (n *Navigator) setAnswer(step int, id string, a model.Answer) error {
	n.mu.Lock()
	if err := n.expectLocked(step, id); err != nil {
		n.mu.Unlock()
		return err
	}
	n.cancelLocked()
	if err := n.recordLocked(id, a); err != nil {
		n.mu.Unlock()
		return err
	}
	if q, ok := n.currentLocked(); ok && q.ID == id && q.Type == model.QuestionTypeSingleChoice {
		n.scheduleLocked()
	}
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
	return nil
}

// SetConsent records the email consent flag. It is only accepted while the
// email question is part of the active flow.
func (n *Navigator) SetConsent(given bool) error {
	n.mu.Lock()
	n.cancelLocked()
	id := n.cat.Conditional.ID
	if flow.IndexOf(n.activeLocked(), id) < 0 {
		n.mu.Unlock()
		return eris.Wrapf(ErrInactiveQuestion, "consent for %q", id)
	}
	current := n.currentIDLocked()
	n.store.SetConsent(given)
	n.editedLocked(id, current)
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
	return nil
}

// Advance validates the current step and moves forward. On the last step it
// computes the estimate and enters the summary. A *validation.Failure is
// returned when the step is incomplete.
func (n *Navigator) Advance() error {
	n.mu.Lock()
	n.cancelLocked()
	err := n.advanceLocked()
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
	return err
}

// DoubleConfirm commits an answer and advances immediately, bypassing the
// debounce. Validation still runs. For multi-choice questions it only
// toggles the value.
func (n *Navigator) DoubleConfirm(id string, a model.Answer) error {
	return n.doubleConfirm(-1, id, a)
}

// DoubleConfirmAt is DoubleConfirm for input taken while step was showing.
// It returns ErrStaleStep when step is no longer the current step.
func (n *Navigator) DoubleConfirmAt(step int, id string, a model.Answer) error {
	return n.doubleConfirm(step, id, a)
}

func (n *Navigator) doubleConfirm(step int, id string, a model.Answer) error {
	if q, ok := n.cat.Lookup(id); ok && q.AllowsMultiple() {
		return n.setAnswer(step, id, a)
	}

	n.mu.Lock()
	if err := n.expectLocked(step, id); err != nil {
		n.mu.Unlock()
		return err
	}
	n.cancelLocked()
	if err := n.recordLocked(id, a); err != nil {
		n.mu.Unlock()
		return err
	}
	var err error
	if q, ok := n.currentLocked(); ok && q.ID == id {
		err = n.advanceLocked()
	}
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
	return err
}

// Back leaves the summary for the last step, or moves one step back. It is
// a no-op on the first step.
func (n *Navigator) Back() {
	n.mu.Lock()
	n.cancelLocked()
	n.failure = nil
	active := n.activeLocked()
	switch {
	case n.phase == PhaseSummary:
		n.phase = PhaseAnswering
		n.step = len(active) - 1
	case n.step > 0:
		n.step--
	}
	n.clampLocked(active)
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
}

// Restart clears all answers and results and returns to the first step.
func (n *Navigator) Restart() {
	n.mu.Lock()
	n.cancelLocked()
	n.store.Reset()
	n.failure = nil
	n.estimate = nil
	n.phase = PhaseAnswering
	n.step = 0
	n.log.Info("wizard restarted")
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
}

// CostImpact previews the effect of choosing value for question id.
func (n *Navigator) CostImpact(id, value string) cost.Impact {
	n.mu.Lock()
	current := n.store.Answers()
	n.mu.Unlock()
	return n.calc.OptionImpact(id, value, current)
}

// Close cancels any pending auto-advance. Later timer firings are ignored.
func (n *Navigator) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked()
	n.closed = true
}

func (n *Navigator) recordLocked(id string, a model.Answer) error {
	if flow.IndexOf(n.activeLocked(), id) < 0 {
		return eris.Wrapf(ErrInactiveQuestion, "question %q", id)
	}
	current := n.currentIDLocked()
	if err := n.store.Set(id, a); err != nil {
		return err
	}
	n.editedLocked(id, current)
	return nil
}

// editedLocked applies the side effects of an answer change to id: the
// message and the previous estimate are dropped, an edit made from the
// summary reopens the edited step, and otherwise the step follows the
// question that was current before the active list changed.
func (n *Navigator) editedLocked(id, current string) {
	n.failure = nil
	n.estimate = nil
	active := n.activeLocked()
	switch {
	case n.phase == PhaseSummary:
		n.phase = PhaseAnswering
		n.step = flow.IndexOf(active, id)
	case current != "":
		if i := flow.IndexOf(active, current); i >= 0 {
			n.step = i
		}
	}
	n.clampLocked(active)
}

// expectLocked checks that id is still the question at step. A negative
// step skips the check.
func (n *Navigator) expectLocked(step int, id string) error {
	if step < 0 {
		return nil
	}
	if n.phase != PhaseAnswering || n.step != step || n.currentIDLocked() != id {
		return eris.Wrapf(ErrStaleStep, "question %q at step %d", id, step)
	}
	return nil
}

func (n *Navigator) currentIDLocked() string {
	if q, ok := n.currentLocked(); ok {
		return q.ID
	}
	return ""
}

func (n *Navigator) advanceLocked() error {
	if n.phase == PhaseSummary {
		return nil
	}
	active := n.activeLocked()
	n.clampLocked(active)
	q := active[n.step]

	if err := validation.ValidateStep(n.cat, q, n.store.Answers()); err != nil {
		n.failure, _ = validation.AsFailure(err)
		n.log.Debug("step rejected",
			zap.String("question", q.ID),
			zap.Int("step", n.step),
			zap.Error(err),
		)
		return err
	}
	n.failure = nil

	if n.step < len(active)-1 {
		n.step++
		return nil
	}

	est := n.calc.Estimate(n.store.Answers())
	n.estimate = &est
	n.phase = PhaseSummary
	n.log.Info("wizard completed",
		zap.Float64("total", est.Total),
		zap.Float64("area", est.Area),
		zap.Float64("quality_multiplier", est.QualityMultiplier),
	)
	return nil
}

func (n *Navigator) scheduleLocked() {
	if n.closed || n.delay <= 0 {
		return
	}
	n.generation++
	gen := n.generation
	n.pending = n.sched.AfterFunc(n.delay, func() { n.fire(gen) })
}

func (n *Navigator) cancelLocked() {
	if n.pending != nil {
		n.pending.Stop()
		n.pending = nil
	}
	n.generation++
}

func (n *Navigator) fire(gen uint64) {
	n.mu.Lock()
	if n.closed || gen != n.generation {
		n.mu.Unlock()
		return
	}
	n.pending = nil
	_ = n.advanceLocked()
	snap := n.snapshotLocked()
	n.mu.Unlock()

	n.notify(snap)
}

func (n *Navigator) notify(snap Snapshot) {
	if n.onTransition != nil {
		n.onTransition(snap)
	}
}

func (n *Navigator) activeLocked() []model.Question {
	return flow.Resolve(n.cat, n.store.Answers())
}

func (n *Navigator) currentLocked() (model.Question, bool) {
	if n.phase != PhaseAnswering {
		return model.Question{}, false
	}
	active := n.activeLocked()
	if n.step >= len(active) {
		return model.Question{}, false
	}
	return active[n.step], true
}

func (n *Navigator) clampLocked(active []model.Question) {
	if n.step >= len(active) {
		n.step = len(active) - 1
	}
	if n.step < 0 {
		n.step = 0
	}
}

func (n *Navigator) snapshotLocked() Snapshot {
	active := n.activeLocked()
	snap := Snapshot{
		SessionID:   n.sessionID,
		Phase:       n.phase,
		Step:        n.step,
		Questions:   active,
		Answers:     n.store.Answers(),
		AutoAdvance: n.pending != nil,
	}
	if n.phase == PhaseAnswering && n.step < len(active) {
		q := active[n.step]
		snap.Current = &q
	}
	if n.failure != nil {
		snap.Validation = n.failure.Message
	}
	if n.estimate != nil {
		est := n.estimate.Clone()
		snap.Estimate = &est
	}
	return snap
}
