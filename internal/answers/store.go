// Package answers owns the wizard's answer state. All mutations go through
// Store so that answer shapes always match their question's type.
package answers

import (
	"slices"

	"github.com/rotisserie/eris"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

var (
	// ErrUnknownQuestion is returned for ids the catalog does not define.
	ErrUnknownQuestion = eris.New("answers: unknown question")
	// ErrMalformedAnswer is returned when an answer's shape does not match
	// its question's type.
	ErrMalformedAnswer = eris.New("answers: malformed answer")
)

// Store holds the answers of one wizard session. It is not safe for
// concurrent use; the navigator serialises access.
type Store struct {
	cat   *catalog.Catalog
	state model.Answers
}

// NewStore returns an empty store for cat.
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{cat: cat, state: model.Answers{}}
}

// Answers returns a copy of the current state.
func (s *Store) Answers() model.Answers {
	return s.state.Clone()
}

// Get returns the stored answer for id.
func (s *Store) Get(id string) model.Answer {
	return s.state.Get(id)
}

// Reset clears every answer.
func (s *Store) Reset() {
	s.state = model.Answers{}
}

// SetConsent records the consent flag that accompanies the email question.
func (s *Store) SetConsent(given bool) {
	s.state[s.cat.Roles.ConsentKey] = model.Flag(given)
}

// Set records a for question id. For multi-choice questions a Text answer
// toggles that value and a Selection replaces the whole set. Setting the
// trigger question to its retract value also removes the conditional
// answer and the consent flag.
func (s *Store) Set(id string, a model.Answer) error {
	q, ok := s.cat.Lookup(id)
	if !ok {
		return eris.Wrapf(ErrUnknownQuestion, "question %q", id)
	}

	switch q.Type {
	case model.QuestionTypeMultiChoice:
		if v, ok := a.AsText(); ok {
			return s.Toggle(id, v)
		}
		sel, ok := a.AsSelection()
		if !ok {
			return malformed(q, a)
		}
		for _, v := range sel {
			if _, ok := q.Option(v); !ok {
				return eris.Wrapf(ErrMalformedAnswer, "question %q has no option %q", id, v)
			}
		}
		s.state[id] = s.repair(q, sel)
		return nil

	case model.QuestionTypeSingleChoice:
		v, ok := a.AsText()
		if !ok {
			return malformed(q, a)
		}
		if _, ok := q.Option(v); !ok {
			return eris.Wrapf(ErrMalformedAnswer, "question %q has no option %q", id, v)
		}

	case model.QuestionTypeDimensions:
		if _, ok := a.AsDimensions(); !ok {
			return malformed(q, a)
		}

	case model.QuestionTypeText:
		if k := a.Kind(); k != model.AnswerText && k != model.AnswerNumber {
			return malformed(q, a)
		}
	}

	s.state[id] = a
	s.retract(id, a)
	return nil
}

// Toggle flips value in a multi-choice selection. The none value is
// exclusive: choosing it drops every other value, and choosing anything else
// drops it.
func (s *Store) Toggle(id, value string) error {
	q, ok := s.cat.Lookup(id)
	if !ok {
		return eris.Wrapf(ErrUnknownQuestion, "question %q", id)
	}
	if !q.AllowsMultiple() {
		return eris.Wrapf(ErrMalformedAnswer, "question %q is not multi-choice", id)
	}
	if _, ok := q.Option(value); !ok {
		return eris.Wrapf(ErrMalformedAnswer, "question %q has no option %q", id, value)
	}

	current, _ := s.state.Get(id).AsSelection()
	none := s.cat.Roles.NoneValue

	var next []string
	switch {
	case none != "" && value == none:
		if !slices.Contains(current, none) {
			next = []string{none}
		}
	default:
		next = slices.DeleteFunc(current, func(v string) bool { return none != "" && v == none })
		if i := slices.Index(next, value); i >= 0 {
			next = slices.Delete(next, i, i+1)
		} else {
			next = append(next, value)
		}
	}

	s.state[id] = s.repair(q, next)
	return nil
}

// repair keeps a required multi-choice question from holding an empty set.
func (s *Store) repair(q model.Question, sel []string) model.Answer {
	if len(sel) == 0 && q.Required && s.cat.Roles.NoneValue != "" {
		if _, ok := q.Option(s.cat.Roles.NoneValue); ok {
			return model.Selection(s.cat.Roles.NoneValue)
		}
	}
	return model.Selection(sel...)
}

func (s *Store) retract(id string, a model.Answer) {
	r := s.cat.Roles
	if id != r.TriggerQuestion {
		return
	}
	if v, _ := a.AsText(); v == r.RetractValue {
		delete(s.state, s.cat.Conditional.ID)
		delete(s.state, r.ConsentKey)
	}
}

func malformed(q model.Question, a model.Answer) error {
	return eris.Wrapf(ErrMalformedAnswer, "question %q (%s) cannot hold a %s answer", q.ID, q.Type, a.Kind())
}
