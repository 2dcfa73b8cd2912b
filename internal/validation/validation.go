// Package validation decides whether the answer to a wizard step is complete
// and well formed.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

// Reason classifies a validation failure.
type Reason string

const (
	ReasonMissing    Reason = "missing"
	ReasonDimensions Reason = "dimensions"
	ReasonName       Reason = "name"
	ReasonEmail      Reason = "email"
	ReasonConsent    Reason = "consent"
)

const minNameLength = 2

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Failure blocks a single transition. Message is meant for the user.
type Failure struct {
	QuestionID string
	Reason     Reason
	Message    string
}

func (f *Failure) Error() string {
	return f.Message
}

// AsFailure extracts a Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsStepValid reports whether q's answer lets the wizard move on.
func IsStepValid(cat *catalog.Catalog, q model.Question, answers model.Answers) bool {
	return ValidateStep(cat, q, answers) == nil
}

// ValidateStep returns a *Failure when q is required and its answer is
// absent or malformed. Non-required questions always pass.
func ValidateStep(cat *catalog.Catalog, q model.Question, answers model.Answers) error {
	if !q.Required {
		return nil
	}
	a := answers.Get(q.ID)

	switch q.Type {
	case model.QuestionTypeSingleChoice:
		if v, ok := a.AsText(); !ok || strings.TrimSpace(v) == "" {
			return missing(q)
		}
	case model.QuestionTypeMultiChoice:
		if sel, ok := a.AsSelection(); !ok || len(sel) == 0 {
			return missing(q)
		}
	case model.QuestionTypeDimensions:
		if a.IsZero() {
			return missing(q)
		}
		if d, ok := a.AsDimensions(); !ok || !d.Positive() {
			return &Failure{
				QuestionID: q.ID,
				Reason:     ReasonDimensions,
				Message:    fmt.Sprintf("Voer geldige afmetingen (groter dan 0) in voor: %q", q.Text),
			}
		}
	case model.QuestionTypeText:
		return validateText(cat, q, answers)
	}
	return nil
}

func validateText(cat *catalog.Catalog, q model.Question, answers model.Answers) error {
	a := answers.Get(q.ID)

	if q.Format == model.TextFormatEmail {
		email, ok := a.AsText()
		if !ok || !emailPattern.MatchString(email) {
			return &Failure{QuestionID: q.ID, Reason: ReasonEmail, Message: "Voer alstublieft een geldig e-mailadres in."}
		}
		if consent, _ := answers.Get(cat.Roles.ConsentKey).AsFlag(); !consent {
			return &Failure{
				QuestionID: q.ID,
				Reason:     ReasonConsent,
				Message:    "U dient akkoord te gaan met het gebruik van uw e-mailadres om verder te gaan.",
			}
		}
		return nil
	}

	var value string
	switch a.Kind() {
	case model.AnswerText:
		value, _ = a.AsText()
	case model.AnswerNumber:
		n, _ := a.AsNumber()
		value = fmt.Sprint(n)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return missing(q)
	}
	if q.Format == model.TextFormatName && utf8.RuneCountInString(value) < minNameLength {
		return &Failure{
			QuestionID: q.ID,
			Reason:     ReasonName,
			Message:    fmt.Sprintf("Voer alstublieft een geldige naam in (minimaal %d karakters).", minNameLength),
		}
	}
	return nil
}

func missing(q model.Question) *Failure {
	return &Failure{
		QuestionID: q.ID,
		Reason:     ReasonMissing,
		Message:    fmt.Sprintf("Beantwoord alstublieft de vraag: %q", q.Text),
	}
}
