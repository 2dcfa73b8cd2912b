// Package lead handles the contact request a user can send after finishing
// the wizard.
package lead

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/wizard"
)

// ErrIncomplete is returned when a lead is created before the wizard
// produced an estimate.
var ErrIncomplete = eris.New("lead: wizard not completed")

// Request is the contact form as filled in by the user.
type Request struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message,omitempty" validate:"max=2000"`
}

// Validate validates the Request using the validator.
func (r *Request) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Lead is a validated contact request with the session it came from.
type Lead struct {
	ID           uuid.UUID           `json:"id"`
	SessionID    string              `json:"session_id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Message      string              `json:"message,omitempty"`
	ConsentGiven bool                `json:"consent_given"`
	Answers      map[string]any      `json:"answers"`
	Estimate     model.EstimatedCost `json:"estimate"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

// Prefill returns a form populated with the name and email already given in
// the wizard.
func Prefill(cat *catalog.Catalog, snap wizard.Snapshot) Request {
	var req Request
	for _, q := range snap.Questions {
		if q.Format == model.TextFormatName {
			req.Name, _ = snap.Answers.Get(q.ID).AsText()
			break
		}
	}
	req.Email, _ = snap.Answers.Get(cat.Conditional.ID).AsText()
	return req
}

// New validates req and binds it to a completed session.
func New(cat *catalog.Catalog, snap wizard.Snapshot, req Request) (Lead, error) {
	if snap.Phase != wizard.PhaseSummary || snap.Estimate == nil {
		return Lead{}, ErrIncomplete
	}
	if err := req.Validate(); err != nil {
		return Lead{}, eris.Wrap(err, "lead: invalid request")
	}

	consent, _ := snap.Answers.Get(cat.Roles.ConsentKey).AsFlag()
	answers := make(map[string]any, len(snap.Answers))
	for id, a := range snap.Answers {
		answers[id] = a.Value()
	}

	return Lead{
		ID:           uuid.New(),
		SessionID:    snap.SessionID,
		Name:         req.Name,
		Email:        req.Email,
		Message:      req.Message,
		ConsentGiven: consent,
		Answers:      answers,
		Estimate:     snap.Estimate.Clone(),
		SubmittedAt:  time.Now().UTC(),
	}, nil
}

// Submitter delivers leads.
type Submitter interface {
	Submit(ctx context.Context, l Lead) error
}

// LogSubmitter records leads in the log. It is the only delivery channel;
// nothing is sent over the network.
type LogSubmitter struct {
	log *zap.Logger
}

// NewLogSubmitter creates a LogSubmitter. A nil logger uses zap.L().
func NewLogSubmitter(log *zap.Logger) *LogSubmitter {
	if log == nil {
		log = zap.L()
	}
	return &LogSubmitter{log: log}
}

// Submit logs l.
func (s *LogSubmitter) Submit(ctx context.Context, l Lead) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "lead: submit")
	}
	s.log.Info("lead submitted",
		zap.String("lead_id", l.ID.String()),
		zap.String("session", l.SessionID),
		zap.String("name", l.Name),
		zap.String("email", l.Email),
		zap.Bool("consent_given", l.ConsentGiven),
		zap.Float64("total", l.Estimate.Total),
		zap.Any("answers", l.Answers),
		zap.Time("submitted_at", l.SubmittedAt),
	)
	return nil
}
