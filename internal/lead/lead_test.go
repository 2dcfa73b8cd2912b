package lead

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/flow"
	"github.com/sells-group/kitchen-estimator/internal/model"
	"github.com/sells-group/kitchen-estimator/internal/wizard"
)

func completedSnapshot(cat *catalog.Catalog) wizard.Snapshot {
	answers := model.Answers{
		"userName":                  model.Text("Jan de Vries"),
		"saveCalculationPreference": model.Text("yes"),
		"userEmailInput":            model.Text("jan@example.nl"),
		"emailConsent":              model.Flag(true),
	}
	return wizard.Snapshot{
		SessionID: "session-1",
		Phase:     wizard.PhaseSummary,
		Questions: flow.Resolve(cat, answers),
		Answers:   answers,
		Estimate:  &model.EstimatedCost{Total: 6300, QualityMultiplier: 1.5, Area: 12},
	}
}

func TestPrefill(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	req := Prefill(cat, completedSnapshot(cat))
	assert.Equal(t, "Jan de Vries", req.Name)
	assert.Equal(t, "jan@example.nl", req.Email)
	assert.Empty(t, req.Message)

	assert.Equal(t, Request{}, Prefill(cat, wizard.Snapshot{}))
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid", Request{Name: "Jan", Email: "jan@example.nl"}, false},
		{"with message", Request{Name: "Jan", Email: "jan@example.nl", Message: "Bel mij"}, false},
		{"missing name", Request{Email: "jan@example.nl"}, true},
		{"short name", Request{Name: "J", Email: "jan@example.nl"}, true},
		{"missing email", Request{Name: "Jan"}, true},
		{"bad email", Request{Name: "Jan", Email: "jan"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	snap := completedSnapshot(cat)

	l, err := New(cat, snap, Request{Name: "Jan", Email: "jan@example.nl", Message: "Graag contact"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, l.ID)
	assert.Equal(t, "session-1", l.SessionID)
	assert.True(t, l.ConsentGiven)
	assert.Equal(t, "Graag contact", l.Message)
	assert.InDelta(t, 6300, l.Estimate.Total, 0.001)
	assert.Equal(t, "jan@example.nl", l.Answers["userEmailInput"])
	assert.False(t, l.SubmittedAt.IsZero())
}

func TestNewRequiresEstimate(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	snap := completedSnapshot(cat)
	snap.Phase = wizard.PhaseAnswering

	_, err := New(cat, snap, Request{Name: "Jan", Email: "jan@example.nl"})
	assert.True(t, eris.Is(err, ErrIncomplete))

	snap.Phase = wizard.PhaseSummary
	snap.Estimate = nil
	_, err = New(cat, snap, Request{Name: "Jan", Email: "jan@example.nl"})
	assert.True(t, eris.Is(err, ErrIncomplete))
}

func TestNewRejectsInvalidRequest(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	_, err := New(cat, completedSnapshot(cat), Request{Name: "Jan", Email: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead: invalid request")
}

func TestLogSubmitter(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	core, logs := observer.New(zapcore.InfoLevel)
	sub := NewLogSubmitter(zap.New(core))

	l, err := New(cat, completedSnapshot(cat), Request{Name: "Jan", Email: "jan@example.nl"})
	require.NoError(t, err)
	require.NoError(t, sub.Submit(context.Background(), l))

	entries := logs.FilterMessage("lead submitted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, l.ID.String(), fields["lead_id"])
	assert.Equal(t, "jan@example.nl", fields["email"])
	assert.Equal(t, true, fields["consent_given"])
}

func TestLogSubmitterCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewLogSubmitter(zap.NewNop()).Submit(ctx, Lead{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, context.Canceled))
}
