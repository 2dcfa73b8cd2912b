package validation

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

func question(t *testing.T, cat *catalog.Catalog, id string) model.Question {
	t.Helper()
	q, ok := cat.Lookup(id)
	require.True(t, ok, "question %q", id)
	return q
}

func TestValidateStep(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	tests := []struct {
		name    string
		id      string
		answers model.Answers
		reason  Reason // empty means valid
	}{
		{"single choice absent", "style", model.Answers{}, ReasonMissing},
		{"single choice blank", "style", model.Answers{"style": model.Text("  ")}, ReasonMissing},
		{"single choice answered", "style", model.Answers{"style": model.Text("modern")}, ""},
		{"single choice wrong shape", "style", model.Answers{"style": model.Selection("modern")}, ReasonMissing},

		{"optional multi empty", "extras", model.Answers{"extras": model.Selection()}, ""},
		{"optional multi absent", "extras", model.Answers{}, ""},

		{"dimensions absent", "dimensions", model.Answers{}, ReasonMissing},
		{"dimensions zero length", "dimensions", model.Answers{"dimensions": model.Dims(0, 5)}, ReasonDimensions},
		{"dimensions negative width", "dimensions", model.Answers{"dimensions": model.Dims(4, -1)}, ReasonDimensions},
		{"dimensions infinite length", "dimensions", model.Answers{"dimensions": model.Dims(math.Inf(1), 3)}, ReasonDimensions},
		{"dimensions wrong shape", "dimensions", model.Answers{"dimensions": model.Number(12)}, ReasonDimensions},
		{"dimensions valid", "dimensions", model.Answers{"dimensions": model.Dims(4, 3)}, ""},

		{"name absent", "userName", model.Answers{}, ReasonMissing},
		{"name blank", "userName", model.Answers{"userName": model.Text("   ")}, ReasonMissing},
		{"name too short", "userName", model.Answers{"userName": model.Text(" A ")}, ReasonName},
		{"name two runes", "userName", model.Answers{"userName": model.Text("Él")}, ""},
		{"name valid", "userName", model.Answers{"userName": model.Text("Jan de Vries")}, ""},

		{"email invalid with consent", "userEmailInput", model.Answers{
			"userEmailInput": model.Text("not-an-email"), "emailConsent": model.Flag(true),
		}, ReasonEmail},
		{"email with whitespace", "userEmailInput", model.Answers{
			"userEmailInput": model.Text("jan @example.nl"), "emailConsent": model.Flag(true),
		}, ReasonEmail},
		{"email absent", "userEmailInput", model.Answers{"emailConsent": model.Flag(true)}, ReasonEmail},
		{"email valid no consent", "userEmailInput", model.Answers{
			"userEmailInput": model.Text("jan@example.nl"), "emailConsent": model.Flag(false),
		}, ReasonConsent},
		{"email valid consent missing", "userEmailInput", model.Answers{
			"userEmailInput": model.Text("jan@example.nl"),
		}, ReasonConsent},
		{"email valid with consent", "userEmailInput", model.Answers{
			"userEmailInput": model.Text("jan@example.nl"), "emailConsent": model.Flag(true),
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := question(t, cat, tt.id)
			err := ValidateStep(cat, q, tt.answers)
			assert.Equal(t, tt.reason == "", IsStepValid(cat, q, tt.answers))
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			f, ok := AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, f.Reason)
			assert.Equal(t, tt.id, f.QuestionID)
			assert.NotEmpty(t, f.Error())
		})
	}
}

func TestValidateStepRequiredMulti(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	q := question(t, cat, "extras")
	q.Required = true

	assert.False(t, IsStepValid(cat, q, model.Answers{}))
	assert.False(t, IsStepValid(cat, q, model.Answers{"extras": model.Selection()}))
	assert.True(t, IsStepValid(cat, q, model.Answers{"extras": model.Selection("geen")}))
}

func TestValidateStepNonRequiredAlwaysPasses(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	q := question(t, cat, "userEmailInput")
	q.Required = false

	assert.NoError(t, ValidateStep(cat, q, model.Answers{"userEmailInput": model.Text("nope")}))
}

func TestValidateStepPlainTextAcceptsNumbers(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	q := model.Question{ID: "budget", Text: "Budget?", Type: model.QuestionTypeText, Category: "algemeen", Required: true}

	assert.True(t, IsStepValid(cat, q, model.Answers{"budget": model.Number(15000)}))
	assert.True(t, IsStepValid(cat, q, model.Answers{"budget": model.Text("x")}))
	assert.False(t, IsStepValid(cat, q, model.Answers{"budget": model.Flag(true)}))
}

func TestAsFailureThroughWrap(t *testing.T) {
	t.Parallel()
	f := &Failure{QuestionID: "style", Reason: ReasonMissing, Message: "m"}
	got, ok := AsFailure(fmt.Errorf("advance: %w", f))
	require.True(t, ok)
	assert.Equal(t, ReasonMissing, got.Reason)

	_, ok = AsFailure(errors.New("other"))
	assert.False(t, ok)
}
