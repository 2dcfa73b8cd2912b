package answers

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

func selection(t *testing.T, s *Store, id string) []string {
	t.Helper()
	sel, ok := s.Get(id).AsSelection()
	require.True(t, ok, "%s is not a selection", id)
	return sel
}

func TestStoreSetShapes(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	tests := []struct {
		name    string
		id      string
		answer  model.Answer
		wantErr error
	}{
		{"single choice option", "style", model.Text("modern"), nil},
		{"single choice unknown option", "style", model.Text("barok"), ErrMalformedAnswer},
		{"single choice selection", "style", model.Selection("modern"), ErrMalformedAnswer},
		{"dimensions", "dimensions", model.Dims(4, 3), nil},
		{"dimensions non-positive still stored", "dimensions", model.Dims(0, 5), nil},
		{"dimensions as text", "dimensions", model.Text("4x3"), ErrMalformedAnswer},
		{"text", "userName", model.Text("Jan"), nil},
		{"text as number", "userName", model.Number(42), nil},
		{"text as flag", "userName", model.Flag(true), ErrMalformedAnswer},
		{"multi replace", "extras", model.Selection("bar", "quooker"), nil},
		{"multi replace unknown", "extras", model.Selection("sauna"), ErrMalformedAnswer},
		{"multi flag", "extras", model.Flag(true), ErrMalformedAnswer},
		{"conditional question", "userEmailInput", model.Text("jan@example.nl"), nil},
		{"unknown question", "budget", model.Text("x"), ErrUnknownQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewStore(cat)
			err := s.Set(tt.id, tt.answer)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, eris.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, s.Get(tt.id).IsZero(), "rejected answers are not stored")
				return
			}
			require.NoError(t, err)
			assert.True(t, s.Get(tt.id).Equal(tt.answer))
		})
	}
}

func TestStoreToggleExtras(t *testing.T) {
	t.Parallel()
	s := NewStore(catalog.MustDefault())

	require.NoError(t, s.Set("extras", model.Text("kookeiland")))
	assert.Equal(t, []string{"kookeiland"}, selection(t, s, "extras"))

	require.NoError(t, s.Set("extras", model.Text("bar")))
	assert.Equal(t, []string{"kookeiland", "bar"}, selection(t, s, "extras"))

	// Clicking a selected value removes it.
	require.NoError(t, s.Set("extras", model.Text("kookeiland")))
	assert.Equal(t, []string{"bar"}, selection(t, s, "extras"))

	// "geen" is exclusive.
	require.NoError(t, s.Set("extras", model.Text("geen")))
	assert.Equal(t, []string{"geen"}, selection(t, s, "extras"))

	// Any other value replaces "geen".
	require.NoError(t, s.Set("extras", model.Text("quooker")))
	assert.Equal(t, []string{"quooker"}, selection(t, s, "extras"))

	// Deselecting the last value leaves a non-required question empty.
	require.NoError(t, s.Toggle("extras", "quooker"))
	assert.Empty(t, selection(t, s, "extras"))
}

func TestStoreToggleNoneTwiceClears(t *testing.T) {
	t.Parallel()
	s := NewStore(catalog.MustDefault())

	require.NoError(t, s.Toggle("extras", "geen"))
	require.NoError(t, s.Toggle("extras", "geen"))
	assert.Empty(t, selection(t, s, "extras"))
}

func TestStoreToggleRepairsRequiredMulti(t *testing.T) {
	t.Parallel()
	base := catalog.MustDefault()
	cat := *base
	cat.Questions = append([]model.Question(nil), base.Questions...)
	i := cat.Index("extras")
	cat.Questions[i].Required = true

	s := NewStore(&cat)
	require.NoError(t, s.Toggle("extras", "bar"))
	require.NoError(t, s.Toggle("extras", "bar"))
	assert.Equal(t, []string{"geen"}, selection(t, s, "extras"))

	require.NoError(t, s.Set("extras", model.Selection()))
	assert.Equal(t, []string{"geen"}, selection(t, s, "extras"))
}

func TestStoreToggleErrors(t *testing.T) {
	t.Parallel()
	s := NewStore(catalog.MustDefault())

	assert.True(t, eris.Is(s.Toggle("style", "modern"), ErrMalformedAnswer))
	assert.True(t, eris.Is(s.Toggle("extras", "sauna"), ErrMalformedAnswer))
	assert.True(t, eris.Is(s.Toggle("nope", "x"), ErrUnknownQuestion))
}

func TestStoreRetractRemovesEmailAndConsent(t *testing.T) {
	t.Parallel()
	s := NewStore(catalog.MustDefault())

	require.NoError(t, s.Set("saveCalculationPreference", model.Text("yes")))
	require.NoError(t, s.Set("userEmailInput", model.Text("jan@example.nl")))
	s.SetConsent(true)

	// Re-answering "yes" keeps everything.
	require.NoError(t, s.Set("saveCalculationPreference", model.Text("yes")))
	assert.False(t, s.Get("userEmailInput").IsZero())

	require.NoError(t, s.Set("saveCalculationPreference", model.Text("no")))
	got := s.Answers()
	assert.NotContains(t, got, "userEmailInput")
	assert.NotContains(t, got, "emailConsent")
	assert.Equal(t, model.Text("no"), got["saveCalculationPreference"])
}

func TestStoreAnswersIsACopyAndResetClears(t *testing.T) {
	t.Parallel()
	s := NewStore(catalog.MustDefault())
	require.NoError(t, s.Set("style", model.Text("modern")))

	snap := s.Answers()
	snap["style"] = model.Text("klassiek")
	assert.Equal(t, model.Text("modern"), s.Get("style"))

	s.Reset()
	assert.Empty(t, s.Answers())
}
