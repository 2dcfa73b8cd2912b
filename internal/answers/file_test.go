package answers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

const answersDoc = `
userName: Jan de Vries
saveCalculationPreference: "yes"
userEmailInput: jan@example.nl
emailConsent: true
dimensions: {length: 4, width: 3}
qualityLevel: luxe
countertop: composiet
extras: [kookeiland, quooker]
`

func TestDecode(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	got, err := Decode(cat, []byte(answersDoc))
	require.NoError(t, err)

	assert.Equal(t, model.Text("Jan de Vries"), got["userName"])
	assert.Equal(t, model.Text("yes"), got["saveCalculationPreference"])
	assert.Equal(t, model.Flag(true), got["emailConsent"])
	assert.Equal(t, model.Dims(4, 3), got["dimensions"])
	assert.True(t, got["extras"].Equal(model.Selection("kookeiland", "quooker")))
}

func TestDecodeScalarMultiAndNumericOption(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	got, err := Decode(cat, []byte("extras: bar\ninstallationTimeline: 3_to_6_months\n"))
	require.NoError(t, err)
	assert.True(t, got["extras"].Equal(model.Selection("bar")))
	assert.Equal(t, model.Text("3_to_6_months"), got["installationTimeline"])
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"unknown id", "budget: 10\n", ErrUnknownQuestion},
		{"dimensions scalar", "dimensions: 12\n", ErrMalformedAnswer},
		{"style list", "style: [modern]\n", ErrMalformedAnswer},
		{"consent not bool", "emailConsent: maybe\n", ErrMalformedAnswer},
		{"extras mapping", "extras: {a: b}\n", ErrMalformedAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(cat, []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, eris.Is(err, tt.want), "got %v", err)
		})
	}

	_, err := Decode(cat, []byte("- not a mapping\n"))
	assert.Error(t, err)
}

func TestReadFileAndApply(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(answersDoc), 0o644))

	decoded, err := ReadFile(cat, path)
	require.NoError(t, err)

	s := NewStore(cat)
	require.NoError(t, s.Apply(decoded))
	assert.Equal(t, model.Text("jan@example.nl"), s.Get("userEmailInput"))
	assert.Equal(t, model.Flag(true), s.Get("emailConsent"))

	_, err = ReadFile(cat, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyRetractedDropsEmail(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()
	s := NewStore(cat)

	err := s.Apply(model.Answers{
		"saveCalculationPreference": model.Text("no"),
		"userEmailInput":            model.Text("jan@example.nl"),
		"emailConsent":              model.Flag(true),
	})
	require.NoError(t, err)

	got := s.Answers()
	assert.NotContains(t, got, "userEmailInput")
	assert.NotContains(t, got, "emailConsent")
}

func TestApplyRejectsUnknownAndMalformed(t *testing.T) {
	t.Parallel()
	cat := catalog.MustDefault()

	err := NewStore(cat).Apply(model.Answers{"budget": model.Text("x")})
	assert.True(t, eris.Is(err, ErrUnknownQuestion))

	err = NewStore(cat).Apply(model.Answers{"emailConsent": model.Text("yes")})
	assert.True(t, eris.Is(err, ErrMalformedAnswer))

	err = NewStore(cat).Apply(model.Answers{"style": model.Text("barok")})
	assert.True(t, eris.Is(err, ErrMalformedAnswer))
}
