// Package catalog loads and validates the question catalog that drives the
// wizard. The catalog is static configuration: it is loaded once at start
// and passed explicitly to every component that needs it.
package catalog

import (
	_ "embed"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/kitchen-estimator/internal/model"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Roles names the questions, values and categories that carry special
// meaning for the flow resolver, answer store and cost engine.
type Roles struct {
	TriggerQuestion    string `yaml:"trigger_question" validate:"required"`
	TriggerValue       string `yaml:"trigger_value" validate:"required"`
	RetractValue       string `yaml:"retract_value" validate:"required"`
	ConsentKey         string `yaml:"consent_key" validate:"required"`
	QualityQuestion    string `yaml:"quality_question" validate:"required"`
	DefaultQuality     string `yaml:"default_quality"`
	DimensionsQuestion string `yaml:"dimensions_question" validate:"required"`
	IdentityCategory   string `yaml:"identity_category" validate:"required"`
	AreaCategory       string `yaml:"area_category" validate:"required"`
	QualityCategory    string `yaml:"quality_category" validate:"required"`
	NoneValue          string `yaml:"none_value"`
}

// Catalog is the ordered question list plus the single conditional question
// that is injected after the trigger question.
type Catalog struct {
	Roles       Roles            `yaml:"roles"`
	Conditional model.Question   `yaml:"conditional"`
	Questions   []model.Question `yaml:"questions" validate:"required,min=1,dive"`
}

// Default returns the embedded kitchen catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads a catalog from path. An empty path yields the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, eris.Wrap(err, "catalog: parse")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog's structure and cross references.
func (c *Catalog) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return eris.Wrap(err, "catalog: invalid")
	}

	seen := make(map[string]bool, len(c.Questions)+1)
	for _, q := range append(slices.Clone(c.Questions), c.Conditional) {
		if seen[q.ID] {
			return eris.Errorf("catalog: duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		if err := checkQuestion(q); err != nil {
			return err
		}
	}

	r := c.Roles
	trigger, ok := c.Base(r.TriggerQuestion)
	if !ok {
		return eris.Errorf("catalog: trigger question %q not found", r.TriggerQuestion)
	}
	if trigger.Type != model.QuestionTypeSingleChoice {
		return eris.Errorf("catalog: trigger question %q must be single-choice", r.TriggerQuestion)
	}
	if _, ok := trigger.Option(r.TriggerValue); !ok {
		return eris.Errorf("catalog: trigger value %q is not an option of %q", r.TriggerValue, r.TriggerQuestion)
	}
	if _, ok := trigger.Option(r.RetractValue); !ok {
		return eris.Errorf("catalog: retract value %q is not an option of %q", r.RetractValue, r.TriggerQuestion)
	}
	if seen[r.ConsentKey] {
		return eris.Errorf("catalog: consent key %q collides with a question id", r.ConsentKey)
	}

	quality, ok := c.Base(r.QualityQuestion)
	if !ok {
		return eris.Errorf("catalog: quality question %q not found", r.QualityQuestion)
	}
	if r.DefaultQuality != "" {
		if _, ok := quality.Option(r.DefaultQuality); !ok {
			return eris.Errorf("catalog: default quality %q is not an option of %q", r.DefaultQuality, r.QualityQuestion)
		}
	}

	dims, ok := c.Base(r.DimensionsQuestion)
	if !ok || dims.Type != model.QuestionTypeDimensions {
		return eris.Errorf("catalog: dimensions question %q not found", r.DimensionsQuestion)
	}
	return nil
}

func checkQuestion(q model.Question) error {
	if q.IsChoice() {
		if len(q.Options) == 0 {
			return eris.Errorf("catalog: question %q has no options", q.ID)
		}
		values := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if values[o.Value] {
				return eris.Errorf("catalog: question %q has duplicate option %q", q.ID, o.Value)
			}
			values[o.Value] = true
		}
	} else if len(q.Options) > 0 {
		return eris.Errorf("catalog: %s question %q cannot have options", q.Type, q.ID)
	}
	if q.Format != model.TextFormatPlain && q.Type != model.QuestionTypeText {
		return eris.Errorf("catalog: format %q is only valid on text questions (%q)", q.Format, q.ID)
	}
	if len(q.Presets) > 0 && q.Type != model.QuestionTypeDimensions {
		return eris.Errorf("catalog: presets are only valid on dimensions questions (%q)", q.ID)
	}
	return nil
}

// Base returns a question from the ordered base list.
func (c *Catalog) Base(id string) (model.Question, bool) {
	i := c.Index(id)
	if i < 0 {
		return model.Question{}, false
	}
	return c.Questions[i], true
}

// Index returns the position of id in the base list, or -1.
func (c *Catalog) Index(id string) int {
	return slices.IndexFunc(c.Questions, func(q model.Question) bool { return q.ID == id })
}

// Lookup returns any question the catalog defines, including the
// conditional one.
func (c *Catalog) Lookup(id string) (model.Question, bool) {
	if id == c.Conditional.ID {
		return c.Conditional, true
	}
	return c.Base(id)
}

// IsInformational reports whether items in category are descriptors rather
// than priced contributions.
func (c *Catalog) IsInformational(category string) bool {
	r := c.Roles
	return category == r.IdentityCategory || category == r.QualityCategory || category == r.AreaCategory
}
