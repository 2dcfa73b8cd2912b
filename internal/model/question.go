package model

// QuestionType defines how a question is answered.
type QuestionType string

const (
	QuestionTypeDimensions   QuestionType = "dimensions"
	QuestionTypeSingleChoice QuestionType = "single-choice"
	QuestionTypeMultiChoice  QuestionType = "multi-choice"
	QuestionTypeText         QuestionType = "text"
)

// TextFormat selects extra validation for text questions.
type TextFormat string

const (
	TextFormatPlain TextFormat = ""
	TextFormatName  TextFormat = "name"
	TextFormatEmail TextFormat = "email"
)

// CostKind discriminates the CostRule variants.
type CostKind string

const (
	CostKindFixed      CostKind = "fixed"
	CostKindPerArea    CostKind = "per_area"
	CostKindMultiplier CostKind = "multiplier"
)

// Question is a catalog-defined question. It is immutable once the catalog
// has been loaded.
type Question struct {
	ID          string            `yaml:"id" json:"id" validate:"required"`
	Text        string            `yaml:"text" json:"text" validate:"required"`
	Detail      string            `yaml:"detail,omitempty" json:"detail,omitempty"`
	Type        QuestionType      `yaml:"type" json:"type" validate:"oneof=dimensions single-choice multi-choice text"`
	Category    string            `yaml:"category" json:"category" validate:"required"`
	Required    bool              `yaml:"required" json:"required"`
	Format      TextFormat        `yaml:"format,omitempty" json:"format,omitempty" validate:"omitempty,oneof=name email"`
	Placeholder string            `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Unit        string            `yaml:"unit,omitempty" json:"unit,omitempty"`
	Options     []QuestionOption  `yaml:"options,omitempty" json:"options,omitempty" validate:"dive"`
	Presets     []DimensionPreset `yaml:"presets,omitempty" json:"presets,omitempty" validate:"dive"`
}

// AllowsMultiple reports whether the answer is a set rather than a scalar.
func (q Question) AllowsMultiple() bool {
	return q.Type == QuestionTypeMultiChoice
}

// IsChoice reports whether the question is answered by picking options.
func (q Question) IsChoice() bool {
	return q.Type == QuestionTypeSingleChoice || q.Type == QuestionTypeMultiChoice
}

// Option returns the option with the given value.
func (q Question) Option(value string) (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return QuestionOption{}, false
}

// QuestionOption is one selectable answer of a choice question.
type QuestionOption struct {
	Value           string    `yaml:"value" json:"value" validate:"required"`
	Label           string    `yaml:"label" json:"label" validate:"required"`
	Detail          string    `yaml:"detail,omitempty" json:"detail,omitempty"`
	PriceIndication string    `yaml:"price_indication,omitempty" json:"price_indication,omitempty"`
	Cost            *CostRule `yaml:"cost,omitempty" json:"cost,omitempty" validate:"omitempty"`
}

// CostRule is the pricing formula attached to an option. Only the field
// matching Kind is meaningful.
type CostRule struct {
	Kind   CostKind `yaml:"kind" json:"kind" validate:"oneof=fixed per_area multiplier"`
	Amount float64  `yaml:"amount,omitempty" json:"amount,omitempty" validate:"gte=0"`
	Rate   float64  `yaml:"rate,omitempty" json:"rate,omitempty" validate:"gte=0"`
	Factor float64  `yaml:"factor,omitempty" json:"factor,omitempty" validate:"gte=0"`
	Label  string   `yaml:"label" json:"label" validate:"required"`
}

// Fixed returns a rule contributing a constant amount.
func Fixed(amount float64, label string) *CostRule {
	return &CostRule{Kind: CostKindFixed, Amount: amount, Label: label}
}

// PerArea returns a rule contributing rate times the effective area.
func PerArea(rate float64, label string) *CostRule {
	return &CostRule{Kind: CostKindPerArea, Rate: rate, Label: label}
}

// Multiplier returns a rule that sets the global quality multiplier.
func Multiplier(factor float64, label string) *CostRule {
	return &CostRule{Kind: CostKindMultiplier, Factor: factor, Label: label}
}

// DimensionPreset is a shortcut answer offered for a dimensions question.
type DimensionPreset struct {
	ID          string  `yaml:"id" json:"id" validate:"required"`
	Label       string  `yaml:"label" json:"label" validate:"required"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Length      float64 `yaml:"length" json:"length" validate:"gt=0"`
	Width       float64 `yaml:"width" json:"width" validate:"gt=0"`
}
