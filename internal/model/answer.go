package model

import (
	"math"
	"slices"
)

// AnswerKind discriminates the Answer variants.
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerText
	AnswerNumber
	AnswerDimensions
	AnswerFlag
	AnswerSelection
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerText:
		return "text"
	case AnswerNumber:
		return "number"
	case AnswerDimensions:
		return "dimensions"
	case AnswerFlag:
		return "flag"
	case AnswerSelection:
		return "selection"
	default:
		return "none"
	}
}

// Dimensions is a length/width pair in metres.
type Dimensions struct {
	Length float64 `yaml:"length" json:"length"`
	Width  float64 `yaml:"width" json:"width"`
}

// Positive reports whether both sides are finite and strictly greater than
// zero.
func (d Dimensions) Positive() bool {
	return d.Length > 0 && d.Width > 0 && !math.IsInf(d.Length, 0) && !math.IsInf(d.Width, 0)
}

// Answer is a closed tagged union of the values a question can hold. The zero
// value is the absent answer.
type Answer struct {
	kind      AnswerKind
	text      string
	number    float64
	dims      Dimensions
	flag      bool
	selection []string
}

// Text returns a scalar string answer.
func Text(s string) Answer { return Answer{kind: AnswerText, text: s} }

// Number returns a numeric answer.
func Number(n float64) Answer { return Answer{kind: AnswerNumber, number: n} }

// Dims returns a dimensions answer.
func Dims(length, width float64) Answer {
	return Answer{kind: AnswerDimensions, dims: Dimensions{Length: length, Width: width}}
}

// Flag returns a boolean answer.
func Flag(b bool) Answer { return Answer{kind: AnswerFlag, flag: b} }

// Selection returns a set answer. Order of first occurrence is kept and
// duplicates are dropped.
func Selection(values ...string) Answer {
	sel := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(sel, v) {
			sel = append(sel, v)
		}
	}
	return Answer{kind: AnswerSelection, selection: sel}
}

// Kind returns the variant held.
func (a Answer) Kind() AnswerKind { return a.kind }

// IsZero reports whether the answer is absent.
func (a Answer) IsZero() bool { return a.kind == AnswerNone }

// AsText returns the string value if the answer is Text.
func (a Answer) AsText() (string, bool) {
	return a.text, a.kind == AnswerText
}

// AsNumber returns the numeric value if the answer is Number.
func (a Answer) AsNumber() (float64, bool) {
	return a.number, a.kind == AnswerNumber
}

// AsDimensions returns the pair if the answer is Dimensions.
func (a Answer) AsDimensions() (Dimensions, bool) {
	return a.dims, a.kind == AnswerDimensions
}

// AsFlag returns the boolean if the answer is Flag.
func (a Answer) AsFlag() (bool, bool) {
	return a.flag, a.kind == AnswerFlag
}

// AsSelection returns a copy of the selected values if the answer is a
// Selection.
func (a Answer) AsSelection() ([]string, bool) {
	if a.kind != AnswerSelection {
		return nil, false
	}
	return slices.Clone(a.selection), true
}

// Contains reports whether a Selection holds v.
func (a Answer) Contains(v string) bool {
	return a.kind == AnswerSelection && slices.Contains(a.selection, v)
}

// Equal compares two answers by kind and value.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case AnswerText:
		return a.text == b.text
	case AnswerNumber:
		return a.number == b.number
	case AnswerDimensions:
		return a.dims == b.dims
	case AnswerFlag:
		return a.flag == b.flag
	case AnswerSelection:
		return slices.Equal(a.selection, b.selection)
	}
	return true
}

// Value returns the answer as a plain Go value, for encoding.
func (a Answer) Value() any {
	switch a.kind {
	case AnswerText:
		return a.text
	case AnswerNumber:
		return a.number
	case AnswerDimensions:
		return a.dims
	case AnswerFlag:
		return a.flag
	case AnswerSelection:
		return slices.Clone(a.selection)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a Answer) MarshalYAML() (any, error) {
	return a.Value(), nil
}

// Answers maps question ids to answers.
type Answers map[string]Answer

// Get returns the answer for id, or the zero Answer.
func (as Answers) Get(id string) Answer {
	return as[id]
}

// Clone returns an independent copy.
func (as Answers) Clone() Answers {
	out := make(Answers, len(as))
	for k, v := range as {
		if v.kind == AnswerSelection {
			v.selection = slices.Clone(v.selection)
		}
		out[k] = v
	}
	return out
}
