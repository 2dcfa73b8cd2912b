// Package flow derives the active, ordered question list from the catalog
// and the current answers.
package flow

import (
	"slices"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

// Resolve returns the questions the wizard walks through for answers. The
// conditional question is present iff the trigger answer equals the trigger
// value; it sits directly after the trigger question, or at the end when the
// trigger is not in the base list. The catalog is never modified.
func Resolve(cat *catalog.Catalog, answers model.Answers) []model.Question {
	active := slices.Clone(cat.Questions)
	if !Triggered(cat, answers) {
		return active
	}
	i := cat.Index(cat.Roles.TriggerQuestion)
	if i < 0 {
		return append(active, cat.Conditional)
	}
	return slices.Insert(active, i+1, cat.Conditional)
}

// Triggered reports whether the trigger answer asks for the conditional
// question.
func Triggered(cat *catalog.Catalog, answers model.Answers) bool {
	v, ok := answers.Get(cat.Roles.TriggerQuestion).AsText()
	return ok && v == cat.Roles.TriggerValue
}

// IndexOf returns the position of id in an active list, or -1.
func IndexOf(active []model.Question, id string) int {
	return slices.IndexFunc(active, func(q model.Question) bool { return q.ID == id })
}
