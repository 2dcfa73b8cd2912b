package answers

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/kitchen-estimator/internal/catalog"
	"github.com/sells-group/kitchen-estimator/internal/model"
)

// ReadFile decodes an answers document from path. See Decode.
func ReadFile(cat *catalog.Catalog, path string) (model.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "answers: read %s", path)
	}
	return Decode(cat, data)
}

// Decode parses a YAML mapping of question id to value. Each value is
// decoded according to its question's type:
//
//	dimensions:   {length: 4, width: 3}
//	style:        modern
//	extras:       [kookeiland, quooker]
//	userName:     Jan
//	emailConsent: true
func Decode(cat *catalog.Catalog, data []byte) (model.Answers, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "answers: parse")
	}

	out := make(model.Answers, len(doc))
	for id, node := range doc {
		a, err := decodeValue(cat, id, &node)
		if err != nil {
			return nil, err
		}
		out[id] = a
	}
	return out, nil
}

func decodeValue(cat *catalog.Catalog, id string, node *yaml.Node) (model.Answer, error) {
	if id == cat.Roles.ConsentKey {
		var b bool
		if err := node.Decode(&b); err != nil {
			return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: %v", id, err)
		}
		return model.Flag(b), nil
	}

	q, ok := cat.Lookup(id)
	if !ok {
		return model.Answer{}, eris.Wrapf(ErrUnknownQuestion, "question %q", id)
	}

	switch q.Type {
	case model.QuestionTypeDimensions:
		var d model.Dimensions
		if node.Kind != yaml.MappingNode {
			return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: expected {length, width}", id)
		}
		if err := node.Decode(&d); err != nil {
			return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: %v", id, err)
		}
		return model.Dims(d.Length, d.Width), nil

	case model.QuestionTypeMultiChoice:
		var values []string
		switch node.Kind {
		case yaml.SequenceNode:
			if err := node.Decode(&values); err != nil {
				return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: %v", id, err)
			}
		case yaml.ScalarNode:
			values = []string{node.Value}
		default:
			return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: expected a list", id)
		}
		return model.Selection(values...), nil

	default:
		if node.Kind != yaml.ScalarNode {
			return model.Answer{}, eris.Wrapf(ErrMalformedAnswer, "%s: expected a scalar", id)
		}
		return model.Text(node.Value), nil
	}
}

// Apply records answers into s in catalog order, so that the trigger
// question is settled before the conditional question and consent flag.
func (s *Store) Apply(answers model.Answers) error {
	order := make([]string, 0, len(s.cat.Questions)+2)
	for _, q := range s.cat.Questions {
		order = append(order, q.ID)
		if q.ID == s.cat.Roles.TriggerQuestion {
			order = append(order, s.cat.Conditional.ID, s.cat.Roles.ConsentKey)
		}
	}
	if s.cat.Index(s.cat.Roles.TriggerQuestion) < 0 {
		order = append(order, s.cat.Conditional.ID, s.cat.Roles.ConsentKey)
	}

	known := make(map[string]bool, len(order))
	for _, id := range order {
		known[id] = true
	}
	for id := range answers {
		if !known[id] {
			return eris.Wrapf(ErrUnknownQuestion, "question %q", id)
		}
	}

	for _, id := range order {
		a, ok := answers[id]
		if !ok {
			continue
		}
		if id == s.cat.Roles.ConsentKey {
			given, ok := a.AsFlag()
			if !ok {
				return eris.Wrapf(ErrMalformedAnswer, "%s must be a flag", id)
			}
			if s.retracted() {
				continue
			}
			s.SetConsent(given)
			continue
		}
		if id == s.cat.Conditional.ID && s.retracted() {
			continue
		}
		if err := s.Set(id, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) retracted() bool {
	v, _ := s.state.Get(s.cat.Roles.TriggerQuestion).AsText()
	return v == s.cat.Roles.RetractValue
}
