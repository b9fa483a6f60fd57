package dynrec

import js "github.com/reoring/dynrec/jsonschema"

// JSONSchema projects the schema to a JSON Schema object. Fields that must be
// present are listed as required; fields that allow absence accept null.
func (s *Schema) JSONSchema() *js.Schema {
	closed := false
	out := &js.Schema{
		Dialect:              js.Draft,
		Title:                s.name,
		Type:                 js.Types{"object"},
		Properties:           make(map[string]*js.Schema, len(s.slots)),
		PropertyOrder:        make([]string, 0, len(s.slots)),
		AdditionalProperties: &closed,
	}
	for i := range s.slots {
		f := s.slots[i].desc
		p := kindSchema(f.Kind)
		if s.slots[i].allowNull {
			p.Type = append(p.Type, "null")
		} else {
			out.Required = append(out.Required, f.Name)
		}
		out.Properties[f.Name] = p
		out.PropertyOrder = append(out.PropertyOrder, f.Name)
	}
	return out
}

func kindSchema(k Kind) *js.Schema {
	switch k {
	case KindBool:
		return &js.Schema{Type: js.Types{"boolean"}}
	case KindInt:
		return &js.Schema{Type: js.Types{"integer"}}
	case KindFloat:
		return &js.Schema{Type: js.Types{"number"}}
	case KindTime:
		return &js.Schema{Type: js.Types{"string"}, Format: "date-time"}
	case KindBytes:
		return &js.Schema{Type: js.Types{"string"}, ContentEncoding: "base64"}
	}
	return &js.Schema{Type: js.Types{"string"}}
}
