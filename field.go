package dynrec

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FieldDescriptor declares one field of a record shape.
type FieldDescriptor struct {
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Nullable bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// NewField returns a non-nullable descriptor.
func NewField(name string, kind Kind) FieldDescriptor {
	return FieldDescriptor{Name: name, Kind: kind}
}

// AsNullable returns a copy of f with Nullable set.
func (f FieldDescriptor) AsNullable() FieldDescriptor {
	f.Nullable = true
	return f
}

// AllowsAbsent reports whether the field's slot may hold Absent. Text fields
// always do; other kinds only when declared nullable.
func (f FieldDescriptor) AllowsAbsent() bool {
	return f.Nullable || f.Kind == KindText
}

func (f FieldDescriptor) String() string {
	if f.Nullable && f.Kind != KindText {
		return fmt.Sprintf("%s %s?", f.Name, f.Kind)
	}
	return fmt.Sprintf("%s %s", f.Name, f.Kind)
}

// checkFieldName returns a non-empty reason when name cannot be used as a
// field name. Names follow identifier syntax: a letter or underscore, then
// letters, digits or underscores. Binding matches names byte for byte, so a
// name must already be in Unicode normalization form C.
func checkFieldName(name string) string {
	if name == "" {
		return "empty name"
	}
	if !norm.NFC.IsNormalString(name) {
		return "name is not in Unicode NFC form"
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return fmt.Sprintf("invalid character %q at offset %d", r, i)
		}
	}
	return ""
}
