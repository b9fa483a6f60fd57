package dynrec

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Schema is a compiled, immutable record shape. It is safe to share between
// goroutines; the instances it creates are not.
type Schema struct {
	name  string
	slots []slot
	index map[string]int
	fp    uint64
}

// slot is the accessor entry for one field, built once at compile time.
type slot struct {
	desc      FieldDescriptor
	allowNull bool
	convert   converter
}

// Compile builds a Schema named typeName from fields, in declaration order.
// The name is a label only; compiling two different field sets under one name
// yields two unrelated schemas.
func Compile(typeName string, fields ...FieldDescriptor) (*Schema, error) {
	s := &Schema{
		name:  typeName,
		slots: make([]slot, 0, len(fields)),
		index: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if reason := checkFieldName(f.Name); reason != "" {
			return nil, &InvalidFieldNameError{Schema: typeName, Field: f.Name, Reason: reason}
		}
		if !f.Kind.Valid() {
			return nil, &InvalidKindError{Field: f.Name, Kind: f.Kind.String()}
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, &DuplicateFieldError{Schema: typeName, Field: f.Name, Index: i}
		}
		s.index[f.Name] = len(s.slots)
		s.slots = append(s.slots, slot{
			desc:      f,
			allowNull: f.AllowsAbsent(),
			convert:   converters[f.Kind],
		})
	}
	s.fp = fingerprint(typeName, fields)
	return s, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(typeName string, fields ...FieldDescriptor) *Schema {
	s, err := Compile(typeName, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the label the schema was compiled with.
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.slots) }

// Fields returns a copy of the field descriptors in declaration order.
func (s *Schema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.slots))
	for i := range s.slots {
		out[i] = s.slots[i].desc
	}
	return out
}

// Field looks up a descriptor by exact name.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return s.slots[i].desc, true
}

// Fingerprint returns a 64-bit xxh3 hash of the schema name and its field
// descriptors. Equal shapes have equal fingerprints.
func (s *Schema) Fingerprint() uint64 { return s.fp }

// NewInstance returns an instance with every field at its default: the kind's
// zero value for fields that must be present, Absent for the others.
func (s *Schema) NewInstance() *Instance {
	inst := &Instance{schema: s, values: make([]Value, len(s.slots))}
	for i := range s.slots {
		if !s.slots[i].allowNull {
			inst.values[i] = Present(s.slots[i].desc.Kind.Zero())
		}
	}
	return inst
}

// Get reads the named field of inst.
func (s *Schema) Get(inst *Instance, name string) (Value, error) {
	if inst == nil || inst.schema != s {
		return Value{}, fmt.Errorf("%w: get %q on %s", ErrSchemaMismatch, name, s.name)
	}
	i, ok := s.index[name]
	if !ok {
		return Value{}, &UnknownFieldError{Schema: s.name, Field: name}
	}
	return inst.values[i], nil
}

// Set writes v into the named field of inst. See the package documentation
// for the values each kind accepts.
func (s *Schema) Set(inst *Instance, name string, v any) error {
	if inst == nil || inst.schema != s {
		return fmt.Errorf("%w: set %q on %s", ErrSchemaMismatch, name, s.name)
	}
	i, ok := s.index[name]
	if !ok {
		return &UnknownFieldError{Schema: s.name, Field: name}
	}
	return s.assign(inst, i, v)
}

func (s *Schema) assign(inst *Instance, i int, v any) error {
	sl := &s.slots[i]
	x, err := unwrapValue(v)
	if err != nil {
		return &FieldAssignmentError{Field: sl.desc.Name, Kind: sl.desc.Kind, Value: v, Cause: err}
	}
	if x == nil {
		if !sl.allowNull {
			return &FieldAssignmentError{Field: sl.desc.Name, Kind: sl.desc.Kind, Value: v}
		}
		inst.values[i] = Absent()
		return nil
	}
	cv, ok := sl.convert(x)
	if !ok {
		return &FieldAssignmentError{Field: sl.desc.Name, Kind: sl.desc.Kind, Value: v}
	}
	inst.values[i] = Present(cv)
	return nil
}

func (s *Schema) String() string {
	b := &strings.Builder{}
	b.WriteString(s.name)
	b.WriteByte('{')
	for i := range s.slots {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.slots[i].desc.String())
	}
	b.WriteByte('}')
	return b.String()
}

func fingerprint(name string, fields []FieldDescriptor) uint64 {
	h := xxh3.New()
	var n [4]byte
	writeString := func(str string) {
		binary.LittleEndian.PutUint32(n[:], uint32(len(str)))
		_, _ = h.Write(n[:])
		_, _ = h.WriteString(str)
	}
	writeString(name)
	for _, f := range fields {
		writeString(f.Name)
		var flags byte
		if f.Nullable {
			flags = 1
		}
		_, _ = h.Write([]byte{byte(f.Kind), flags})
	}
	return h.Sum64()
}
