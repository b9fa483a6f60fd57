package dynrec

import (
	"errors"
	"fmt"
	"reflect"
)

// MapSource is a best-effort key/value source.
type MapSource interface {
	TryGet(key string) (any, bool)
}

// Map adapts a plain map to MapSource.
type Map map[string]any

// TryGet implements MapSource. A nil Map has no keys.
func (m Map) TryGet(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Row is a schema-aligned tabular source. Value returns an error matching
// ErrNoColumn (via errors.Is) when the column does not exist, and nil or Null
// when the column holds no value.
type Row interface {
	Value(column string) (any, error)
}

// AssignFromMap copies every declared field found in m into inst. Fields
// without a matching key keep their current value, as do fields that cannot
// be absent when the key holds no value. A nil instance or map is a
// no-op. Assignment stops at the first mismatching value; fields assigned
// before it keep their new values.
func AssignFromMap(inst *Instance, m map[string]any) error {
	if m == nil {
		return nil
	}
	return AssignFromLookup(inst, Map(m))
}

// AssignFromLookup is AssignFromMap over any MapSource.
func AssignFromLookup(inst *Instance, src MapSource) error {
	if inst == nil || isNilSource(src) {
		return nil
	}
	s := inst.schema
	for i := range s.slots {
		v, ok := src.TryGet(s.slots[i].desc.Name)
		if !ok || (!s.slots[i].allowNull && isNoValue(v)) {
			continue
		}
		if err := s.assign(inst, i, v); err != nil {
			return err
		}
	}
	return nil
}

// AssignFromRow copies the column named after each declared field into inst.
// A missing column fails with ColumnNotFoundError; a column holding no value
// leaves the field unchanged. A nil instance or row is a no-op.
func AssignFromRow(inst *Instance, row Row) error {
	if inst == nil || isNilSource(row) {
		return nil
	}
	s := inst.schema
	for i := range s.slots {
		name := s.slots[i].desc.Name
		v, err := row.Value(name)
		if err != nil {
			if errors.Is(err, ErrNoColumn) {
				return &ColumnNotFoundError{Column: name, Cause: err}
			}
			return fmt.Errorf("dynrec: read column %q: %w", name, err)
		}
		if isNoValue(v) {
			continue
		}
		if err := s.assign(inst, i, v); err != nil {
			return err
		}
	}
	return nil
}

// CreateAndAssignMap returns a new instance of s populated from m.
func CreateAndAssignMap(s *Schema, m map[string]any) (*Instance, error) {
	inst := s.NewInstance()
	if err := AssignFromMap(inst, m); err != nil {
		return nil, err
	}
	return inst, nil
}

// CreateAndAssignLookup returns a new instance of s populated from src.
func CreateAndAssignLookup(s *Schema, src MapSource) (*Instance, error) {
	inst := s.NewInstance()
	if err := AssignFromLookup(inst, src); err != nil {
		return nil, err
	}
	return inst, nil
}

// CreateAndAssignRow returns a new instance of s populated from row.
func CreateAndAssignRow(s *Schema, row Row) (*Instance, error) {
	inst := s.NewInstance()
	if err := AssignFromRow(inst, row); err != nil {
		return nil, err
	}
	return inst, nil
}

func isNoValue(v any) bool {
	x, err := unwrapValue(v)
	return err == nil && x == nil
}

// isNilSource catches both a nil interface and a typed nil pointer or map
// stored in one.
func isNilSource(src any) bool {
	if src == nil {
		return true
	}
	rv := reflect.ValueOf(src)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
