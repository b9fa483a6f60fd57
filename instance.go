package dynrec

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Instance is a record conforming to exactly one Schema. Its storage is only
// reachable through name-addressed Get/Set. An Instance is not safe for
// concurrent mutation; populate it before sharing it.
type Instance struct {
	schema *Schema
	values []Value
}

// Schema returns the schema that created the instance.
func (inst *Instance) Schema() *Schema { return inst.schema }

// Get is shorthand for inst.Schema().Get(inst, name).
func (inst *Instance) Get(name string) (Value, error) { return inst.schema.Get(inst, name) }

// Set is shorthand for inst.Schema().Set(inst, name, v).
func (inst *Instance) Set(name string, v any) error { return inst.schema.Set(inst, name, v) }

// Value returns the named field or Absent when the schema does not declare it.
func (inst *Instance) Value(name string) Value {
	if i, ok := inst.schema.index[name]; ok {
		return inst.values[i]
	}
	return Absent()
}

// ToMap returns the fields as a map; absent fields map to nil.
func (inst *Instance) ToMap() map[string]any {
	out := make(map[string]any, len(inst.values))
	for i := range inst.values {
		out[inst.schema.slots[i].desc.Name] = inst.values[i].Any()
	}
	return out
}

// MarshalJSON encodes the instance as a JSON object with keys in declaration
// order. Absent fields encode as null, times as RFC 3339 and bytes as base64.
func (inst *Instance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range inst.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(inst.schema.slots[i].desc.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(inst.values[i].Any())
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (inst *Instance) String() string {
	b, err := inst.MarshalJSON()
	if err != nil {
		return inst.schema.name + "{<" + err.Error() + ">}"
	}
	return inst.schema.name + string(b)
}
