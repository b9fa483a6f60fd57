package dynrec

import (
	"bytes"
	"fmt"
	"time"
)

// Value is the content of one field slot: either Present with a value of the
// field's kind, or Absent. Fields that do not allow absence never hold Absent.
type Value struct {
	v       any
	present bool
}

// Present wraps v as a present value. v is expected to already be in the
// canonical Go representation of its kind (see Kind).
func Present(v any) Value { return Value{v: v, present: true} }

// Absent returns the absent value.
func Absent() Value { return Value{} }

// IsPresent reports whether the value is present.
func (v Value) IsPresent() bool { return v.present }

// Any returns the underlying value, or nil when absent. Bytes are returned
// as a copy.
func (v Value) Any() any {
	if !v.present {
		return nil
	}
	if b, ok := v.v.([]byte); ok {
		return bytes.Clone(b)
	}
	return v.v
}

func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.present
}

func (v Value) Int() (int64, bool) {
	i, ok := v.v.(int64)
	return i, ok && v.present
}

func (v Value) Float() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.present
}

func (v Value) Text() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.present
}

func (v Value) Time() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok && v.present
}

// Bytes returns a copy of the stored bytes.
func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.v.([]byte)
	if !ok || !v.present {
		return nil, false
	}
	return bytes.Clone(b), true
}

func (v Value) String() string {
	if !v.present {
		return "<absent>"
	}
	return fmt.Sprint(v.v)
}
