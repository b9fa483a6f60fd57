// Package codec converts between JSON objects and records of a dynrec.Schema.
//
// Decoding keeps numbers exact: integer fields never pass through float64, so
// values beyond 2^53 survive. Time fields travel as RFC 3339 strings and bytes
// fields as standard base64.
package codec

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/reoring/dynrec"
)

// ErrNotObject is returned when the input is not a single JSON object.
var ErrNotObject = errors.New("codec: expected a JSON object")

// DecodeJSON decodes one JSON object into a map whose declared fields hold
// values of their kind's Go representation. Keys the schema does not declare
// are kept as decoded. JSON null stays nil.
func DecodeJSON(s *dynrec.Schema, data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	if m == nil {
		return nil, ErrNotObject
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrNotObject)
	}
	for _, f := range s.Fields() {
		raw, ok := m[f.Name]
		if !ok || raw == nil {
			continue
		}
		v, err := fromWire(f.Kind, raw)
		if err != nil {
			return nil, &dynrec.FieldAssignmentError{Field: f.Name, Kind: f.Kind, Value: raw, Cause: err}
		}
		m[f.Name] = v
	}
	return m, nil
}

// ErrNumberForKind is the cause reported when a JSON number is given for a
// field that is neither int nor float.
var ErrNumberForKind = errors.New("codec: JSON number for a non-numeric field")

// fromWire converts a decoded JSON value for a field of kind k. A JSON number
// only binds to int and float fields. Other values whose JSON type does not
// fit the kind pass through unchanged so the binder reports them.
func fromWire(k dynrec.Kind, raw any) (any, error) {
	if n, ok := raw.(json.Number); ok && k != dynrec.KindInt && k != dynrec.KindFloat {
		return nil, fmt.Errorf("%w: %s", ErrNumberForKind, n)
	}
	switch k {
	case dynrec.KindInt:
		if n, ok := raw.(json.Number); ok {
			return n.Int64()
		}
	case dynrec.KindFloat:
		if n, ok := raw.(json.Number); ok {
			return n.Float64()
		}
	case dynrec.KindTime:
		if s, ok := raw.(string); ok {
			return ParseRFC3339(s)
		}
	case dynrec.KindBytes:
		if s, ok := raw.(string); ok {
			return base64.StdEncoding.DecodeString(s)
		}
	}
	return raw, nil
}

// DecodeInstance decodes data and binds it to a new instance of s.
func DecodeInstance(s *dynrec.Schema, data []byte) (*dynrec.Instance, error) {
	m, err := DecodeJSON(s, data)
	if err != nil {
		return nil, err
	}
	return dynrec.CreateAndAssignMap(s, m)
}

// EncodeInstance encodes inst as a JSON object in field declaration order.
// Times are normalized to UTC and absent fields encode as null.
func EncodeInstance(inst *dynrec.Instance) ([]byte, error) {
	if inst == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range inst.Schema().Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v := inst.Value(f.Name)
		var out any = v.Any()
		if t, ok := v.Time(); ok {
			out = FormatRFC3339(t)
		}
		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("codec: field %q: %w", f.Name, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
