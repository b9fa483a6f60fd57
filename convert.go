package dynrec

import (
	"database/sql/driver"
	"math"
	"reflect"
	"time"
)

// Null is the explicit no-value marker for hand-written rows and maps. Go
// nil, nil pointers and driver.Valuer values that report nil are treated the
// same way.
var Null = nullMarker{}

type nullMarker struct{}

func (nullMarker) String() string { return "NULL" }

// converter turns an unwrapped, non-nil input into the canonical Go value of
// one kind. It reports false when the input belongs to another kind. Only
// lossless widening is performed.
type converter func(any) (any, bool)

var converters = [...]converter{
	KindInvalid: func(any) (any, bool) { return nil, false },
	KindBool:    toBool,
	KindInt:     toInt,
	KindFloat:   toFloat,
	KindText:    toText,
	KindTime:    toTime,
	KindBytes:   toBytes,
}

var timeType = reflect.TypeFor[time.Time]()

// unwrapValue resolves the no-value marker, Value, driver.Valuer and pointer
// indirections. A nil result means "no value".
func unwrapValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, nullMarker:
		return nil, nil
	case Value:
		return t.Any(), nil
	case time.Time, []byte, string, int64, float64, bool:
		return v, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}
	if vr, ok := v.(driver.Valuer); ok {
		x, err := vr.Value()
		if err != nil {
			return nil, err
		}
		return x, nil
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	return rv.Interface(), nil
}

func toBool(v any) (any, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Bool {
		return rv.Bool(), true
	}
	return nil, false
}

func toInt(v any) (any, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, false
		}
		return int64(u), true
	}
	return nil, false
}

func toFloat(v any) (any, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64 {
		return rv.Float(), true
	}
	return nil, false
}

func toText(v any) (any, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return nil, false
}

func toTime(v any) (any, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface(), true
	}
	return nil, false
}

func toBytes(v any) (any, bool) {
	if b, ok := v.([]byte); ok {
		return append([]byte(nil), b...), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return append([]byte(nil), rv.Bytes()...), true
	}
	return nil, false
}
