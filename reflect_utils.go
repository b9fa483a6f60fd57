package dynrec

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ResolveStructKey resolves the field name a struct field maps to.
// Priority: dynrec:"name=..." > json tag name > Go field name; "-" disables
// the field.
func ResolveStructKey(sf reflect.StructField) string {
	if tag := sf.Tag.Get("dynrec"); tag != "" {
		if tag == "-" {
			return "-"
		}
		for _, p := range strings.Split(tag, ",") {
			p = strings.TrimSpace(p)
			if name, ok := strings.CutPrefix(p, "name="); ok {
				return name
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i > 0 {
				return jt[:i]
			}
		} else {
			return jt
		}
	}
	return sf.Name
}

// FieldsOf derives field descriptors from the exported fields of struct type
// T, in declaration order. Pointer and sql.Null* fields, and fields tagged
// dynrec:"nullable", are nullable.
func FieldsOf[T any]() ([]FieldDescriptor, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dynrec: FieldsOf requires a struct type, got %s", rt)
	}
	out := make([]FieldDescriptor, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := ResolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		kind, nullable := kindOfType(sf.Type)
		if kind == KindInvalid {
			return nil, &InvalidKindError{Field: name, Kind: sf.Type.String()}
		}
		if hasTagOption(sf.Tag.Get("dynrec"), "nullable") {
			nullable = true
		}
		out = append(out, FieldDescriptor{Name: name, Kind: kind, Nullable: nullable})
	}
	return out, nil
}

// SchemaOf compiles the shape of struct type T under typeName.
func SchemaOf[T any](typeName string) (*Schema, error) {
	fields, err := FieldsOf[T]()
	if err != nil {
		return nil, err
	}
	return Compile(typeName, fields...)
}

var nullTypes = map[reflect.Type]Kind{
	reflect.TypeFor[sql.NullString]():  KindText,
	reflect.TypeFor[sql.NullInt64]():   KindInt,
	reflect.TypeFor[sql.NullInt32]():   KindInt,
	reflect.TypeFor[sql.NullInt16]():   KindInt,
	reflect.TypeFor[sql.NullByte]():    KindInt,
	reflect.TypeFor[sql.NullFloat64](): KindFloat,
	reflect.TypeFor[sql.NullBool]():    KindBool,
	reflect.TypeFor[sql.NullTime]():    KindTime,
}

func kindOfType(t reflect.Type) (Kind, bool) {
	if k, ok := nullTypes[t]; ok {
		return k, true
	}
	nullable := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}
	if t == reflect.TypeFor[time.Time]() {
		return KindTime, nullable
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, nullable
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return KindInt, nullable
	case reflect.Float32, reflect.Float64:
		return KindFloat, nullable
	case reflect.String:
		return KindText, nullable
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes, nullable
		}
	}
	return KindInvalid, false
}

func hasTagOption(tag, opt string) bool {
	for _, p := range strings.Split(tag, ",") {
		if strings.TrimSpace(p) == opt {
			return true
		}
	}
	return false
}
