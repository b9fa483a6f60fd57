package dynrec

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the value category a field holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool         // bool
	KindInt          // int64
	KindFloat        // float64
	KindText         // string
	KindTime         // time.Time
	KindBytes        // []byte
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindText:    "text",
	KindTime:    "time",
	KindBytes:   "bytes",
}

// kindAliases maps the names accepted by ParseKind (including the spellings
// used by SQL column types and schema contracts) to a Kind.
var kindAliases = map[string]Kind{
	"bool":      KindBool,
	"boolean":   KindBool,
	"int":       KindInt,
	"integer":   KindInt,
	"int64":     KindInt,
	"bigint":    KindInt,
	"float":     KindFloat,
	"float64":   KindFloat,
	"double":    KindFloat,
	"real":      KindFloat,
	"text":      KindText,
	"string":    KindText,
	"varchar":   KindText,
	"time":      KindTime,
	"date":      KindTime,
	"datetime":  KindTime,
	"timestamp": KindTime,
	"bytes":     KindBytes,
	"blob":      KindBytes,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names one of the supported kinds.
func (k Kind) Valid() bool { return k > KindInvalid && int(k) < len(kindNames) }

// Zero returns the default value for the kind as stored in a fresh, present
// slot. KindInvalid has no zero value.
func (k Kind) Zero() any {
	switch k {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindText:
		return ""
	case KindTime:
		return time.Time{}
	case KindBytes:
		return []byte(nil)
	}
	return nil
}

// ParseKind resolves a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("dynrec: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("dynrec: cannot marshal %s", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
