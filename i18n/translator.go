package i18n

import "strings"

// Translator retrieves localized messages for error codes.
// data provides optional values substituted into "{key}" placeholders (for
// example "field", "kind" or "column").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var messages = map[string]map[string]string{
	"en": {
		"invalid_field_name": "invalid field name {field}",
		"duplicate_field":    "duplicate field {field}",
		"invalid_kind":       "invalid value kind {kind} for field {field}",
		"unknown_field":      "unknown field {field}",
		"column_not_found":   "column {column} not found",
		"field_assignment":   "cannot assign {value} to {kind} field {field}",
	},
	"ja": {
		"invalid_field_name": "フィールド名 {field} が不正です",
		"duplicate_field":    "フィールド {field} が重複しています",
		"invalid_kind":       "フィールド {field} の値の種類 {kind} が不正です",
		"unknown_field":      "未知のフィールド {field} です",
		"column_not_found":   "列 {column} が見つかりません",
		"field_assignment":   "{kind} 型のフィールド {field} に {value} を代入できません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := messages[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
