package dynrec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/dynrec/i18n"
)

// Error codes (stable, used by Issue.Code and i18n lookups).
const (
	CodeInvalidFieldName = "invalid_field_name"
	CodeDuplicateField   = "duplicate_field"
	CodeInvalidKind      = "invalid_kind"
	CodeUnknownField     = "unknown_field"
	CodeColumnNotFound   = "column_not_found"
	CodeFieldAssignment  = "field_assignment"
	CodeSchemaMismatch   = "schema_mismatch"
)

// ErrNoColumn is returned (possibly wrapped) by a Row when the requested
// column does not exist.
var ErrNoColumn = errors.New("dynrec: no such column")

// ErrSchemaMismatch is returned when an instance is accessed through a schema
// other than the one that created it.
var ErrSchemaMismatch = errors.New("dynrec: instance belongs to another schema")

// InvalidFieldNameError reports a field name that is empty or not an
// identifier.
type InvalidFieldNameError struct {
	Schema string
	Field  string
	Reason string
}

func (e *InvalidFieldNameError) Error() string {
	return fmt.Sprintf("dynrec: %s: %s (%s)", e.Schema,
		i18n.T(CodeInvalidFieldName, map[string]string{"field": strconv.Quote(e.Field)}), e.Reason)
}

func (e *InvalidFieldNameError) Code() string { return CodeInvalidFieldName }

// DuplicateFieldError reports two descriptors with the same name.
type DuplicateFieldError struct {
	Schema string
	Field  string
	// Index is the position of the second occurrence in the descriptor list.
	Index int
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("dynrec: %s: %s at index %d", e.Schema,
		i18n.T(CodeDuplicateField, map[string]string{"field": strconv.Quote(e.Field)}), e.Index)
}

func (e *DuplicateFieldError) Code() string { return CodeDuplicateField }

// InvalidKindError reports a descriptor whose kind is not supported.
type InvalidKindError struct {
	Field string
	Kind  string
}

func (e *InvalidKindError) Error() string {
	return "dynrec: " + i18n.T(CodeInvalidKind, map[string]string{"field": strconv.Quote(e.Field), "kind": e.Kind})
}

func (e *InvalidKindError) Code() string { return CodeInvalidKind }

// UnknownFieldError reports get/set of a name the schema does not declare.
type UnknownFieldError struct {
	Schema string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("dynrec: %s: %s", e.Schema,
		i18n.T(CodeUnknownField, map[string]string{"field": strconv.Quote(e.Field)}))
}

func (e *UnknownFieldError) Code() string { return CodeUnknownField }

// ColumnNotFoundError reports a row source that lacks a column required by
// the schema.
type ColumnNotFoundError struct {
	Column string
	Cause  error
}

func (e *ColumnNotFoundError) Error() string {
	return "dynrec: " + i18n.T(CodeColumnNotFound, map[string]string{"column": strconv.Quote(e.Column)})
}

func (e *ColumnNotFoundError) Code() string  { return CodeColumnNotFound }
func (e *ColumnNotFoundError) Unwrap() error { return e.Cause }

// FieldAssignmentError reports a source value whose kind does not match the
// field's declared kind.
type FieldAssignmentError struct {
	Field string
	Kind  Kind
	Value any
	// Cause is set when a wire decoder failed to produce a value.
	Cause error
}

func (e *FieldAssignmentError) Error() string {
	msg := "dynrec: " + i18n.T(CodeFieldAssignment, map[string]string{
		"field": strconv.Quote(e.Field),
		"kind":  e.Kind.String(),
		"value": describeValue(e.Value),
	})
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *FieldAssignmentError) Code() string  { return CodeFieldAssignment }
func (e *FieldAssignmentError) Unwrap() error { return e.Cause }

func describeValue(v any) string {
	if v == nil {
		return "null"
	}
	s := fmt.Sprintf("%#v", v)
	if len(s) > 64 {
		s = s[:61] + "..."
	}
	return fmt.Sprintf("%T(%s)", v, s)
}

// Issue is a flattened, serializable view of an error, keyed by a JSON
// Pointer to the offending field.
type Issue struct {
	Path    string         `json:"path"` // JSON Pointer, e.g. /age
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
	Cause   error          `json:"-"`
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ToIssue projects one of the package's typed errors (possibly wrapped) to an
// Issue. It reports false for any other error.
func ToIssue(err error) (Issue, bool) {
	var (
		nameErr   *InvalidFieldNameError
		dupErr    *DuplicateFieldError
		kindErr   *InvalidKindError
		unkErr    *UnknownFieldError
		colErr    *ColumnNotFoundError
		assignErr *FieldAssignmentError
	)
	switch {
	case errors.As(err, &assignErr):
		return Issue{Path: pointer(assignErr.Field), Code: CodeFieldAssignment, Message: assignErr.Error(),
			Params: map[string]any{"kind": assignErr.Kind.String(), "got": fmt.Sprintf("%T", assignErr.Value)}, Cause: assignErr.Cause}, true
	case errors.As(err, &colErr):
		return Issue{Path: pointer(colErr.Column), Code: CodeColumnNotFound, Message: colErr.Error(), Cause: colErr.Cause}, true
	case errors.As(err, &dupErr):
		return Issue{Path: pointer(dupErr.Field), Code: CodeDuplicateField, Message: dupErr.Error(),
			Params: map[string]any{"index": dupErr.Index}}, true
	case errors.As(err, &nameErr):
		return Issue{Path: pointer(nameErr.Field), Code: CodeInvalidFieldName, Message: nameErr.Error(),
			Params: map[string]any{"reason": nameErr.Reason}}, true
	case errors.As(err, &kindErr):
		return Issue{Path: pointer(kindErr.Field), Code: CodeInvalidKind, Message: kindErr.Error()}, true
	case errors.As(err, &unkErr):
		return Issue{Path: pointer(unkErr.Field), Code: CodeUnknownField, Message: unkErr.Error()}, true
	case errors.Is(err, ErrSchemaMismatch):
		return Issue{Path: "/", Code: CodeSchemaMismatch, Message: err.Error()}, true
	}
	return Issue{}, false
}

// pointer renders a single-segment JSON Pointer (RFC 6901 escaping).
func pointer(name string) string {
	return "/" + strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}
