package dynrec_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reoring/dynrec"
)

func TestToIssue_ProjectsTypedErrors(t *testing.T) {
	s := personSchema(t)

	_, dupErr := dynrec.Compile("D", dynrec.NewField("a", dynrec.KindInt), dynrec.NewField("a", dynrec.KindInt))
	_, nameErr := dynrec.Compile("N", dynrec.NewField("a/b", dynrec.KindInt))
	assignErr := s.NewInstance().Set("age", "x")
	colErr := dynrec.AssignFromRow(s.NewInstance(), fakeRow{"name": "a"})
	unkErr := s.NewInstance().Set("nope", 1)
	mismatchErr := personSchema(t).Set(s.NewInstance(), "age", 1)

	cases := []struct {
		err  error
		code string
		path string
	}{
		{dupErr, dynrec.CodeDuplicateField, "/a"},
		{nameErr, dynrec.CodeInvalidFieldName, "/a~1b"},
		{fmt.Errorf("wrapped: %w", assignErr), dynrec.CodeFieldAssignment, "/age"},
		{colErr, dynrec.CodeColumnNotFound, "/age"},
		{unkErr, dynrec.CodeUnknownField, "/nope"},
		{mismatchErr, dynrec.CodeSchemaMismatch, "/"},
	}
	for _, tc := range cases {
		iss, ok := dynrec.ToIssue(tc.err)
		if !ok {
			t.Fatalf("%v: not projected", tc.err)
		}
		if iss.Code != tc.code || iss.Path != tc.path {
			t.Fatalf("%v: got code=%s path=%s, want %s %s", tc.err, iss.Code, iss.Path, tc.code, tc.path)
		}
		if iss.Message == "" {
			t.Fatalf("%v: empty message", tc.err)
		}
	}
	if _, ok := dynrec.ToIssue(errors.New("plain")); ok {
		t.Fatalf("plain errors must not project")
	}
}

func TestFieldAssignmentError_Message(t *testing.T) {
	err := personSchema(t).NewInstance().Set("age", "thirty")
	msg := err.Error()
	for _, want := range []string{`"age"`, "int", "thirty"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	iss := dynrec.Issues{
		{Path: "/a", Code: dynrec.CodeFieldAssignment},
		{Path: "/b", Code: dynrec.CodeFieldAssignment},
		{Path: "/c", Code: dynrec.CodeColumnNotFound},
		{Path: "/d", Code: dynrec.CodeColumnNotFound},
	}
	want := "field_assignment at /a; field_assignment at /b; column_not_found at /c; ... (total 4)"
	if got := iss.Error(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	var err error = fmt.Errorf("batch: %w", iss)
	got, ok := dynrec.AsIssues(err)
	if !ok || len(got) != 4 {
		t.Fatalf("AsIssues failed: %v", err)
	}
	if _, ok := dynrec.AsIssues(nil); ok {
		t.Fatalf("nil must not be Issues")
	}
}
