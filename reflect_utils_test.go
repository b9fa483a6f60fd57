package dynrec_test

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/reoring/dynrec"
)

type customer struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Nick     *string        `dynrec:"name=nickname"`
	Email    sql.NullString `json:"email,omitempty"`
	Joined   time.Time
	LastSeen *time.Time `json:"last_seen"`
	Score    float32    `dynrec:"nullable"`
	Avatar   []byte     `json:"avatar"`
	Active   bool       `json:",omitempty"`
	Secret   string     `json:"-"`
	Skipped  int        `dynrec:"-"`
	internal int
}

func TestFieldsOf_ResolvesKeysKindsAndNullability(t *testing.T) {
	got, err := dynrec.FieldsOf[customer]()
	if err != nil {
		t.Fatalf("FieldsOf: %v", err)
	}
	want := []dynrec.FieldDescriptor{
		{Name: "id", Kind: dynrec.KindInt},
		{Name: "name", Kind: dynrec.KindText},
		{Name: "nickname", Kind: dynrec.KindText, Nullable: true},
		{Name: "email", Kind: dynrec.KindText, Nullable: true},
		{Name: "Joined", Kind: dynrec.KindTime},
		{Name: "last_seen", Kind: dynrec.KindTime, Nullable: true},
		{Name: "Score", Kind: dynrec.KindFloat, Nullable: true},
		{Name: "avatar", Kind: dynrec.KindBytes},
		{Name: "Active", Kind: dynrec.KindBool},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FieldsOf mismatch\n got: %v\nwant: %v", got, want)
	}
}

func TestFieldsOf_PointerTypeAndErrors(t *testing.T) {
	if _, err := dynrec.FieldsOf[*customer](); err != nil {
		t.Fatalf("pointer to struct: %v", err)
	}
	if _, err := dynrec.FieldsOf[int](); err == nil {
		t.Fatalf("expected error for non-struct")
	}
	type bad struct {
		Tags []string
	}
	_, err := dynrec.FieldsOf[bad]()
	var ik *dynrec.InvalidKindError
	if !errors.As(err, &ik) || ik.Field != "Tags" {
		t.Fatalf("want InvalidKindError for Tags, got %v", err)
	}
}

func TestSchemaOf_BindsStructShapedMap(t *testing.T) {
	s, err := dynrec.SchemaOf[customer]("Customer")
	if err != nil {
		t.Fatalf("SchemaOf: %v", err)
	}
	inst, err := dynrec.CreateAndAssignMap(s, map[string]any{
		"id":       int64(9),
		"nickname": "c9",
		"Joined":   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if got, _ := inst.Value("nickname").Text(); got != "c9" {
		t.Fatalf("nickname: %v", inst.Value("nickname"))
	}
	if inst.Value("last_seen").IsPresent() {
		t.Fatalf("last_seen must be absent")
	}
}

func TestResolveStructKey(t *testing.T) {
	rt := reflect.TypeFor[customer]()
	cases := map[string]string{
		"ID":      "id",
		"Nick":    "nickname",
		"Joined":  "Joined",
		"Active":  "Active",
		"Secret":  "-",
		"Skipped": "-",
	}
	for field, want := range cases {
		sf, _ := rt.FieldByName(field)
		if got := dynrec.ResolveStructKey(sf); got != want {
			t.Fatalf("%s: got %q want %q", field, got, want)
		}
	}
}
