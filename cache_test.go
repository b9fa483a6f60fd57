package dynrec_test

import (
	"sync"
	"testing"

	"github.com/reoring/dynrec"
)

func TestCache_ReusesIdenticalShape(t *testing.T) {
	var c dynrec.Cache
	fields := []dynrec.FieldDescriptor{
		dynrec.NewField("name", dynrec.KindText),
		dynrec.NewField("age", dynrec.KindInt).AsNullable(),
	}
	a, err := c.Compile("Person", fields...)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Compile("Person", fields...)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("identical shapes must return the same *Schema")
	}

	fields[1].Nullable = false
	d, err := c.Compile("Person", fields...)
	if err != nil {
		t.Fatal(err)
	}
	if d == a {
		t.Fatalf("changed nullability must compile a new schema")
	}
	if c.Len() != 2 {
		t.Fatalf("want 2 cached schemas, got %d", c.Len())
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	var c dynrec.Cache
	bad := []dynrec.FieldDescriptor{dynrec.NewField("a", dynrec.KindInt), dynrec.NewField("a", dynrec.KindInt)}
	for i := 0; i < 2; i++ {
		if _, err := c.Compile("Bad", bad...); err == nil {
			t.Fatalf("attempt %d: expected DuplicateFieldError", i)
		}
	}
	if c.Len() != 0 {
		t.Fatalf("failed compiles must not be cached")
	}
}

func TestCache_Concurrent(t *testing.T) {
	var c dynrec.Cache
	var wg sync.WaitGroup
	got := make([]*dynrec.Schema, 32)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Compile("Event", dynrec.NewField("at", dynrec.KindTime))
			if err != nil {
				t.Errorf("compile: %v", err)
				return
			}
			got[i] = s
		}()
	}
	wg.Wait()
	for i := range got {
		if got[i] != got[0] {
			t.Fatalf("goroutine %d received a different schema", i)
		}
	}
}
