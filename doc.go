// Package dynrec builds record shapes at runtime and binds external data into
// them.
//
//   - Compile turns a list of FieldDescriptor (name, Kind, nullable flag) into
//     an immutable Schema with a name→accessor table built once.
//   - Schema.NewInstance creates records; Schema.Get/Set address fields by name.
//   - AssignFromMap/AssignFromLookup copy matching keys from a key/value source
//     and skip the rest; AssignFromRow reads one column per field from a
//     schema-aligned row, failing on a missing column and skipping NULLs.
//   - Errors are typed (InvalidFieldNameError, DuplicateFieldError,
//     ColumnNotFoundError, FieldAssignmentError, ...) and project to Issue.
//
// Storage. Every field slot holds a Value (Present(v) or Absent). Fields that
// are nullable, and all text fields, may be Absent; the others always hold a
// value of their kind, starting at its zero value.
//
// Accepted values per kind (no conversion across kinds):
//
//	bool   bool and named bool types
//	int    signed integers; unsigned integers that fit int64
//	float  float32, float64
//	text   string and named string types
//	time   time.Time
//	bytes  []byte (copied)
//
// Non-nil pointers are dereferenced and driver.Valuer values are resolved
// first. nil, Null, nil pointers and Valuers reporting nil mean "no value".
//
// Typical usage:
//
//	s, err := dynrec.Compile("Person",
//	    dynrec.NewField("name", dynrec.KindText),
//	    dynrec.NewField("age", dynrec.KindInt).AsNullable(),
//	)
//	p, err := dynrec.CreateAndAssignMap(s, map[string]any{"age": 30})
//	age, _ := p.Value("age").Int()
//
// Subpackages: codec (JSON wire format), schemafile (YAML/JSON schema
// documents), sqlrow and pgxrow (row sources), jsonschema (export model).
package dynrec
