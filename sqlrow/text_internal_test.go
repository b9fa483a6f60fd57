package sqlrow

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTextColumn(t *testing.T) {
	assert.True(t, isTextColumn(reflect.TypeFor[string](), ""))
	assert.True(t, isTextColumn(reflect.TypeFor[sql.NullString](), "VARCHAR"))
	assert.True(t, isTextColumn(reflect.TypeFor[sql.RawBytes](), "varchar"))
	assert.True(t, isTextColumn(nil, "TEXT"))
	assert.False(t, isTextColumn(reflect.TypeFor[[]byte](), "BYTEA"))
	assert.False(t, isTextColumn(reflect.TypeFor[sql.RawBytes](), "BLOB"))
	assert.False(t, isTextColumn(reflect.TypeFor[int64](), "INTEGER"))
}

func TestValue_TextColumnBytesBecomeString(t *testing.T) {
	r := &Rows{
		index: map[string]int{"name": 0, "photo": 1},
		vals:  []any{[]byte("Ada"), []byte{1, 2}},
		text:  []bool{true, false},
	}
	v, err := r.Value("name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	v, err = r.Value("photo")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)

	r.text = nil
	v, err = r.Value("name")
	require.NoError(t, err)
	assert.Equal(t, []byte("Ada"), v, "without column types values pass through")
}
