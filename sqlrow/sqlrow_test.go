package sqlrow_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/reoring/dynrec"
	"github.com/reoring/dynrec/sqlrow"
)

func newMemDB(tb testing.TB) *sql.DB {
	tb.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(tb, err)
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE people (name TEXT, age INTEGER, score REAL, photo BLOB, active BOOLEAN)`)
	require.NoError(tb, err)
	_, err = db.ExecContext(ctx, `INSERT INTO people VALUES
		('Ada', 36, 1.5, x'0102', 1),
		('Grace', NULL, NULL, NULL, 0),
		(NULL, 7, 2, NULL, 1)`)
	require.NoError(tb, err)
	return db
}

func peopleSchema(t *testing.T) *dynrec.Schema {
	t.Helper()
	return dynrec.MustCompile("Person",
		dynrec.NewField("name", dynrec.KindText),
		dynrec.NewField("age", dynrec.KindInt).AsNullable(),
		dynrec.NewField("score", dynrec.KindFloat).AsNullable(),
		dynrec.NewField("photo", dynrec.KindBytes).AsNullable(),
	)
}

func TestQuery_BindsRows(t *testing.T) {
	db := newMemDB(t)
	got, err := sqlrow.Query(context.Background(), db, peopleSchema(t),
		`SELECT name, age, score, photo FROM people ORDER BY rowid`)
	require.NoError(t, err)
	require.Len(t, got, 3)

	name, _ := got[0].Value("name").Text()
	age, _ := got[0].Value("age").Int()
	photo, _ := got[0].Value("photo").Bytes()
	assert.Equal(t, "Ada", name)
	assert.Equal(t, int64(36), age)
	assert.Equal(t, []byte{1, 2}, photo)

	assert.False(t, got[1].Value("age").IsPresent())
	assert.False(t, got[1].Value("score").IsPresent())

	assert.False(t, got[2].Value("name").IsPresent())
	score, ok := got[2].Value("score").Float()
	assert.True(t, ok)
	assert.Equal(t, 2.0, score)
}

func TestQuery_MissingColumn(t *testing.T) {
	db := newMemDB(t)
	_, err := sqlrow.Query(context.Background(), db, peopleSchema(t), `SELECT name, age FROM people`)
	var cnf *dynrec.ColumnNotFoundError
	require.ErrorAs(t, err, &cnf)
	assert.Equal(t, "score", cnf.Column)
	assert.ErrorIs(t, err, dynrec.ErrNoColumn)
	assert.Contains(t, err.Error(), "row 0")
}

func TestQuery_NullOnRequiredFieldIsSkipped(t *testing.T) {
	db := newMemDB(t)
	s := dynrec.MustCompile("Age", dynrec.NewField("age", dynrec.KindInt))
	got, err := sqlrow.Query(context.Background(), db, s, `SELECT age FROM people WHERE name = ?`, "Grace")
	require.NoError(t, err)
	require.Len(t, got, 1)
	age, ok := got[0].Value("age").Int()
	assert.True(t, ok)
	assert.Equal(t, int64(0), age)
}

func TestQuery_DuplicateColumnFirstWins(t *testing.T) {
	db := newMemDB(t)
	s := dynrec.MustCompile("Age", dynrec.NewField("age", dynrec.KindInt))
	got, err := sqlrow.Query(context.Background(), db, s, `SELECT age, 99 AS age FROM people WHERE name = 'Ada'`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	age, _ := got[0].Value("age").Int()
	assert.Equal(t, int64(36), age)
}

func TestQuery_KindMismatch(t *testing.T) {
	db := newMemDB(t)
	s := dynrec.MustCompile("Age", dynrec.NewField("age", dynrec.KindInt))
	_, err := sqlrow.Query(context.Background(), db, s, `SELECT 'old' AS age`)
	var fe *dynrec.FieldAssignmentError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "age", fe.Field)
}

func TestRows_ManualIteration(t *testing.T) {
	db := newMemDB(t)
	rows, err := db.QueryContext(context.Background(), `SELECT name, active FROM people ORDER BY rowid`)
	require.NoError(t, err)
	defer rows.Close()

	r, err := sqlrow.New(rows)
	require.NoError(t, err)
	var names []any
	for r.Next() {
		v, err := r.Value("name")
		require.NoError(t, err)
		names = append(names, v)
		_, err = r.Value("nope")
		assert.ErrorIs(t, err, dynrec.ErrNoColumn)
	}
	require.NoError(t, r.Err())
	assert.Equal(t, []any{"Ada", "Grace", nil}, names)
}

func TestQuery_CanceledContext(t *testing.T) {
	db := newMemDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sqlrow.Query(ctx, db, peopleSchema(t), `SELECT name, age, score, photo FROM people`)
	assert.ErrorIs(t, err, context.Canceled)
}
