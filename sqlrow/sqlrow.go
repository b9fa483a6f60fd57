// Package sqlrow adapts database/sql result sets to dynrec row sources.
//
// A Rows wraps *sql.Rows and exposes the current row by column name. When a
// result set repeats a column name, the first occurrence wins.
//
// Drivers such as lib/pq and go-sql-driver/mysql scan character columns into
// []byte when the destination is *any. Rows reports those values as string
// whenever the driver's column type marks the column as text, so they bind to
// text fields; BLOB and BYTEA columns stay []byte.
package sqlrow

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/dynrec"
)

// Queryer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Rows iterates a result set. The row exposed by Value is only valid until
// the next call to Next.
type Rows struct {
	rows  *sql.Rows
	index map[string]int
	vals  []any
	ptrs  []any
	text  []bool
	err   error
}

// New reads the column list of rows. The caller still owns rows and must
// close it.
func New(rows *sql.Rows) (*Rows, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlrow: columns: %w", err)
	}
	r := &Rows{
		rows:  rows,
		index: make(map[string]int, len(cols)),
		vals:  make([]any, len(cols)),
		ptrs:  make([]any, len(cols)),
	}
	for i, c := range cols {
		if _, dup := r.index[c]; !dup {
			r.index[c] = i
		}
		r.ptrs[i] = &r.vals[i]
	}
	// column types are optional; without them values are passed as scanned
	if cts, err := rows.ColumnTypes(); err == nil && len(cts) == len(cols) {
		r.text = make([]bool, len(cols))
		for i, ct := range cts {
			r.text[i] = isTextColumn(ct.ScanType(), ct.DatabaseTypeName())
		}
	}
	return r, nil
}

var (
	stringType     = reflect.TypeFor[string]()
	nullStringType = reflect.TypeFor[sql.NullString]()
)

var textTypeNames = map[string]bool{
	"TEXT": true, "VARCHAR": true, "CHAR": true, "BPCHAR": true, "NAME": true,
	"NVARCHAR": true, "NCHAR": true, "NTEXT": true, "CHARACTER": true,
	"TINYTEXT": true, "MEDIUMTEXT": true, "LONGTEXT": true, "CITEXT": true,
}

// isTextColumn reports whether a column holds character data.
func isTextColumn(scan reflect.Type, dbType string) bool {
	if scan == stringType || scan == nullStringType {
		return true
	}
	return textTypeNames[strings.ToUpper(dbType)]
}

// Next advances to the next row and scans it. It returns false at the end of
// the result set or on error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}
	clear(r.vals)
	if err := r.rows.Scan(r.ptrs...); err != nil {
		r.err = fmt.Errorf("sqlrow: scan: %w", err)
		return false
	}
	return true
}

// Err returns the first scan or iteration error.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Value implements dynrec.Row. SQL NULL is reported as nil and character
// data as string.
func (r *Rows) Value(column string) (any, error) {
	i, ok := r.index[column]
	if !ok {
		return nil, fmt.Errorf("sqlrow: %q: %w", column, dynrec.ErrNoColumn)
	}
	if b, ok := r.vals[i].([]byte); ok && r.text != nil && r.text[i] {
		return string(b), nil
	}
	return r.vals[i], nil
}

// Collect binds every remaining row to a new instance of s and closes rows.
func Collect(ctx context.Context, rows *sql.Rows, s *dynrec.Schema) ([]*dynrec.Instance, error) {
	defer rows.Close()
	r, err := New(rows)
	if err != nil {
		return nil, err
	}
	var out []*dynrec.Instance
	for n := 0; r.Next(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, err := dynrec.CreateAndAssignRow(s, r)
		if err != nil {
			return nil, fmt.Errorf("sqlrow: row %d: %w", n, err)
		}
		out = append(out, inst)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Query runs query on q and collects the result through s.
func Query(ctx context.Context, q Queryer, s *dynrec.Schema, query string, args ...any) ([]*dynrec.Instance, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlrow: query: %w", err)
	}
	return Collect(ctx, rows, s)
}
