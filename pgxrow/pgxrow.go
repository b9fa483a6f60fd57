// Package pgxrow binds pgx result rows to dynrec instances.
//
// RowTo plugs into pgx.CollectRows and pgx.CollectOneRow:
//
//	people, err := pgx.CollectRows(rows, pgxrow.RowTo(schema))
package pgxrow

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reoring/dynrec"
)

// Querier is the subset of *pgx.Conn, pgx.Tx and pool types used by Query.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Row exposes one decoded pgx row by column name. The first column with a
// given name wins.
type Row struct {
	fields []pgconn.FieldDescription
	values []any
}

// NewRow pairs field descriptions with their decoded values.
func NewRow(fields []pgconn.FieldDescription, values []any) Row {
	return Row{fields: fields, values: values}
}

// Value implements dynrec.Row.
func (r Row) Value(column string) (any, error) {
	for i := range r.fields {
		if r.fields[i].Name == column && i < len(r.values) {
			return r.values[i], nil
		}
	}
	return nil, fmt.Errorf("pgxrow: %q: %w", column, dynrec.ErrNoColumn)
}

// RowTo returns a pgx.RowToFunc producing instances of s.
func RowTo(s *dynrec.Schema) pgx.RowToFunc[*dynrec.Instance] {
	return func(row pgx.CollectableRow) (*dynrec.Instance, error) {
		vals, err := row.Values()
		if err != nil {
			return nil, fmt.Errorf("pgxrow: values: %w", err)
		}
		return dynrec.CreateAndAssignRow(s, NewRow(row.FieldDescriptions(), vals))
	}
}

// Collect binds all rows to instances of s and closes rows.
func Collect(rows pgx.Rows, s *dynrec.Schema) ([]*dynrec.Instance, error) {
	return pgx.CollectRows(rows, RowTo(s))
}

// Query runs sql on q and collects the result through s.
func Query(ctx context.Context, q Querier, s *dynrec.Schema, sql string, args ...any) ([]*dynrec.Instance, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("pgxrow: query: %w", err)
	}
	return Collect(rows, s)
}
