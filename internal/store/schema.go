package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaUnavailable signals that the store file or the table is missing.
// Callers treat it as a soft condition and ground prompts on a placeholder.
var ErrSchemaUnavailable = errors.New("schema unavailable")

// SchemaPlaceholder is the grounding text used when the schema cannot be read.
const SchemaPlaceholder = "(schema unavailable: store or table not found)"

type Column struct {
	Name string
	Type string
}

// SchemaContext carries the column list of one table plus the canonical
// vocabulary used to ground natural-language stages. Immutable per pipeline
// run.
type SchemaContext struct {
	Table      string
	Columns    []Column
	Vocabulary []string
}

// String renders the schema the way prompts consume it: "NAME (TYPE), ...".
func (sc SchemaContext) String() string {
	if len(sc.Columns) == 0 {
		return SchemaPlaceholder
	}
	parts := make([]string, len(sc.Columns))
	for i, c := range sc.Columns {
		parts[i] = fmt.Sprintf("%s (%s)", c.Name, c.Type)
	}
	return strings.Join(parts, ", ")
}

// ColumnNames returns the declared column names in table order.
func (sc SchemaContext) ColumnNames() []string {
	names := make([]string, len(sc.Columns))
	for i, c := range sc.Columns {
		names[i] = c.Name
	}
	return names
}

// Describe reads column metadata for table via PRAGMA table_info. Returns
// ErrSchemaUnavailable when the table does not exist or the store is
// unreachable.
func (s *Store) Describe(ctx context.Context, table string) (SchemaContext, error) {
	conn, release, err := s.conn(ctx)
	if err != nil {
		return SchemaContext{Table: table}, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	defer release()

	rows, err := conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return SchemaContext{Table: table}, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	defer rows.Close()

	sc := SchemaContext{Table: table}
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    bool
			defaultVal any
			pk         bool
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return SchemaContext{Table: table}, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
		}
		sc.Columns = append(sc.Columns, Column{Name: name, Type: typ})
	}
	if err := rows.Err(); err != nil {
		return SchemaContext{Table: table}, fmt.Errorf("%w: %v", ErrSchemaUnavailable, err)
	}
	if len(sc.Columns) == 0 {
		return sc, fmt.Errorf("%w: table %q has no columns", ErrSchemaUnavailable, table)
	}
	return sc, nil
}

// DistinctValues returns the distinct non-null values of column, used to build
// the live part of the vocabulary. Errors are soft: callers fall back to the
// static list.
func (s *Store) DistinctValues(ctx context.Context, table, column string, limit int) ([]string, error) {
	conn, release, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	q := fmt.Sprintf("SELECT DISTINCT %q FROM %q WHERE %q IS NOT NULL LIMIT %d", column, table, column, limit)
	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
