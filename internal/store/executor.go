package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrorColumn is the single key of the synthetic row produced when a query
// fails. Downstream stages treat such a result as data, not as an error.
const ErrorColumn = "error"

// QueryResult is the uniform shape every query execution produces. Columns
// preserves the projection order of the executed query; every row has exactly
// that key set. A failed execution yields a single synthetic row under
// ErrorColumn and a non-empty Err.
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
	Err     string
}

func (r QueryResult) IsErr() bool {
	return r.Err != ""
}

func errResult(err error) QueryResult {
	msg := fmt.Sprintf("Error al ejecutar la consulta: %v", err)
	return QueryResult{
		Columns: []string{ErrorColumn},
		Rows:    []map[string]any{{ErrorColumn: msg}},
		Err:     msg,
	}
}

// isRead classifies a statement as a row-returning read. CTE-prefixed
// statements count: WITH introduces a SELECT in this pipeline, and the same
// prefix rule governs the SQL validator.
func isRead(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(q, "select") || strings.HasPrefix(q, "with")
}

// Execute runs a single query against the store. Reads (select- or
// with-prefixed, case-insensitive) return one row per result tuple; anything
// else is treated as a write, committed, and reported as a single synthetic
// row with the affected-row count. Execution failures never raise past this
// boundary.
func (s *Store) Execute(ctx context.Context, query string) QueryResult {
	conn, release, err := s.conn(ctx)
	if err != nil {
		return errResult(err)
	}
	defer release()

	if !isRead(query) {
		res, err := conn.ExecContext(ctx, query)
		if err != nil {
			log.Warn().Err(err).Msg("write query failed")
			return errResult(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			affected = 0
		}
		return QueryResult{
			Columns: []string{"mensaje"},
			Rows: []map[string]any{
				{"mensaje": fmt.Sprintf("Consulta ejecutada. Filas afectadas: %d", affected)},
			},
		}
	}

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("read query failed")
		return errResult(err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return errResult(err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return errResult(err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return errResult(err)
	}

	return QueryResult{Columns: columns, Rows: out}
}

// normalize maps driver-level values to the small set of scalar kinds the
// rest of the pipeline understands.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return v
	}
}
