package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/garooinc/itzana-insights/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func mustExec(t *testing.T, st *store.Store, query string) store.QueryResult {
	t.Helper()
	res := st.Execute(context.Background(), query)
	if res.IsErr() {
		t.Fatalf("query %q failed: %s", query, res.Err)
	}
	return res
}

func seedReservations(t *testing.T, st *store.Store) {
	t.Helper()
	mustExec(t, st, `CREATE TABLE reservations (GUEST VARCHAR, ROOM_TYPE VARCHAR, RATE DOUBLE, ARRIVAL VARCHAR)`)
	mustExec(t, st, `INSERT INTO reservations VALUES
		('Ana', 'Beach House', 450.0, '2025-01-10'),
		('Ben', 'Garden Suite', 320.0, '2025-01-12'),
		('Carla', 'Beach House', 470.0, '2025-02-03'),
		('Dan', 'Penthouse', 890.0, '2025-02-20')`)
}

func TestExecuteSelect(t *testing.T) {
	st := openTestStore(t)
	seedReservations(t, st)

	res := mustExec(t, st, `SELECT ROOM_TYPE, RATE FROM reservations ORDER BY RATE`)
	if len(res.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(res.Rows))
	}
	if want := []string{"ROOM_TYPE", "RATE"}; len(res.Columns) != 2 || res.Columns[0] != want[0] || res.Columns[1] != want[1] {
		t.Errorf("columns = %v, want %v", res.Columns, want)
	}
	if got := res.Rows[0]["ROOM_TYPE"]; got != "Garden Suite" {
		t.Errorf("first row ROOM_TYPE = %v, want Garden Suite", got)
	}
}

func TestExecuteSelectEmpty(t *testing.T) {
	st := openTestStore(t)
	seedReservations(t, st)

	res := mustExec(t, st, `SELECT GUEST FROM reservations WHERE RATE > 10000`)
	if res.IsErr() {
		t.Fatalf("empty result should not be an error: %s", res.Err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(res.Rows))
	}
}

func TestExecuteWriteReportsAffectedRows(t *testing.T) {
	st := openTestStore(t)
	seedReservations(t, st)

	res := st.Execute(context.Background(), `UPDATE reservations SET RATE = RATE * 1.1 WHERE ROOM_TYPE <> 'Penthouse'`)
	if res.IsErr() {
		t.Fatalf("update failed: %s", res.Err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 synthetic row", len(res.Rows))
	}
	msg, ok := res.Rows[0]["mensaje"].(string)
	if !ok {
		t.Fatalf("missing mensaje key in %v", res.Rows[0])
	}
	if !strings.Contains(msg, "3") {
		t.Errorf("mensaje = %q, want affected count 3 mentioned", msg)
	}
	if want := "Consulta ejecutada. Filas afectadas: 3"; msg != want {
		t.Errorf("mensaje = %q, want %q", msg, want)
	}
}

func TestExecuteCTEIsRead(t *testing.T) {
	st := openTestStore(t)
	seedReservations(t, st)

	res := mustExec(t, st, `WITH typed AS (
		SELECT ROOM_TYPE, count(*) AS n FROM reservations GROUP BY ROOM_TYPE
	) SELECT ROOM_TYPE, n FROM typed ORDER BY ROOM_TYPE`)

	if _, hasMensaje := res.Rows[0]["mensaje"]; hasMensaje {
		t.Fatalf("CTE query was treated as a write: %v", res.Rows)
	}
	if len(res.Columns) != 2 || res.Columns[0] != "ROOM_TYPE" || res.Columns[1] != "n" {
		t.Errorf("columns = %v, want [ROOM_TYPE n]", res.Columns)
	}
	if len(res.Rows) != 3 {
		t.Errorf("rows = %d, want 3 room types", len(res.Rows))
	}
	if got := fmt.Sprintf("%v", res.Rows[0]["n"]); got != "2" {
		t.Errorf("Beach House count = %v, want 2", res.Rows[0]["n"])
	}
}

func TestExecuteFailureYieldsErrorRow(t *testing.T) {
	st := openTestStore(t)

	res := st.Execute(context.Background(), `SELECT * FROM no_such_table`)
	if !res.IsErr() {
		t.Fatal("expected error result")
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(res.Rows))
	}
	if len(res.Rows[0]) != 1 {
		t.Errorf("error row has %d keys, want exactly 1", len(res.Rows[0]))
	}
	msg, ok := res.Rows[0][store.ErrorColumn].(string)
	if !ok {
		t.Fatalf("missing %q key in %v", store.ErrorColumn, res.Rows[0])
	}
	if !strings.HasPrefix(msg, "Error al ejecutar la consulta:") {
		t.Errorf("error message = %q, want the uniform prefix", msg)
	}
	if res.Columns[0] != store.ErrorColumn {
		t.Errorf("columns = %v, want [%s]", res.Columns, store.ErrorColumn)
	}
}

func TestExecuteNormalizesBytes(t *testing.T) {
	st := openTestStore(t)
	seedReservations(t, st)

	res := mustExec(t, st, `SELECT GUEST FROM reservations LIMIT 1`)
	if _, isBytes := res.Rows[0]["GUEST"].([]byte); isBytes {
		t.Error("byte slices should be normalized to strings")
	}
	if _, isString := res.Rows[0]["GUEST"].(string); !isString {
		t.Errorf("GUEST = %T, want string", res.Rows[0]["GUEST"])
	}
}
