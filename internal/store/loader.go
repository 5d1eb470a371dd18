package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Dataset names a source spreadsheet and the table it loads into.
type Dataset struct {
	Table string
	File  string
}

// DefaultDatasets mirrors the source exports the resort drops into the data
// directory.
func DefaultDatasets(dataDir string) []Dataset {
	return []Dataset{
		{Table: ReservationsTable, File: filepath.Join(dataDir, "reservations.xlsx")},
		{Table: GroupedAccountsTable, File: filepath.Join(dataDir, "grouped_accounts.xlsx")},
	}
}

// Reload rebuilds the store from the given spreadsheets into a fresh file and
// atomically swaps it in. Returns the loaded row count per table. Reload is a
// maintenance operation: it serializes against in-flight queries via the
// store's exclusive lock during the swap, and a missing spreadsheet skips its
// dataset rather than failing the whole reload.
func (s *Store) Reload(ctx context.Context, datasets []Dataset) (map[string]int, error) {
	tmpPath := fmt.Sprintf("%s.rebuild-%d", s.path, time.Now().UnixNano())
	db, err := sql.Open("duckdb", tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open rebuild store: %w", err)
	}

	counts := make(map[string]int, len(datasets))
	for _, ds := range datasets {
		n, err := loadSheet(ctx, db, ds.Table, ds.File)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn().Str("file", ds.File).Str("table", ds.Table).Msg("dataset file missing, skipping")
				continue
			}
			db.Close()
			os.Remove(tmpPath)
			return nil, fmt.Errorf("load %s: %w", ds.Table, err)
		}
		counts[ds.Table] = n
	}

	if err := db.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close rebuild store: %w", err)
	}
	if err := s.swap(tmpPath); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	log.Info().Interface("loaded", counts).Msg("store reloaded")
	return counts, nil
}

// loadSheet dumps the first sheet of an xlsx file into table, replacing any
// previous contents. The header row names the columns; a column whose every
// non-empty cell parses as a number is declared DOUBLE, everything else
// VARCHAR.
func loadSheet(ctx context.Context, db *sql.DB, table, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := rows[0]
	data := rows[1:]
	numeric := sniffNumericColumns(header, data)

	defs := make([]string, len(header))
	for i, name := range header {
		typ := "VARCHAR"
		if numeric[i] {
			typ = "DOUBLE"
		}
		defs[i] = fmt.Sprintf("%q %s", name, typ)
	}
	ddl := fmt.Sprintf("CREATE OR REPLACE TABLE %q (%s)", table, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	stmt, err := db.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, row := range data {
		args := make([]any, len(header))
		for i := range header {
			var cell string
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if cell == "" {
				args[i] = nil
				continue
			}
			if numeric[i] {
				v, _ := strconv.ParseFloat(cell, 64)
				args[i] = v
			} else {
				args[i] = cell
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("insert row: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

func sniffNumericColumns(header []string, data [][]string) []bool {
	numeric := make([]bool, len(header))
	for i := range header {
		sawValue := false
		allNumeric := true
		for _, row := range data {
			if i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			sawValue = true
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allNumeric = false
				break
			}
		}
		numeric[i] = sawValue && allNumeric
	}
	return numeric
}
