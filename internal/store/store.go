// Package store owns the single-file tabular store holding the reservations
// and grouped-accounts tables. Readers take a per-call connection under a
// shared lock; reload rebuilds a fresh store file off to the side and swaps
// the handle under the exclusive lock so readers never observe a half-written
// store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog/log"
)

const (
	ReservationsTable    = "reservations"
	GroupedAccountsTable = "groupedaccounts"
)

type Store struct {
	mu   sync.RWMutex
	path string
	db   *sql.DB
}

// Open opens (or creates) the store file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	return &Store{path: path, db: db}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// TestConnection verifies the store file is reachable.
func (s *Store) TestConnection(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return fmt.Errorf("store is closed")
	}
	var one int
	return s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}

// conn acquires a dedicated connection under the read lock. The returned
// release func drops both the connection and the lock; queries must finish
// before calling it.
func (s *Store) conn(ctx context.Context) (*sql.Conn, func(), error) {
	s.mu.RLock()
	if s.db == nil {
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("store is closed")
	}
	c, err := s.db.Conn(ctx)
	if err != nil {
		s.mu.RUnlock()
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}
	return c, func() {
		if cerr := c.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("release store connection")
		}
		s.mu.RUnlock()
	}, nil
}

// swap replaces the live store file with the one at newPath. Runs under the
// exclusive lock: in-flight readers finish first, late readers see the new
// store.
func (s *Store) swap(newPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Warn().Err(err).Msg("closing previous store")
		}
		s.db = nil
	}
	if err := os.Rename(newPath, s.path); err != nil {
		return fmt.Errorf("swap store file: %w", err)
	}
	db, err := sql.Open("duckdb", s.path)
	if err != nil {
		return fmt.Errorf("reopen store %q: %w", s.path, err)
	}
	s.db = db
	return nil
}
