// Package store persists encoded programs. The wire-format CBOR
// artifact is the only state this project persists; the store keys it
// by name in a single SQLite table.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/chazu/stencil/pkg/bytecode"
)

// ErrProgramNotFound indicates the requested program doesn't exist.
var ErrProgramNotFound = errors.New("program not found")

// Store is a SQLite-backed collection of encoded programs.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) a program store at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		name    TEXT PRIMARY KEY,
		encoded BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save serializes the program and upserts it under name.
func (s *Store) Save(name string, p *bytecode.Program) error {
	data, err := bytecode.MarshalProgram(p)
	if err != nil {
		return fmt.Errorf("encoding program %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO programs (name, encoded) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET encoded = excluded.encoded`, name, data)
	if err != nil {
		return fmt.Errorf("saving program %q: %w", name, err)
	}
	return nil
}

// Load fetches, decodes, and validates the program stored under name.
func (s *Store) Load(name string) (*bytecode.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow(`SELECT encoded FROM programs WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrProgramNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading program %q: %w", name, err)
	}
	return bytecode.UnmarshalProgram(data)
}

// Names returns the names of all stored programs, sorted.
func (s *Store) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT name FROM programs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("listing programs: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
