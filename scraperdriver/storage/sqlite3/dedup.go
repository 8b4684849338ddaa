// Package sqlite3 persists the duplicate-key set in a SQLite database via
// github.com/mattn/go-sqlite3, adapted from the teacher's
// storage/sqlite3/visit.go (colly's on-disk revisit filter) repurposed to
// back scraperdriver.WithDuplicateCheck.
package sqlite3

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists seen dedup keys to a SQLite database on disk.
type Store struct {
	db *sql.DB
}

// Open opens (creating the schema if necessary) a SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite3: opening %s: %w", path, err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS dedup_keys (
		key TEXT PRIMARY KEY
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite3: creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Check reports whether key has not been seen before, recording it as
// seen either way.
func (s *Store) Check(key string) bool {
	_, err := s.db.Exec(`INSERT INTO dedup_keys (key) VALUES (?)`, key)
	if err != nil {
		// A uniqueness violation means the key was already present.
		return false
	}
	return true
}
