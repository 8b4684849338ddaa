// Package badger persists the duplicate-key set in a github.com/dgraph-io/badger/v3
// embedded key-value store, adapted from the teacher's storage/badger/visit.go
// (colly's on-disk revisit filter) repurposed to back
// scraperdriver.WithDuplicateCheck across process restarts.
package badger

import (
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
)

var present = []byte{1}

// Store persists seen dedup keys to a badger database on disk.
type Store struct {
	db *badgerdb.DB
}

// Open opens (creating if necessary) a badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: opening %s: %w", dir, err)
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
	var notSeen bool

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			notSeen = false
			return nil
		}
		if err != badgerdb.ErrKeyNotFound {
			return err
		}
		notSeen = true
		return txn.Set([]byte(key), present)
	})
	if err != nil {
		// A storage error is treated as "not a duplicate" so the run
		// fails open rather than silently dropping requests.
		return true
	}
	return notSeen
}
