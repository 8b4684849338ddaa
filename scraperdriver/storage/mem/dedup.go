// Package mem implements the default in-process duplicate-key store,
// adapted from the teacher's storage/mem/visit.go (an in-memory
// "visited" set for colly's revisit filter) repurposed to back
// scraperdriver.WithDuplicateCheck.
package mem

import "sync"

// Store is a process-local set of seen dedup keys.
type Store struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// New builds an empty Store.
func New() *Store {
	return &Store{seen: map[string]struct{}{}}
}

// Check reports whether key has not been seen before, recording it as
// seen either way. Safe for concurrent use, matching the
// func(key string) bool shape scraperdriver.WithDuplicateCheck expects.
func (s *Store) Check(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len reports how many distinct keys have been recorded.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
