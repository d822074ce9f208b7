// Package state tracks which alert identities currently have an active
// notification episode. The store is the only shared mutable state between
// concurrently evaluated rules; each identity key is written by at most one
// rule, but map access itself must be serialized.
package state

import "sync"

// Store maps an alert identity key (symbol-interval-indicator) to a boolean
// episode flag. True means a threshold-crossing notification has been sent and
// the value has not yet returned to the normal range. The store starts empty;
// episodes do not survive a restart.
type Store struct {
	mu       sync.RWMutex
	episodes map[string]bool
}

// NewStore creates an empty episode store.
func NewStore() *Store {
	return &Store{episodes: make(map[string]bool)}
}

// Active reports whether the identity currently has an active episode.
// Unknown keys are inactive.
func (s *Store) Active(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.episodes[key]
}

// SetActive updates the episode flag for the identity.
func (s *Store) SetActive(key string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.episodes[key] = active
}

// ActiveKeys returns the identities with an active episode, for status reporting.
func (s *Store) ActiveKeys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k, v := range s.episodes {
		if v {
			keys = append(keys, k)
		}
	}
	return keys
}
