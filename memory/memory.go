// Package memory implements flow.SlotStore in process memory. Saved data
// lives as long as the Store value.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/meikuraledutech/flow"
)

// Store is an in-memory flow.SlotStore.
type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

// Save overwrites key with a copy of doc.
func (s *Store) Save(_ context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = slices.Clone(doc)
	return nil
}

// Load returns a copy of the bytes under key, or flow.ErrSlotEmpty.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.slots[key]
	if !ok {
		return nil, flow.ErrSlotEmpty
	}
	return slices.Clone(doc), nil
}

// Delete removes key. No error if the key doesn't exist.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
	return nil
}
