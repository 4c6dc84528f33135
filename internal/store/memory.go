package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and embedded callers that
// do not want filesystem state.
type MemoryStore struct {
	mu  sync.Mutex // guards rec/set
	op  sync.Mutex // advisory operation lock, separate so Load/Save work under Lock
	rec Record
	set bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return Record{}, ErrNotFound
	}
	return s.rec, nil
}

func (s *MemoryStore) Save(rec Record) error {
	s.mu.Lock()
	s.rec = rec
	s.set = true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.set = false
	s.rec = Record{}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Lock(_ context.Context) (func(), error) {
	s.op.Lock()
	return s.op.Unlock, nil
}
