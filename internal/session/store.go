package session

import "sync"

// Store persists the session identifier across runs. Implementations hold at
// most one id; absence is reported via ok=false, never as an error.
type Store interface {
	Get() (id string, ok bool, err error)
	Set(id string) error
	Clear() error
}

// MemoryStore is a non-durable Store for tests and one-off runs.
type MemoryStore struct {
	mu sync.Mutex
	id string
	ok bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.ok, nil
}

func (s *MemoryStore) Set(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.ok = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.ok = false
	return nil
}
