package storage

import (
	"context"
	"fmt"
	"sync"

	"docchat/internal/document"
)

// MemoryStore is an in-memory DocumentStore for tests and ephemeral runs.
// Records are copied on the way in and out so callers cannot alias the
// stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*document.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*document.Record)}
}

// Store saves the record for a session, replacing any existing one.
func (s *MemoryStore) Store(_ context.Context, sessionID string, rec *document.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record for session %s", sessionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sessionID] = copyRecord(rec)
	return nil
}

// Get returns the session's record, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*document.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// Clear removes the session's record. Clearing an absent session is not an
// error.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

func copyRecord(rec *document.Record) *document.Record {
	cp := *rec
	cp.Chunks = make([]document.Chunk, len(rec.Chunks))
	for i, c := range rec.Chunks {
		cc := c
		cc.Pages = append([]int(nil), c.Pages...)
		cc.KeyEntities = append([]string(nil), c.KeyEntities...)
		cp.Chunks[i] = cc
	}
	return &cp
}
