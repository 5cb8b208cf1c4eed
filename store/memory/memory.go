// Package memory keeps research briefs in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

// HistoryStore is an in-memory brief history. It is safe for concurrent use.
type HistoryStore struct {
	mu     sync.RWMutex
	briefs map[string][]research.FinalBrief
}

// NewHistoryStore creates an empty store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{briefs: make(map[string][]research.FinalBrief)}
}

// SaveBrief appends brief to the user's history.
func (s *HistoryStore) SaveBrief(_ context.Context, userID string, brief research.FinalBrief) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.briefs[userID] = append(s.briefs[userID], brief)
	return nil
}

// GetBriefsForUser returns a copy of the user's briefs in insertion order.
func (s *HistoryStore) GetBriefsForUser(_ context.Context, userID string) ([]research.FinalBrief, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.briefs[userID]), nil
}

func (s *HistoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.briefs, userID)
	return nil
}

func (s *HistoryStore) Close() error {
	return nil
}
