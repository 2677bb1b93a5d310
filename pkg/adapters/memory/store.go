package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/hyperway/pkg/domain"
	"github.com/aretw0/hyperway/pkg/ports"
)

var _ ports.SnapshotStore = (*Store)(nil)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Snapshot),
	}
}

// Save persists a copy of the snapshot.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[snap.SessionID] = clone(snap)
	return nil
}

// Load retrieves a copy of the snapshot so callers can't mutate stored data.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

func clone(snap *domain.Snapshot) *domain.Snapshot {
	cp := *snap
	cp.History = make([]domain.HistoryEntry, len(snap.History))
	for i, entry := range snap.History {
		cp.History[i] = domain.HistoryEntry{URL: entry.URL, State: maps.Clone(entry.State)}
	}
	return &cp
}
