// Package memory provides an in-process Gateway used for tests and
// ephemeral environments. Nothing survives the process.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"catalogcore/pkg/domain"
)

var _ domain.Gateway = (*Store)(nil)

// Store keeps a deep copy of the last saved snapshot.
type Store struct {
	mu    sync.RWMutex
	state domain.Snapshot
	saves int
}

// NewStore returns an empty in-memory gateway.
func NewStore() *Store { return &Store{} }

// Save replaces the held snapshot with a copy of snapshot.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return domain.StorageFailure("memory.save", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = cloneSnapshot(snapshot)
	s.saves++
	return nil
}

// Load returns a copy of the held snapshot.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, domain.StorageFailure("memory.load", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.state), nil
}

// Saves reports how many snapshots have been written.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func cloneSnapshot(in domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Products:  slices.Clone(in.Products),
		Inventory: maps.Clone(in.Inventory),
		Edges:     slices.Clone(in.Edges),
		Suppliers: slices.Clone(in.Suppliers),
		Links:     slices.Clone(in.Links),
	}
}
