package domain

import "context"

// Snapshot is the canonical persisted representation of every authoritative
// component. The search index is derived and never part of it.
type Snapshot struct {
	Products  []Product        `json:"products"`
	Inventory map[string]int   `json:"inventory"`
	Edges     []CoPurchaseEdge `json:"recommendations"`
	Suppliers []Supplier       `json:"suppliers"`
	Links     []SupplyLink     `json:"links"`
}

// IsEmpty reports whether the snapshot carries no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Products) == 0 && len(s.Inventory) == 0 && len(s.Edges) == 0 &&
		len(s.Suppliers) == 0 && len(s.Links) == 0
}

// Gateway persists and restores snapshots. Load treats a missing store as
// an empty snapshot. Every failure, a cancelled context included, is an
// ErrStorageFailure wrapping its cause. Save must never leave a store that
// fails to load.
type Gateway interface {
	Save(ctx context.Context, snapshot Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}
