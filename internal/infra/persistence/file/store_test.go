package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcore/pkg/domain"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Products: []domain.Product{
			{ID: "p1", Name: "Apple iPhone", Description: "Smartphone", Price: 999.99, Category: "phones"},
			{ID: "p2", Name: "Apple Watch", Description: "Wearable", Price: 399, Category: "wearables"},
		},
		Inventory: map[string]int{"p1": 10, "p2": 5},
		Edges:     []domain.CoPurchaseEdge{{A: "p1", B: "p2", Weight: 1}},
		Suppliers: []domain.Supplier{{ID: "s1", Name: "BestSupplier", ContactInfo: "contact"}},
		Links:     []domain.SupplyLink{{SupplierID: "s1", ProductID: "p1"}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	in := sampleSnapshot()
	require.NoError(t, store.Save(ctx, in))

	for _, name := range []string{"products.json", "inventory.json", "recommendations.json", "supply_chain.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	assert.Empty(t, leftovers)

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	out, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	require.NoError(t, reopened.Close())
}

func TestFileStoreLoadMissingDirIsEmpty(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "data"))
	require.NoError(t, err)
	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
}

func TestFileStoreLoadCorruptFileIsStorageFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte("{not json"), 0o600))
	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageFailure)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), nil, 0o600))
	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrStorageFailure, "zero-byte file is unreadable, not absent")
}

func TestFileStoreOverwriteReplacesPreviousSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	smaller := domain.Snapshot{Products: []domain.Product{{ID: "p9", Name: "Only", Category: "misc"}}}
	require.NoError(t, store.Save(ctx, smaller))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, smaller.Products, out.Products)
	assert.Empty(t, out.Inventory)
	assert.Empty(t, out.Edges)
}

func TestFileStoreSaveHonoursCancelledContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Save(ctx, sampleSnapshot())
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, domain.ErrStorageFailure)
	_, err = store.Load(ctx)
	require.ErrorIs(t, err, domain.ErrStorageFailure)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "nothing written when cancelled")
}
