package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcore/pkg/domain"
)

func TestSetAndGetStock(t *testing.T) {
	inv := New()
	require.NoError(t, inv.SetStock("p1", 10))
	q, err := inv.GetStock("p1")
	require.NoError(t, err)
	assert.Equal(t, 10, q)

	require.NoError(t, inv.SetStock("p1", 0))
	q, _ = inv.GetStock("p1")
	assert.Equal(t, 0, q)

	require.ErrorIs(t, inv.SetStock("p1", -1), domain.ErrInvalidArgument)
	require.ErrorIs(t, inv.SetStock("", 1), domain.ErrInvalidArgument)

	_, err = inv.GetStock("missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStockNeverGoesNegative(t *testing.T) {
	inv := New()
	require.NoError(t, inv.SetStock("p1", 5))

	q, err := inv.AdjustStock("p1", -3)
	require.NoError(t, err)
	assert.Equal(t, 2, q)

	q, err = inv.AdjustStock("p1", -3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, q)
	got, _ := inv.GetStock("p1")
	assert.Equal(t, 2, got, "overdraw leaves quantity unchanged")

	q, err = inv.AdjustStock("p1", 8)
	require.NoError(t, err)
	assert.Equal(t, 10, q)

	q, err = inv.AdjustStock("p1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, q)

	_, err = inv.AdjustStock("missing", 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntriesExportImport(t *testing.T) {
	inv := New()
	require.NoError(t, inv.SetStock("b", 2))
	require.NoError(t, inv.SetStock("a", 1))

	assert.Equal(t, []domain.StockEntry{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}}, inv.Entries())

	exported := inv.Export()
	exported["a"] = 99
	q, _ := inv.GetStock("a")
	assert.Equal(t, 1, q, "export is a copy")

	other := New()
	require.NoError(t, other.Import(inv.Export()))
	assert.Equal(t, inv.Export(), other.Export())

	require.ErrorIs(t, other.Import(map[string]int{"x": -1}), domain.ErrInvalidArgument)
	assert.Equal(t, inv.Export(), other.Export())

	assert.True(t, other.Remove("a"))
	assert.False(t, other.Remove("a"))
}
