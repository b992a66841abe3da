package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindsMatchWithErrorsIs(t *testing.T) {
	err := NotFound("catalog.get", EntityProduct, "p1")
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, `catalog.get: product "p1": not found`, err.Error())

	wrapped := fmt.Errorf("outer: %w", DuplicateKey("catalog.add", EntityProduct, "p1"))
	require.ErrorIs(t, wrapped, ErrDuplicateKey)

	var de *Error
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "p1", de.ID)
}

func TestStorageFailureKeepsCauseAndDoesNotDoubleWrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := StorageFailure("file.load", cause)
	require.ErrorIs(t, err, ErrStorageFailure)
	require.ErrorIs(t, err, cause)

	again := StorageFailure("service.load", err)
	assert.Same(t, err, again)
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock("inventory.adjust", "p1", 2, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "have 2, need 5")
}

func TestValidateProduct(t *testing.T) {
	require.NoError(t, ValidateProduct(Product{ID: "p1", Name: "Apple iPhone", Price: 0}))

	err := ValidateProduct(Product{ID: "p1", Price: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "price must be >= 0")

	err = ValidateProduct(Product{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product_id is required")
}

func TestValidateProductRejectsNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		err := ValidateProduct(Product{ID: "p1", Name: "x", Price: price})
		require.Error(t, err, price)
		assert.Contains(t, err.Error(), "price must be a finite number")
	}
}

func TestValidateSupplierAndOrderLine(t *testing.T) {
	require.NoError(t, ValidateSupplier(Supplier{ID: "s1", Name: "Best"}))
	require.Error(t, ValidateSupplier(Supplier{ID: "s1"}))

	require.NoError(t, ValidateOrderLine(OrderLine{ProductID: "p1", Quantity: 1}))
	err := ValidateOrderLine(OrderLine{ProductID: "p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity must be >= 1")
}

func TestProductNormalizedAndUpdate(t *testing.T) {
	p := Product{ID: " p1 ", Name: " Watch ", Price: 10}.Normalized()
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Watch", p.Name)
	assert.Equal(t, DefaultCategory, p.Category)

	name := "Smart Watch"
	price := 12.5
	u := ProductUpdate{Name: &name, Price: &price}
	require.False(t, u.IsEmpty())
	got := u.Apply(p)
	assert.Equal(t, "Smart Watch", got.Name)
	assert.InDelta(t, 12.5, got.Price, 1e-9)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, ProductUpdate{}.IsEmpty())
}

func TestSnapshotIsEmpty(t *testing.T) {
	assert.True(t, Snapshot{}.IsEmpty())
	assert.True(t, Snapshot{Inventory: map[string]int{}}.IsEmpty())
	assert.False(t, Snapshot{Links: []SupplyLink{{SupplierID: "s", ProductID: "p"}}}.IsEmpty())
}
