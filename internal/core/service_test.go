package core

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogcore/internal/infra/persistence/memory"
	"catalogcore/pkg/domain"
)

func seededService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	ctx := context.Background()
	svc := NewInMemoryService(opts...)
	for _, p := range []struct {
		product domain.Product
		stock   int
	}{
		{domain.Product{ID: "p1", Name: "Apple iPhone", Description: "Smartphone", Price: 999.99, Category: "phones"}, 10},
		{domain.Product{ID: "p2", Name: "Apple Watch", Price: 399, Category: "wearables"}, 5},
		{domain.Product{ID: "p3", Name: "Samsung Galaxy", Price: 899}, 0},
	} {
		_, err := svc.AddProduct(ctx, p.product, p.stock)
		require.NoError(t, err)
	}
	return svc
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestAddProductIndexesAndStocks(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	p, err := svc.GetProduct(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, p.Category)

	q, err := svc.GetStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, q)

	assert.Equal(t, []string{"p1", "p2"}, ids(svc.SearchProducts(ctx, "  APPLE")))
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(svc.SearchProducts(ctx, "")))
	assert.Empty(t, svc.SearchProducts(ctx, "nokia"))
	assert.NotNil(t, svc.SearchProducts(ctx, "nokia"))
}

func TestAddProductFailuresHaveNoEffect(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	_, err := svc.AddProduct(ctx, domain.Product{ID: "p1", Name: "Dup"}, 1)
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	_, err = svc.AddProduct(ctx, domain.Product{ID: "p9", Name: "Negative"}, -1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.AddProduct(ctx, domain.Product{ID: "p9", Name: "Cheap", Price: -2}, 1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.GetProduct(ctx, "p9")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetStock(ctx, "p9")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, svc.SearchProducts(ctx, "negative"))
	assert.Empty(t, svc.SearchProducts(ctx, "cheap"))
	assert.Len(t, svc.ListProducts(ctx), 3)
}

func TestUpdateProductReindexesRename(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	name := "Pixel Watch"
	updated, err := svc.UpdateProduct(ctx, "p2", domain.ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Pixel Watch", updated.Name)
	assert.Equal(t, "wearables", updated.Category)

	assert.Equal(t, []string{"p1"}, ids(svc.SearchProducts(ctx, "apple")))
	assert.Equal(t, []string{"p2"}, ids(svc.SearchProducts(ctx, "pixel")))

	empty := ""
	_, err = svc.UpdateProduct(ctx, "p2", domain.ProductUpdate{Name: &empty})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	p, err := svc.GetProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Pixel Watch", p.Name)

	_, err = svc.UpdateProduct(ctx, "missing", domain.ProductUpdate{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveProductCascadesToStockAndSearchOnly(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)
	require.NoError(t, svc.RecordOrder(ctx, []string{"p1", "p2"}))
	_, err := svc.AddSupplier(ctx, domain.Supplier{ID: "s1", Name: "BestSupplier"})
	require.NoError(t, err)
	require.NoError(t, svc.LinkSupplier(ctx, "s1", "p2"))

	removed, err := svc.RemoveProduct(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Apple Watch", removed.Name)

	_, err = svc.GetStock(ctx, "p2")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"p1"}, ids(svc.SearchProducts(ctx, "apple")))

	assert.Empty(t, svc.Recommendations(ctx, "p1", 5), "dangling neighbour is skipped")
	assert.Equal(t, []string{"p2"}, svc.ProductsForSupplier(ctx, "s1"), "supply link is kept")

	_, err = svc.RemoveProduct(ctx, "p2")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockOperations(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	require.NoError(t, svc.SetStock(ctx, "p3", 7))
	q, err := svc.AdjustStock(ctx, "p3", -2)
	require.NoError(t, err)
	assert.Equal(t, 5, q)

	_, err = svc.AdjustStock(ctx, "p3", -6)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	q, _ = svc.GetStock(ctx, "p3")
	assert.Equal(t, 5, q)

	require.ErrorIs(t, svc.SetStock(ctx, "ghost", 1), domain.ErrNotFound)
	require.ErrorIs(t, svc.SetStock(ctx, "p3", -1), domain.ErrInvalidArgument)
	require.ErrorIs(t, svc.SetStock(ctx, "", 1), domain.ErrInvalidArgument)

	entries := svc.ListStock(ctx)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.StockEntry{ProductID: "p1", Quantity: 10}, entries[0])
}

func TestRecordOrderAndRecommendations(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	require.NoError(t, svc.RecordOrder(ctx, []string{"p1", "p2"}))
	require.NoError(t, svc.RecordOrder(ctx, []string{"p1", "p2", "p3"}))

	assert.Equal(t, []string{"p2"}, ids(svc.Recommendations(ctx, "p1", 1)))
	assert.Equal(t, []string{"p2", "p3"}, ids(svc.Recommendations(ctx, "p1", 5)))
	assert.Empty(t, svc.Recommendations(ctx, "p1", 0))
	assert.Empty(t, svc.Recommendations(ctx, "unknown", 3))

	require.ErrorIs(t, svc.RecordOrder(ctx, nil), domain.ErrInvalidArgument)
	require.ErrorIs(t, svc.RecordOrder(ctx, []string{"p1", ""}), domain.ErrInvalidArgument)
	assert.Equal(t, 2, svc.recs.Weight("p1", "p2"))
}

func TestPlaceOrderIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	svc := seededService(t)

	_, err := svc.PlaceOrder(ctx, []domain.OrderLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p3", Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	q, _ := svc.GetStock(ctx, "p1")
	assert.Equal(t, 10, q)
	assert.Zero(t, svc.recs.Weight("p1", "p3"))

	_, err = svc.PlaceOrder(ctx, []domain.OrderLine{{ProductID: "p1", Quantity: 1}, {ProductID: "ghost", Quantity: 1}})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.PlaceOrder(ctx, []domain.OrderLine{{ProductID: "p1", Quantity: 0}})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.PlaceOrder(ctx, nil)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	remaining, err := svc.PlaceOrder(ctx, []domain.OrderLine{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 5},
		{ProductID: "p1", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.StockEntry{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 0}}, remaining)
	assert.Equal(t, 1, svc.recs.Weight("p1", "p2"))

	_, err = svc.PlaceOrder(ctx, []domain.OrderLine{{ProductID: "p1", Quantity: 2}, {ProductID: "p1", Quantity: 2}})
	require.ErrorIs(t, err, domain.ErrInsufficientStock, "summed lines exceed stock")
}

func TestSupplierOperations(t *testing.T) {
	ctx := context.Background()
	logs := &captureLogger{}
	svc := seededService(t, WithLogger(logs))

	_, err := svc.AddSupplier(ctx, domain.Supplier{ID: "s1", Name: "BestSupplier", ContactInfo: "contact"})
	require.NoError(t, err)
	_, err = svc.AddSupplier(ctx, domain.Supplier{ID: "s1", Name: "Again"})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)
	_, err = svc.AddSupplier(ctx, domain.Supplier{ID: "s2"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	require.NoError(t, svc.LinkSupplier(ctx, "s1", "p1"))
	require.NoError(t, svc.LinkSupplier(ctx, "s1", "p1"))
	assert.False(t, logs.has("warn", "supplier linked to product missing from catalog"))

	require.NoError(t, svc.LinkSupplier(ctx, "s1", "future-product"))
	assert.True(t, logs.has("warn", "supplier linked to product missing from catalog"))

	require.ErrorIs(t, svc.LinkSupplier(ctx, "nobody", "p1"), domain.ErrNotFound)

	assert.Equal(t, []string{"future-product", "p1"}, svc.ProductsForSupplier(ctx, "s1"))
	suppliers := svc.SuppliersForProduct(ctx, "p1")
	require.Len(t, suppliers, 1)
	assert.Equal(t, "BestSupplier", suppliers[0].Name)
	assert.Empty(t, svc.SuppliersForProduct(ctx, "p2"))
	assert.Len(t, svc.ListSuppliers(ctx), 1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	gateway := memory.NewStore()
	svc := NewService(gateway)
	_, err := svc.AddProduct(ctx, domain.Product{ID: "p1", Name: "Apple iPhone", Price: 999.99, Category: "phones"}, 10)
	require.NoError(t, err)
	_, err = svc.AddProduct(ctx, domain.Product{ID: "p2", Name: "Apple Watch", Price: 399}, 5)
	require.NoError(t, err)
	require.NoError(t, svc.RecordOrder(ctx, []string{"p1", "p2"}))
	_, err = svc.AddSupplier(ctx, domain.Supplier{ID: "s1", Name: "BestSupplier"})
	require.NoError(t, err)
	require.NoError(t, svc.LinkSupplier(ctx, "s1", "p1"))
	require.NoError(t, svc.Save(ctx))

	reloaded := NewService(gateway)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, svc.Snapshot(), reloaded.Snapshot())
	assert.Equal(t, []string{"p1", "p2"}, ids(reloaded.SearchProducts(ctx, "apple")), "search index rebuilt")
	assert.Equal(t, []string{"p2"}, ids(reloaded.Recommendations(ctx, "p1", 3)))
	require.NoError(t, svc.Close())
}

func TestLoadEmptyGateway(t *testing.T) {
	svc := NewInMemoryService()
	require.NoError(t, svc.Load(context.Background()))
	assert.True(t, svc.Snapshot().IsEmpty())
}

type stubGateway struct {
	snap    domain.Snapshot
	loadErr error
	saveErr error
}

func (g *stubGateway) Load(context.Context) (domain.Snapshot, error) { return g.snap, g.loadErr }
func (g *stubGateway) Save(context.Context, domain.Snapshot) error   { return g.saveErr }
func (g *stubGateway) Close() error                                   { return nil }

func TestLoadRejectsInconsistentSnapshotAndKeepsState(t *testing.T) {
	ctx := context.Background()
	cases := map[string]domain.Snapshot{
		"duplicate product": {Products: []domain.Product{{ID: "x", Name: "A"}, {ID: "x", Name: "B"}}},
		"negative stock":    {Inventory: map[string]int{"x": -1}},
		"self edge":         {Edges: []domain.CoPurchaseEdge{{A: "x", B: "x", Weight: 1}}},
		"unknown supplier":  {Links: []domain.SupplyLink{{SupplierID: "s", ProductID: "x"}}},
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			gw := &stubGateway{snap: snap}
			svc := NewService(gw)
			_, err := svc.AddProduct(ctx, domain.Product{ID: "keep", Name: "Keep me"}, 1)
			require.NoError(t, err)

			err = svc.Load(ctx)
			require.ErrorIs(t, err, domain.ErrStorageFailure)
			_, err = svc.GetProduct(ctx, "keep")
			require.NoError(t, err)
		})
	}
}

func TestGatewayErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	logs := &captureLogger{}
	boom := domain.StorageFailure("stub", errors.New("disk gone"))
	svc := NewService(&stubGateway{loadErr: boom, saveErr: boom}, WithLogger(logs))

	require.ErrorIs(t, svc.Load(ctx), domain.ErrStorageFailure)
	require.ErrorIs(t, svc.Save(ctx), domain.ErrStorageFailure)
	assert.True(t, logs.has("error", "operation failed"))
}

func TestNonFinitePriceIsRejectedAndStateStaysSaveable(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore())

	_, err := svc.AddProduct(ctx, domain.Product{ID: "p1", Name: "Widget", Price: math.Inf(1)}, 1)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.GetStock(ctx, "p1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddProduct(ctx, domain.Product{ID: "p1", Name: "Widget", Price: 2}, 1)
	require.NoError(t, err)
	inf := math.Inf(1)
	_, err = svc.UpdateProduct(ctx, "p1", domain.ProductUpdate{Price: &inf})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	require.NoError(t, svc.Save(ctx))
}
