// Package core orchestrates the catalog components behind a single
// service facade: load and save through a persistence gateway, keep the
// derived search index in step with the catalog, and report every
// operation to the configured logger, metrics recorder and tracer.
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalogcore/internal/catalog"
	"catalogcore/internal/infra/persistence/memory"
	"catalogcore/internal/inventory"
	"catalogcore/internal/recommend"
	"catalogcore/internal/search"
	"catalogcore/internal/supply"
	"catalogcore/pkg/domain"
)

var (
	errNegativeStock = errors.New("initial stock must be non-negative")
	errEmptyOrder    = errors.New("order must contain at least one line")
)

// Service owns one instance of every component. All methods are safe for
// concurrent use; calls are serialized by a single lock.
type Service struct {
	mu        sync.Mutex
	gateway   domain.Gateway
	catalog   *catalog.Catalog
	inventory *inventory.Inventory
	search    *search.Index
	recs      *recommend.Graph
	supply    *supply.Chain

	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	clock   Clock
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetricsRecorder sets the metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock overrides the clock used for latency measurement.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewService returns an empty service persisting through gateway.
func NewService(gateway domain.Gateway, opts ...Option) *Service {
	if gateway == nil {
		gateway = memory.NewStore()
	}
	s := &Service{
		gateway:   gateway,
		catalog:   catalog.New(),
		inventory: inventory.New(),
		search:    search.New(),
		recs:      recommend.New(),
		supply:    supply.New(),
		logger:    noopLogger{},
		metrics:   noopMetrics{},
		tracer:    noopTracer{},
		clock:     ClockFunc(time.Now),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService returns a service backed by an in-memory gateway.
func NewInMemoryService(opts ...Option) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Gateway returns the persistence gateway.
func (s *Service) Gateway() domain.Gateway { return s.gateway }

// Close releases the gateway.
func (s *Service) Close() error { return s.gateway.Close() }

func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.clock.Now()
	s.mu.Lock()
	err := fn(ctx)
	s.mu.Unlock()
	s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(start))
	span.End(err)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStorageFailure):
		s.logger.Error("operation failed", "operation", op, "error", err)
	default:
		s.logger.Debug("operation rejected", "operation", op, "error", err)
	}
	return err
}

// Load replaces the in-memory state with the gateway's snapshot and
// rebuilds the search index. A snapshot that violates component invariants
// is a storage failure and leaves the current state untouched.
func (s *Service) Load(ctx context.Context) error {
	return s.run(ctx, "load", func(ctx context.Context) error {
		snap, err := s.gateway.Load(ctx)
		if err != nil {
			return err
		}
		cat, inv, recs, sup := catalog.New(), inventory.New(), recommend.New(), supply.New()
		if err := cat.Import(snap.Products); err != nil {
			return domain.StorageFailure("service.load products", err)
		}
		if err := inv.Import(snap.Inventory); err != nil {
			return domain.StorageFailure("service.load inventory", err)
		}
		if err := recs.Import(snap.Edges); err != nil {
			return domain.StorageFailure("service.load recommendations", err)
		}
		if err := sup.Import(snap.Suppliers, snap.Links); err != nil {
			return domain.StorageFailure("service.load supply_chain", err)
		}
		idx := search.New()
		idx.Rebuild(cat.List())
		s.catalog, s.inventory, s.recs, s.supply, s.search = cat, inv, recs, sup, idx
		s.logger.Info("catalog loaded",
			"products", cat.Len(),
			"stock_entries", len(snap.Inventory),
			"edges", len(snap.Edges),
			"suppliers", len(snap.Suppliers),
		)
		return nil
	})
}

// Save writes the authoritative components through the gateway.
func (s *Service) Save(ctx context.Context) error {
	return s.run(ctx, "save", func(ctx context.Context) error {
		snap := s.snapshotLocked()
		if err := s.gateway.Save(ctx, snap); err != nil {
			return err
		}
		s.logger.Info("catalog saved", "products", len(snap.Products), "edges", len(snap.Edges))
		return nil
	})
}

// Snapshot returns the current authoritative state.
func (s *Service) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		Products:  s.catalog.List(),
		Inventory: s.inventory.Export(),
		Edges:     s.recs.Edges(),
		Suppliers: s.supply.ListSuppliers(),
		Links:     s.supply.Links(),
	}
}

// AddProduct inserts product with initialStock units on hand and indexes
// its name. Nothing changes unless every step can succeed.
func (s *Service) AddProduct(ctx context.Context, product domain.Product, initialStock int) (domain.Product, error) {
	var added domain.Product
	err := s.run(ctx, "add_product", func(context.Context) error {
		if initialStock < 0 {
			return domain.InvalidArgument("service.add_product", domain.EntityStock, product.ID, errNegativeStock)
		}
		var err error
		added, err = s.catalog.Add(product)
		if err != nil {
			return err
		}
		if err := s.inventory.SetStock(added.ID, initialStock); err != nil {
			_, _ = s.catalog.Remove(added.ID)
			return err
		}
		s.search.Insert(added.Name, added.ID)
		return nil
	})
	return added, err
}

// UpdateProduct merges update into the product and re-indexes a renamed product.
func (s *Service) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (domain.Product, error) {
	var updated domain.Product
	err := s.run(ctx, "update_product", func(context.Context) error {
		before, err := s.catalog.Get(id)
		if err != nil {
			return err
		}
		updated, err = s.catalog.Update(id, update)
		if err != nil {
			return err
		}
		if search.Normalize(before.Name) != search.Normalize(updated.Name) {
			s.search.Remove(before.Name, id)
			s.search.Insert(updated.Name, id)
		}
		return nil
	})
	return updated, err
}

// RemoveProduct deletes the product together with its stock entry and
// search entry. Co-purchase edges and supply links are kept.
func (s *Service) RemoveProduct(ctx context.Context, id string) (domain.Product, error) {
	var removed domain.Product
	err := s.run(ctx, "remove_product", func(context.Context) error {
		var err error
		removed, err = s.catalog.Remove(id)
		if err != nil {
			return err
		}
		s.inventory.Remove(id)
		s.search.Remove(removed.Name, id)
		return nil
	})
	return removed, err
}

// GetProduct returns the product with id.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := s.run(ctx, "get_product", func(context.Context) error {
		var err error
		p, err = s.catalog.Get(id)
		return err
	})
	return p, err
}

// ListProducts returns every product in insertion order.
func (s *Service) ListProducts(ctx context.Context) []domain.Product {
	var out []domain.Product
	_ = s.run(ctx, "list_products", func(context.Context) error {
		out = s.catalog.List()
		return nil
	})
	return out
}

// SearchProducts returns products whose normalized name starts with
// prefix, ordered by id. Index entries without a catalog record are skipped.
func (s *Service) SearchProducts(ctx context.Context, prefix string) []domain.Product {
	out := []domain.Product{}
	_ = s.run(ctx, "search_products", func(context.Context) error {
		out = s.resolveLocked(s.search.SearchByPrefix(prefix))
		return nil
	})
	return out
}

func (s *Service) resolveLocked(ids []string) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := s.catalog.Get(id); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// GetStock returns the quantity on hand for id.
func (s *Service) GetStock(ctx context.Context, id string) (int, error) {
	var q int
	err := s.run(ctx, "get_stock", func(context.Context) error {
		var err error
		q, err = s.inventory.GetStock(id)
		return err
	})
	return q, err
}

// ListStock returns every stock entry ordered by product id.
func (s *Service) ListStock(ctx context.Context) []domain.StockEntry {
	var out []domain.StockEntry
	_ = s.run(ctx, "list_stock", func(context.Context) error {
		out = s.inventory.Entries()
		return nil
	})
	return out
}

// SetStock overwrites the quantity for a catalog product.
func (s *Service) SetStock(ctx context.Context, id string, quantity int) error {
	return s.run(ctx, "set_stock", func(context.Context) error {
		if id != "" && !s.catalog.Has(id) {
			return domain.NotFound("service.set_stock", domain.EntityProduct, id)
		}
		return s.inventory.SetStock(id, quantity)
	})
}

// AdjustStock applies delta to an existing stock entry and returns the
// new quantity.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var q int
	err := s.run(ctx, "adjust_stock", func(context.Context) error {
		var err error
		q, err = s.inventory.AdjustStock(id, delta)
		return err
	})
	return q, err
}

// RecordOrder strengthens the co-purchase edges between ids.
func (s *Service) RecordOrder(ctx context.Context, ids []string) error {
	return s.run(ctx, "record_order", func(context.Context) error {
		return s.recs.RecordPurchase(ids)
	})
}

// PlaceOrder withdraws stock for every line and records the distinct
// product ids as one purchase. Lines for the same product are summed. If
// any line cannot be satisfied nothing changes.
func (s *Service) PlaceOrder(ctx context.Context, lines []domain.OrderLine) ([]domain.StockEntry, error) {
	var remaining []domain.StockEntry
	err := s.run(ctx, "place_order", func(context.Context) error {
		if len(lines) == 0 {
			return domain.InvalidArgument("service.place_order", "", "", errEmptyOrder)
		}
		ids := make([]string, 0, len(lines))
		want := make(map[string]int, len(lines))
		for _, line := range lines {
			if err := domain.ValidateOrderLine(line); err != nil {
				return domain.InvalidArgument("service.place_order", domain.EntityProduct, line.ProductID, err)
			}
			if _, seen := want[line.ProductID]; !seen {
				ids = append(ids, line.ProductID)
			}
			want[line.ProductID] += line.Quantity
		}
		for _, id := range ids {
			have, err := s.inventory.GetStock(id)
			if err != nil {
				return err
			}
			if have < want[id] {
				return domain.InsufficientStock("service.place_order", id, have, want[id])
			}
		}
		remaining = make([]domain.StockEntry, 0, len(ids))
		for _, id := range ids {
			q, err := s.inventory.AdjustStock(id, -want[id])
			if err != nil {
				return err
			}
			remaining = append(remaining, domain.StockEntry{ProductID: id, Quantity: q})
		}
		return s.recs.RecordPurchase(ids)
	})
	return remaining, err
}

// Recommendations returns up to k products most often bought with id.
// Neighbours missing from the catalog are skipped.
func (s *Service) Recommendations(ctx context.Context, id string, k int) []domain.Product {
	out := []domain.Product{}
	_ = s.run(ctx, "recommendations", func(context.Context) error {
		out = s.resolveLocked(s.recs.TopRecommendations(id, k))
		return nil
	})
	return out
}

// AddSupplier registers a supplier.
func (s *Service) AddSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	var added domain.Supplier
	err := s.run(ctx, "add_supplier", func(context.Context) error {
		var err error
		added, err = s.supply.AddSupplier(supplier)
		return err
	})
	return added, err
}

// LinkSupplier records that supplierID provides productID. Linking a
// product that is not in the catalog is allowed but logged.
func (s *Service) LinkSupplier(ctx context.Context, supplierID, productID string) error {
	return s.run(ctx, "link_supplier", func(context.Context) error {
		if err := s.supply.LinkSupplierToProduct(supplierID, productID); err != nil {
			return err
		}
		if !s.catalog.Has(productID) {
			s.logger.Warn("supplier linked to product missing from catalog", "supplier_id", supplierID, "product_id", productID)
		}
		return nil
	})
}

// SuppliersForProduct returns the registered suppliers of productID ordered by id.
func (s *Service) SuppliersForProduct(ctx context.Context, productID string) []domain.Supplier {
	var out []domain.Supplier
	_ = s.run(ctx, "suppliers_for_product", func(context.Context) error {
		out = s.supply.SupplierDetailsForProduct(productID)
		return nil
	})
	return out
}

// ProductsForSupplier returns the product ids linked to supplierID, sorted.
func (s *Service) ProductsForSupplier(ctx context.Context, supplierID string) []string {
	var out []string
	_ = s.run(ctx, "products_for_supplier", func(context.Context) error {
		out = s.supply.ProductsForSupplier(supplierID)
		return nil
	})
	return out
}

// ListSuppliers returns suppliers in registration order.
func (s *Service) ListSuppliers(ctx context.Context) []domain.Supplier {
	var out []domain.Supplier
	_ = s.run(ctx, "list_suppliers", func(context.Context) error {
		out = s.supply.ListSuppliers()
		return nil
	})
	return out
}
