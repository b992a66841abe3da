// Package supply models the supplier registry and the bipartite
// supplier/product network.
package supply

import (
	"errors"

	"catalogcore/internal/graph"
	"catalogcore/pkg/domain"
)

var errEmptyProductID = errors.New("product id must not be empty")

// Chain holds registered suppliers and their product links. Suppliers are
// the left side of the bipartite graph, products the right. Product ids
// are not checked against the catalog.
type Chain struct {
	suppliers map[string]domain.Supplier
	order     []string
	links     *graph.Bipartite
}

// New returns an empty supply chain.
func New() *Chain {
	return &Chain{
		suppliers: make(map[string]domain.Supplier),
		links:     graph.NewBipartite(),
	}
}

// AddSupplier registers a new supplier.
func (c *Chain) AddSupplier(s domain.Supplier) (domain.Supplier, error) {
	s = s.Normalized()
	if err := domain.ValidateSupplier(s); err != nil {
		return domain.Supplier{}, domain.InvalidArgument("supply.add_supplier", domain.EntitySupplier, s.ID, err)
	}
	if _, exists := c.suppliers[s.ID]; exists {
		return domain.Supplier{}, domain.DuplicateKey("supply.add_supplier", domain.EntitySupplier, s.ID)
	}
	c.suppliers[s.ID] = s
	c.order = append(c.order, s.ID)
	return s, nil
}

// GetSupplier returns a registered supplier.
func (c *Chain) GetSupplier(id string) (domain.Supplier, error) {
	s, ok := c.suppliers[id]
	if !ok {
		return domain.Supplier{}, domain.NotFound("supply.get_supplier", domain.EntitySupplier, id)
	}
	return s, nil
}

// LinkSupplierToProduct connects a registered supplier to a product id.
// Linking an existing pair again is a no-op.
func (c *Chain) LinkSupplierToProduct(supplierID, productID string) error {
	if _, ok := c.suppliers[supplierID]; !ok {
		return domain.NotFound("supply.link", domain.EntitySupplier, supplierID)
	}
	if productID == "" {
		return domain.InvalidArgument("supply.link", domain.EntitySupplyLink, supplierID, errEmptyProductID)
	}
	c.links.Link(supplierID, productID)
	return nil
}

// SuppliersForProduct returns the ids of suppliers linked to productID.
func (c *Chain) SuppliersForProduct(productID string) []string {
	return c.links.LeftOf(productID)
}

// SupplierDetailsForProduct returns the supplier records linked to
// productID.
func (c *Chain) SupplierDetailsForProduct(productID string) []domain.Supplier {
	ids := c.links.LeftOf(productID)
	out := make([]domain.Supplier, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.suppliers[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ProductsForSupplier returns the product ids linked to supplierID.
func (c *Chain) ProductsForSupplier(supplierID string) []string {
	return c.links.RightOf(supplierID)
}

// ListSuppliers returns every supplier in registration order.
func (c *Chain) ListSuppliers() []domain.Supplier {
	out := make([]domain.Supplier, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.suppliers[id])
	}
	return out
}

// RemoveProduct drops every link to productID.
func (c *Chain) RemoveProduct(productID string) { c.links.RemoveRight(productID) }

// Links exports every supplier/product link ordered by supplier then product.
func (c *Chain) Links() []domain.SupplyLink {
	links := c.links.Links()
	out := make([]domain.SupplyLink, len(links))
	for i, l := range links {
		out[i] = domain.SupplyLink{SupplierID: l.Left, ProductID: l.Right}
	}
	return out
}

// Import replaces the registry and links. A link to an unregistered
// supplier rejects the whole import.
func (c *Chain) Import(suppliers []domain.Supplier, links []domain.SupplyLink) error {
	next := New()
	for _, s := range suppliers {
		if _, err := next.AddSupplier(s); err != nil {
			return err
		}
	}
	for _, l := range links {
		if err := next.LinkSupplierToProduct(l.SupplierID, l.ProductID); err != nil {
			return err
		}
	}
	*c = *next
	return nil
}
