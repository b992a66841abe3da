// Package catalog holds the authoritative product table keyed by id.
package catalog

import (
	"catalogcore/pkg/domain"
)

// Catalog stores products by id and remembers insertion order so listings
// are reproducible. It is not safe for concurrent use.
type Catalog struct {
	products map[string]domain.Product
	order    []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{products: make(map[string]domain.Product)}
}

// Add inserts a new product. The id must not already exist.
func (c *Catalog) Add(p domain.Product) (domain.Product, error) {
	p = p.Normalized()
	if err := domain.ValidateProduct(p); err != nil {
		return domain.Product{}, domain.InvalidArgument("catalog.add", domain.EntityProduct, p.ID, err)
	}
	if _, exists := c.products[p.ID]; exists {
		return domain.Product{}, domain.DuplicateKey("catalog.add", domain.EntityProduct, p.ID)
	}
	c.products[p.ID] = p
	c.order = append(c.order, p.ID)
	return p, nil
}

// Get returns the product stored under id.
func (c *Catalog) Get(id string) (domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("catalog.get", domain.EntityProduct, id)
	}
	return p, nil
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.products[id]
	return ok
}

// Update merges the given fields into an existing product. An update that
// would produce an invalid product leaves the stored record unchanged.
func (c *Catalog) Update(id string, u domain.ProductUpdate) (domain.Product, error) {
	current, ok := c.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("catalog.update", domain.EntityProduct, id)
	}
	next := u.Apply(current)
	next.ID = id
	if err := domain.ValidateProduct(next); err != nil {
		return domain.Product{}, domain.InvalidArgument("catalog.update", domain.EntityProduct, id, err)
	}
	c.products[id] = next
	return next, nil
}

// Remove deletes a product. Inventory, search and graph entries referring
// to id are left for the caller to clean up.
func (c *Catalog) Remove(id string) (domain.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return domain.Product{}, domain.NotFound("catalog.remove", domain.EntityProduct, id)
	}
	delete(c.products, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return p, nil
}

// List returns every product in insertion order.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// Import replaces the catalog contents with products, preserving their
// order. Invalid or duplicate records reject the whole import.
func (c *Catalog) Import(products []domain.Product) error {
	next := New()
	for _, p := range products {
		if _, err := next.Add(p); err != nil {
			return err
		}
	}
	*c = *next
	return nil
}
