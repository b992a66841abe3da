// Package inventory tracks stock on hand per product id.
package inventory

import (
	"errors"
	"sort"

	"catalogcore/pkg/domain"
)

var (
	errEmptyID          = errors.New("product id is required")
	errNegativeQuantity = errors.New("quantity must be non-negative")
)

// Inventory maps product ids to quantities. Product existence is not
// checked here. It is not safe for concurrent use.
type Inventory struct {
	stock map[string]int
}

// New returns an empty inventory.
func New() *Inventory {
	return &Inventory{stock: make(map[string]int)}
}

// SetStock creates or overwrites the entry for id.
func (inv *Inventory) SetStock(id string, quantity int) error {
	if id == "" {
		return domain.InvalidArgument("inventory.set", domain.EntityStock, id, errEmptyID)
	}
	if quantity < 0 {
		return domain.InvalidArgument("inventory.set", domain.EntityStock, id, errNegativeQuantity)
	}
	inv.stock[id] = quantity
	return nil
}

// AdjustStock applies delta to an existing entry and returns the new
// quantity. A delta that would go negative is rejected and nothing changes.
func (inv *Inventory) AdjustStock(id string, delta int) (int, error) {
	current, ok := inv.stock[id]
	if !ok {
		return 0, domain.NotFound("inventory.adjust", domain.EntityStock, id)
	}
	next := current + delta
	if next < 0 {
		return current, domain.InsufficientStock("inventory.adjust", id, current, -delta)
	}
	inv.stock[id] = next
	return next, nil
}

// GetStock returns the quantity on hand for id.
func (inv *Inventory) GetStock(id string) (int, error) {
	q, ok := inv.stock[id]
	if !ok {
		return 0, domain.NotFound("inventory.get", domain.EntityStock, id)
	}
	return q, nil
}

// Remove drops the entry for id, reporting whether it existed.
func (inv *Inventory) Remove(id string) bool {
	_, ok := inv.stock[id]
	delete(inv.stock, id)
	return ok
}

// Entries lists all stock entries ordered by product id.
func (inv *Inventory) Entries() []domain.StockEntry {
	out := make([]domain.StockEntry, 0, len(inv.stock))
	for id, q := range inv.stock {
		out = append(out, domain.StockEntry{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// Export copies the stock table.
func (inv *Inventory) Export() map[string]int {
	out := make(map[string]int, len(inv.stock))
	for id, q := range inv.stock {
		out[id] = q
	}
	return out
}

// Import replaces the stock table. Negative quantities or empty ids reject
// the whole import.
func (inv *Inventory) Import(stock map[string]int) error {
	next := New()
	for id, q := range stock {
		if err := next.SetStock(id, q); err != nil {
			return err
		}
	}
	inv.stock = next.stock
	return nil
}
