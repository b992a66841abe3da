// Package domain defines the catalog entities, error kinds, and persistence
// contract shared by every catalogcore component.
package domain

import "strings"

// EntityType identifies the type of record an operation or error refers to.
type EntityType string

// Entity type identifiers used in errors and persistence buckets.
const (
	// EntityProduct identifies a catalog product.
	EntityProduct EntityType = "product"
	// EntityStock identifies an inventory stock entry.
	EntityStock EntityType = "stock"
	// EntitySupplier identifies a registered supplier.
	EntitySupplier EntityType = "supplier"
	// EntityCoPurchase identifies a recommendation graph edge.
	EntityCoPurchase EntityType = "co_purchase"
	// EntitySupplyLink identifies a supplier/product link.
	EntitySupplyLink EntityType = "supply_link"
)

// DefaultCategory is applied to products created without a category.
const DefaultCategory = "uncategorized"

// Product is a catalog entry. ID is immutable once created.
type Product struct {
	ID          string  `json:"product_id" yaml:"product_id" validate:"required"`
	Name        string  `json:"name" yaml:"name" validate:"required"`
	Description string  `json:"description" yaml:"description"`
	Price       float64 `json:"price" yaml:"price" validate:"finite,gte=0"`
	Category    string  `json:"category" yaml:"category"`
}

// Normalized returns a copy with surrounding whitespace trimmed and the
// default category applied.
func (p Product) Normalized() Product {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return p
}

// ProductUpdate carries the fields to merge into an existing product.
// Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Category == nil
}

// Apply merges the update into p and returns the result.
func (u ProductUpdate) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	return p.Normalized()
}

// StockEntry is the quantity on hand for one product.
type StockEntry struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderLine is a single product and quantity within a placed order.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// CoPurchaseEdge is an undirected weighted edge between two products that
// were bought together. Exported edges always carry A < B.
type CoPurchaseEdge struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

// Supplier is a registered supplier.
type Supplier struct {
	ID          string `json:"supplier_id" yaml:"supplier_id" validate:"required"`
	Name        string `json:"name" yaml:"name" validate:"required"`
	ContactInfo string `json:"contact_info" yaml:"contact_info"`
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (s Supplier) Normalized() Supplier {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.ContactInfo = strings.TrimSpace(s.ContactInfo)
	return s
}

// SupplyLink connects a supplier to a product it provides.
type SupplyLink struct {
	SupplierID string `json:"supplier_id"`
	ProductID  string `json:"product_id"`
}
