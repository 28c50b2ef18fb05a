// Package cart implements the storefront cart engine: stock-gated line
// items, per-transaction service pricing and derived GST totals.
package cart

import (
	"errors"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

var (
	// ErrCartNotFound indicates an unknown cart id.
	ErrCartNotFound = errors.New("cart: not found")
	// ErrItemNotFound indicates the line item is not in the cart.
	ErrItemNotFound = errors.New("cart: item not in cart")
)

// NoticeKind labels a non-fatal warning produced by a cart mutation.
type NoticeKind string

const (
	// NoticeOutOfStock means the product could not be added at all.
	NoticeOutOfStock NoticeKind = "out_of_stock"
	// NoticeLimitExceeded means the requested quantity hit the stock ceiling.
	NoticeLimitExceeded NoticeKind = "limit_exceeded"
	// NoticeLowStock means remaining stock after the mutation is running low.
	NoticeLowStock NoticeKind = "low_stock"
)

// Notice is a user-facing warning attached to a mutation result.
// Capacity problems are clamped and reported this way, never as errors.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// LineItem is a single cart entry with its price snapshotted at add time.
// CostPrice is snapshotted alongside for later profit reporting; it stays
// zero for service lines, which have no cost in the data model.
type LineItem struct {
	ItemID      string           `json:"itemId"`
	Type        catalog.ItemType `json:"type"`
	Name        string           `json:"name"`
	Category    string           `json:"category,omitempty"`
	Price       float64          `json:"price"`
	CostPrice   float64          `json:"costPrice"`
	Quantity    int              `json:"quantity"`
	PhoneNumber string           `json:"phoneNumber,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// Totals carries the derived amounts recomputed on every mutation.
type Totals struct {
	SubTotal    float64 `json:"subTotal"`
	GSTRate     float64 `json:"gstRate"`
	GSTAmount   float64 `json:"gstAmount"`
	TotalAmount float64 `json:"totalAmount"`
}

// Cart is a single checkout session.
type Cart struct {
	ID     string     `json:"id"`
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// IsEmpty reports whether the cart has no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
