// Package catalog holds the product and service records sold through the
// storefront and the stores that persist them.
package catalog

import "errors"

var (
	// ErrNotFound indicates the catalog record does not exist.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidRecord indicates a record failed schema validation.
	ErrInvalidRecord = errors.New("catalog: invalid record")
)

// ItemType discriminates catalog entries referenced by cart lines.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
)

// Product is a stocked catalog item with a fixed selling price.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	CostPrice     float64 `json:"costPrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Stock         int     `json:"stock"`
	Barcode       string  `json:"barcode"`
	Category      string  `json:"category,omitempty"`
	Description   string  `json:"description,omitempty"`
	ImageURL      string  `json:"imageUrl"`
	GSTPercentage float64 `json:"gstPercentage"`
}

// Service is a catalog entry priced per transaction at add-to-cart time,
// so it carries no fixed selling price.
type ServiceItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ServiceCode string `json:"serviceCode,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
	ImageURL    string `json:"imageUrl"`
}

// Validate checks the product invariants enforced at the storage boundary.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return errors.New("catalog: product id required")
	case p.Name == "":
		return errors.New("catalog: product name required")
	case p.CostPrice < 0:
		return errors.New("catalog: cost price must be >= 0")
	case p.SellingPrice < 0:
		return errors.New("catalog: selling price must be >= 0")
	case p.Stock < 0:
		return errors.New("catalog: stock must be >= 0")
	case p.GSTPercentage < 0:
		return errors.New("catalog: gst percentage must be >= 0")
	}
	return nil
}

// Validate checks the service invariants enforced at the storage boundary.
func (s ServiceItem) Validate() error {
	switch {
	case s.ID == "":
		return errors.New("catalog: service id required")
	case s.Name == "":
		return errors.New("catalog: service name required")
	}
	return nil
}
