package catalog

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	Name          string  `json:"name" validate:"required"`
	CostPrice     float64 `json:"costPrice" validate:"gte=0"`
	SellingPrice  float64 `json:"sellingPrice" validate:"gte=0"`
	Stock         int     `json:"stock" validate:"gte=0"`
	Barcode       string  `json:"barcode"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	ImageURL      string  `json:"imageUrl"`
	GSTPercentage float64 `json:"gstPercentage" validate:"gte=0"`
}

// ServiceRequest is the create/update payload for services.
type ServiceRequest struct {
	Name        string `json:"name" validate:"required"`
	ServiceCode string `json:"serviceCode"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	ImageURL    string `json:"imageUrl"`
}

func (r ProductRequest) toDomain() Product {
	return Product{
		Name:          r.Name,
		CostPrice:     r.CostPrice,
		SellingPrice:  r.SellingPrice,
		Stock:         r.Stock,
		Barcode:       r.Barcode,
		Category:      r.Category,
		Description:   r.Description,
		ImageURL:      r.ImageURL,
		GSTPercentage: r.GSTPercentage,
	}
}

func (r ServiceRequest) toDomain() ServiceItem {
	return ServiceItem{
		Name:        r.Name,
		ServiceCode: r.ServiceCode,
		Category:    r.Category,
		Description: r.Description,
		Duration:    r.Duration,
		ImageURL:    r.ImageURL,
	}
}
