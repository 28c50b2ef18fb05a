package catalog

// SampleProducts returns the bundled demo catalog used to seed an empty
// store on first run.
func SampleProducts() []Product {
	return []Product{
		{
			ID:            "prod-espresso-beans",
			Name:          "Espresso Beans 500g",
			CostPrice:     4.20,
			SellingPrice:  7.50,
			Stock:         40,
			Barcode:       "8901000000017",
			Category:      "Beverages",
			ImageURL:      "/images/espresso-beans.png",
			GSTPercentage: 5,
		},
		{
			ID:            "prod-notebook-a5",
			Name:          "A5 Ruled Notebook",
			CostPrice:     0.80,
			SellingPrice:  1.95,
			Stock:         120,
			Barcode:       "8901000000024",
			Category:      "Stationery",
			ImageURL:      "/images/notebook-a5.png",
			GSTPercentage: 12,
		},
		{
			ID:            "prod-led-bulb-9w",
			Name:          "LED Bulb 9W",
			CostPrice:     1.10,
			SellingPrice:  2.60,
			Stock:         14,
			Barcode:       "8901000000031",
			Category:      "Electrical",
			ImageURL:      "/images/led-bulb.png",
			GSTPercentage: 18,
		},
	}
}

// SampleServices returns the bundled demo services.
func SampleServices() []ServiceItem {
	return []ServiceItem{
		{
			ID:          "svc-gift-wrap",
			Name:        "Gift Wrapping",
			ServiceCode: "WRAP",
			Category:    "In-store",
			Duration:    "10m",
			ImageURL:    "/images/gift-wrap.png",
		},
		{
			ID:          "svc-home-delivery",
			Name:        "Home Delivery",
			ServiceCode: "DLVR",
			Category:    "Logistics",
			Duration:    "2h",
			ImageURL:    "/images/delivery.png",
		},
	}
}
