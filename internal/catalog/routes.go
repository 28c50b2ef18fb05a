package catalog

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches catalog endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.getProduct)
	r.Put("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deleteProduct)

	r.Get("/services", h.listServices)
	r.Post("/services", h.createService)
	r.Get("/services/{id}", h.getService)
	r.Put("/services/{id}", h.updateService)
	r.Delete("/services/{id}", h.deleteService)
}
