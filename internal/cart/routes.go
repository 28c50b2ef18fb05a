package cart

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches cart endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/carts", h.createCart)
	r.Route("/carts/{cartID}", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.discardCart)
		r.Post("/clear", h.clearCart)
		r.Post("/items/products", h.addProduct)
		r.Post("/items/services", h.addService)
		r.Route("/items/{itemID}", func(r chi.Router) {
			r.Put("/quantity", h.updateQuantity)
			r.Put("/note", h.updateNote)
			r.Put("/phone", h.updatePhone)
			r.Delete("/", h.removeItem)
		})
	})
}
