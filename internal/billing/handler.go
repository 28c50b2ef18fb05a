package billing

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Handler exposes checkout and invoice history over JSON. Checkout
// payloads go through the ordered domain validation rather than struct
// tags, so the handler stays a thin JSON shim.
type Handler struct {
	logger  *slog.Logger
	service *Service
	profile ProfileSource
}

// NewHandler constructs the billing handler.
func NewHandler(logger *slog.Logger, service *Service, profile ProfileSource) *Handler {
	return &Handler{logger: logger, service: service, profile: profile}
}

// MountRoutes attaches billing endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/checkout/generate", h.generate)
	r.Post("/checkout/{invoiceID}/finalize", h.finalize)

	r.Get("/invoices", h.listInvoices)
	r.Route("/invoices/{invoiceID}", func(r chi.Router) {
		r.Get("/", h.getInvoice)
		r.Patch("/", h.editInvoice)
		r.Get("/pdf", h.invoicePDF)
		r.Get("/share", h.shareInvoice)
	})

	r.Get("/customers", h.listCustomers)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	inv, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Finalize(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.service.ListInvoices(r.Context())
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	httpx.JSON(w, http.StatusOK, invoices)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) editInvoice(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	inv, err := h.service.Edit(r.Context(), chi.URLParam(r, "invoiceID"), req)
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	raw, err := RenderPDF(inv, h.profile.Get(r.Context()))
	if err != nil {
		h.logger.Error("render invoice pdf", slog.String("invoice", inv.Number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) shareInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.GetInvoice(r.Context(), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.respondDomainError(w, err)
		return
	}
	channel := ShareChannel(r.URL.Query().Get("channel"))
	if channel == "" {
		channel = ChannelWhatsApp
	}
	if channel != ChannelWhatsApp && channel != ChannelSMS {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "channel must be whatsapp or sms")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"channel": string(channel),
		"message": ShareMessage(inv, h.profile.Get(r.Context()), channel),
	})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error("list customers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if customers == nil {
		customers = []Customer{}
	}
	httpx.JSON(w, http.StatusOK, customers)
}

func (h *Handler) respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvoiceNotFound), errors.Is(err, ErrPendingNotFound), errors.Is(err, cart.ErrCartNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
