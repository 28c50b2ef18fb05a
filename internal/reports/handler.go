package reports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Handler exposes the dashboard and CSV export.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the reports handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes attaches reporting endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/dashboard", h.dashboard)
	r.Get("/reports/export", h.export)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	kind, from, to, ok := h.window(w, r)
	if !ok {
		return
	}
	report, err := h.service.Dashboard(r.Context(), kind, from, to)
	if err != nil {
		h.logger.Error("build dashboard", slog.String("range", string(kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	kind, from, to, ok := h.window(w, r)
	if !ok {
		return
	}
	raw, err := h.service.Export(r.Context(), kind, from, to)
	if err != nil {
		h.logger.Error("export report", slog.String("range", string(kind)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (h *Handler) window(w http.ResponseWriter, r *http.Request) (FilterKind, *time.Time, *time.Time, bool) {
	kind, err := ParseFilterKind(r.URL.Query().Get("range"))
	if err != nil {
		httpx.RespondError(w, err)
		return "", nil, nil, false
	}
	from, ok := h.dateParam(w, r, "from")
	if !ok {
		return "", nil, nil, false
	}
	to, ok := h.dateParam(w, r, "to")
	if !ok {
		return "", nil, nil, false
	}
	return kind, from, to, true
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", name+" must be a YYYY-MM-DD date")
		return nil, false
	}
	return &t, true
}
