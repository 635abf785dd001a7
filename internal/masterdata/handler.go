package masterdata

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/spinmill-erp/spinmill-erp/internal/platform/httpx"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// Handler manages master data HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	registry *Registry
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, registry *Registry) *Handler {
	return &Handler{logger: logger, registry: registry}
}

// MountRoutes registers one CRUD route set per entity.
func (h *Handler) MountRoutes(r chi.Router) {
	mountResource(r, "/accounts", h.logger, h.registry.Accounts)
	mountResource(r, "/brokers", h.logger, h.registry.Brokers)
	mountResource(r, "/transports", h.logger, h.registry.Transports)
	mountResource(r, "/tariffs", h.logger, h.registry.Tariffs)
	mountResource(r, "/packing-types", h.logger, h.registry.PackingTypes)
	mountResource(r, "/spinning-counts", h.logger, h.registry.SpinningCounts)
	mountResource(r, "/invoice-types", h.logger, h.registry.InvoiceTypes)
	mountResource(r, "/products", h.logger, h.registry.Products)
	mountResource(r, "/despatch", h.logger, h.registry.Despatches)
	mountResource(r, "/depot-receipts", h.logger, h.registry.DepotReceipts)
}

// mountResource wires the standard list/get/create/update/delete routes
// for one entity under the given path prefix.
func mountResource[T any](r chi.Router, path string, logger *slog.Logger, svc *Service[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			filters := shared.ListFilters{Search: req.URL.Query().Get("search")}
			filters.Page, _ = strconv.Atoi(req.URL.Query().Get("page"))
			filters.Limit, _ = strconv.Atoi(req.URL.Query().Get("limit"))
			items, err := svc.List(req.Context(), filters)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": items})
		})
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
			item, err := svc.Get(req.Context(), id)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": item})
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var e T
			if err := httpx.DecodeJSON(req, &e); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
				return
			}
			item, err := svc.Create(req.Context(), e)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": item})
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
			var e T
			if err := httpx.DecodeJSON(req, &e); err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
				return
			}
			item, err := svc.Update(req.Context(), id, e)
			if err != nil {
				respondError(w, logger, err)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": item})
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			id, _ := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
			if err := svc.Delete(req.Context(), id); err != nil {
				respondError(w, logger, err)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
		})
	})
}

func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		logger.Error("masterdata request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
