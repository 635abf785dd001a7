package invoice

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/spinmill-erp/spinmill-erp/internal/platform/httpx"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
	"github.com/spinmill-erp/spinmill-erp/internal/stock"
)

// Handler manages invoice HTTP endpoints.
type Handler struct {
	logger      *slog.Logger
	service     *Service
	idempotency *shared.IdempotencyStore
	validate    *validator.Validate
}

// NewHandler creates a new handler. idempotency may be nil; the
// Idempotency-Key header is then ignored.
func NewHandler(logger *slog.Logger, service *Service, idempotency *shared.IdempotencyStore) *Handler {
	return &Handler{
		logger:      logger,
		service:     service,
		idempotency: idempotency,
		validate:    validator.New(),
	}
}

// MountRoutes registers routes on the router. The approve/reject verbs
// keep the legacy UI paths.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Put("/approve/{id}", h.approve)
	r.Put("/reject/{id}", h.reject)
	r.Get("/print/{invoiceNo}", h.print)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	idemKey := r.Header.Get("Idempotency-Key")
	if idemKey != "" && h.idempotency != nil {
		if err := h.idempotency.CheckAndInsert(r.Context(), idemKey, ApprovalModule); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				httpx.Problem(w, http.StatusConflict, "Duplicate", "request already processed")
				return
			}
			h.respondError(w, err, "idempotency check")
			return
		}
	}

	inv, err := h.service.Create(r.Context(), req)
	if err != nil {
		if idemKey != "" && h.idempotency != nil {
			// failed creates must stay retryable
			_ = h.idempotency.Delete(r.Context(), idemKey)
		}
		h.respondError(w, err, "create invoice")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": inv})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.ListFilters{
		Party:  r.URL.Query().Get("party"),
		Status: r.URL.Query().Get("status"),
	}
	filters.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if from, err := time.Parse("2006-01-02", r.URL.Query().Get("start")); err == nil {
		filters.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", r.URL.Query().Get("end")); err == nil {
		filters.DateTo = &to
	}

	headers, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, err, "list invoices")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": headers})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "get invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": inv})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	if err := h.service.Approve(r.Context(), id); err != nil {
		h.respondError(w, err, "approve invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid invoice id")
		return
	}
	if err := h.service.Reject(r.Context(), id); err != nil {
		h.respondError(w, err, "reject invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "message": "Invoice Rejected & Stock Reverted"})
}

func (h *Handler) print(w http.ResponseWriter, r *http.Request) {
	invoiceNo := chi.URLParam(r, "invoiceNo")
	proj, err := h.service.Print(r.Context(), invoiceNo)
	if err != nil {
		h.respondError(w, err, "print invoice")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": proj})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, shared.ErrValidation), errors.Is(err, ErrNoLineItems), errors.Is(err, stock.ErrInvalidQuantity):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, ErrDuplicateInvoiceNo):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, stock.ErrInsufficientStock):
		httpx.Problem(w, http.StatusConflict, "Insufficient Stock", err.Error())
	case errors.Is(err, stock.ErrProductNotFound):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
