package production

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

// CommitRequest is the RG1 entry payload.
type CommitRequest struct {
	Date          time.Time `json:"date" validate:"required"`
	ProductID     int64     `json:"product_id" validate:"required,gt=0"`
	PackingTypeID *int64    `json:"packing_type_id,omitempty" validate:"omitempty,gt=0"`
	PrvDayClosing float64   `json:"prv_day_closing" validate:"gte=0"`
	ProductionKgs float64   `json:"production_kgs" validate:"required,gt=0"`
	InvoiceKgs    float64   `json:"invoice_kgs" validate:"gte=0"`
	StockKgs      float64   `json:"stock_kgs" validate:"gte=0"`
	StockBags     int       `json:"stock_bags" validate:"gte=0"`
	StockLoose    float64   `json:"stock_loose" validate:"gte=0"`
}

// Handler manages RG1 production HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler creates a new handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.commit)
	r.Get("/", h.list)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	var req CommitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	entry, err := h.service.Commit(r.Context(), CommitInput{
		Date:          req.Date,
		ProductID:     req.ProductID,
		PackingTypeID: req.PackingTypeID,
		PrvDayClosing: req.PrvDayClosing,
		ProductionKgs: req.ProductionKgs,
		InvoiceKgs:    req.InvoiceKgs,
		StockKgs:      req.StockKgs,
		StockBags:     req.StockBags,
		StockLoose:    req.StockLoose,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProductRequired), errors.Is(err, ErrInvalidQuantity):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		case errors.Is(err, stock.ErrProductNotFound):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("commit production", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": entry})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := shared.ListFilters{}
	filters.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if v := r.URL.Query().Get("product_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filters.ProductID = &id
		}
	}
	if from, err := time.Parse("2006-01-02", r.URL.Query().Get("start")); err == nil {
		filters.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", r.URL.Query().Get("end")); err == nil {
		filters.DateTo = &to
	}

	entries, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list production", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "data": entries})
}
