package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Header, error)
}

// Service coordinates order entry and closure.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create stores the order header and all detail lines in one transaction.
// Creating an order never touches mill stock.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Order, error) {
	req.OrderNo = strings.TrimSpace(req.OrderNo)
	req.AccountCode = strings.TrimSpace(req.AccountCode)
	if req.OrderNo == "" {
		return Order{}, fmt.Errorf("%w: order_no required", shared.ErrValidation)
	}
	if req.AccountCode == "" {
		return Order{}, fmt.Errorf("%w: account_code required", shared.ErrValidation)
	}
	if len(req.Details) == 0 {
		return Order{}, ErrNoLineItems
	}
	if req.Date.IsZero() {
		req.Date = time.Now().UTC()
	}

	var orderID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertHeader(ctx, Header{
			OrderNo:       req.OrderNo,
			Date:          req.Date,
			AccountCode:   req.AccountCode,
			BrokerID:      req.BrokerID,
			TransportID:   req.TransportID,
			InvoiceTypeID: req.InvoiceTypeID,
			Place:         req.Place,
			IsWithOrder:   req.IsWithOrder,
			Status:        StatusOpen,
		})
		if err != nil {
			return err
		}
		orderID = id
		for _, line := range req.Details {
			if line.ProductID <= 0 || line.Qty <= 0 {
				return fmt.Errorf("%w: each line needs a product and positive qty", shared.ErrValidation)
			}
			if err := tx.InsertDetail(ctx, Detail{
				OrderID:   id,
				ProductID: line.ProductID,
				Qty:       line.Qty,
				RateCr:    line.RateCr,
				RateImm:   line.RateImm,
				RatePer:   line.RatePer,
				BagWt:     line.BagWt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(ctx, orderID)
}

// Close marks an open order as closed. Closing an already-closed order
// is a no-op rather than an error so repeated submits stay safe.
func (s *Service) Close(ctx context.Context, id int64) (Order, error) {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		h, err := tx.GetHeaderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if h.Status == StatusClosed {
			return nil
		}
		return tx.SetStatus(ctx, id, StatusClosed)
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Get loads one order with its lines.
func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns order headers matching the filters.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	return s.repo.List(ctx, filters)
}
