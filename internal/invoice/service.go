package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// ApprovalModule tags invoice entries in the approval log.
const ApprovalModule = "invoice"

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (Invoice, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (Invoice, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Header, error)
	PrintData(ctx context.Context, invoiceNo string) (PrintData, error)
}

// ApprovalPort records lifecycle actions for the audit trail.
type ApprovalPort interface {
	Record(ctx context.Context, log shared.ApprovalLog) error
}

// Service coordinates the invoice lifecycle.
type Service struct {
	repo      RepositoryPort
	approvals ApprovalPort
	logger    *slog.Logger
	allowNeg  bool
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// NewService builds Service. approvals may be nil in tests.
func NewService(repo RepositoryPort, approvals ApprovalPort, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, approvals: approvals, logger: logger, allowNeg: cfg.AllowNegativeStock}
}

// Create persists a PENDING invoice with its line items and decrements
// mill stock per line, all inside one transaction. Any failure rolls the
// whole call back; no partial decrement is ever observable.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Invoice, error) {
	if req.AccountCode == "" {
		return Invoice{}, fmt.Errorf("%w: party required", shared.ErrValidation)
	}
	if len(req.Details) == 0 {
		return Invoice{}, ErrNoLineItems
	}
	for i, line := range req.Details {
		if line.ProductID <= 0 {
			return Invoice{}, fmt.Errorf("%w: line %d: product required", shared.ErrValidation, i+1)
		}
		if line.TotalKgs <= 0 {
			return Invoice{}, fmt.Errorf("%w: line %d: total kgs must be positive", shared.ErrValidation, i+1)
		}
	}

	header := Header{
		RefID:             uuid.New(),
		InvoiceNo:         req.InvoiceNo,
		Date:              req.Date,
		AccountCode:       req.AccountCode,
		InvoiceTypeID:     req.InvoiceTypeID,
		OrderID:           req.OrderID,
		EBillNo:           req.EBillNo,
		VehicleNo:         req.VehicleNo,
		Delivery:          req.Delivery,
		AssessableValue:   req.AssessableValue,
		FinalInvoiceValue: req.FinalInvoiceValue,
		Status:            StatusPending,
	}

	var invoiceID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertHeader(ctx, header)
		if err != nil {
			return err
		}
		invoiceID = id
		for _, line := range req.Details {
			if err := tx.InsertDetail(ctx, Detail{
				InvoiceID: id,
				ProductID: line.ProductID,
				TotalKgs:  line.TotalKgs,
				Rate:      line.Rate,
				Packs:     line.Packs,
			}); err != nil {
				return err
			}
			if _, err := tx.RemoveStock(ctx, line.ProductID, line.TotalKgs, s.allowNeg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Invoice{}, err
	}

	s.recordApproval(ctx, header.RefID, shared.ApprovalSubmit, "invoice "+req.InvoiceNo+" created")
	return s.repo.GetByID(ctx, invoiceID)
}

// Approve moves a PENDING invoice to APPROVED. No stock effect.
func (s *Service) Approve(ctx context.Context, id int64) error {
	var refID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		h, err := tx.GetHeaderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !h.Status.CanTransition(StatusApproved) {
			return fmt.Errorf("%w: cannot approve %s invoice", shared.ErrInvalidState, h.Status)
		}
		refID = h.RefID
		return tx.SetStatus(ctx, id, StatusApproved)
	})
	if err != nil {
		return err
	}
	s.recordApproval(ctx, refID, shared.ApprovalApprove, "")
	return nil
}

// Reject moves a PENDING invoice to REJECTED and restores mill stock per
// line item. Details are read before the status flips so the reversal
// amounts always equal the original decrements. Rejecting an approved
// invoice is not allowed; the legacy system permitted it and deleted the
// row, which destroyed the audit trail.
func (s *Service) Reject(ctx context.Context, id int64) error {
	var refID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		h, err := tx.GetHeaderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !h.Status.CanTransition(StatusRejected) {
			return fmt.Errorf("%w: cannot reject %s invoice", shared.ErrInvalidState, h.Status)
		}
		refID = h.RefID
		details, err := tx.ListDetails(ctx, id)
		if err != nil {
			return err
		}
		for _, d := range details {
			if _, err := tx.AddStock(ctx, d.ProductID, d.TotalKgs); err != nil {
				return err
			}
		}
		return tx.SetStatus(ctx, id, StatusRejected)
	})
	if err != nil {
		return err
	}
	s.recordApproval(ctx, refID, shared.ApprovalReject, "stock reverted")
	return nil
}

// Get loads one invoice by id.
func (s *Service) Get(ctx context.Context, id int64) (Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns invoice headers matching the filters.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	return s.repo.List(ctx, filters)
}

// recordApproval is best-effort: the lifecycle transition has already
// committed, so a logging failure must not surface to the caller.
func (s *Service) recordApproval(ctx context.Context, refID uuid.UUID, action shared.ApprovalAction, note string) {
	if s.approvals == nil || refID == uuid.Nil {
		return
	}
	log := shared.ApprovalLog{Module: ApprovalModule, RefID: refID, Action: action, Note: note, At: time.Now()}
	if err := s.approvals.Record(ctx, log); err != nil {
		s.logger.Warn("record approval", slog.Any("error", err), slog.String("action", string(action)))
	}
}
