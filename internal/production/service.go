package production

import (
	"context"
	"time"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByID(ctx context.Context, id int64) (Entry, error)
	List(ctx context.Context, filters shared.ListFilters) ([]Entry, error)
}

// CommitInput describes one RG1 entry to record.
type CommitInput struct {
	Date          time.Time
	ProductID     int64
	PackingTypeID *int64
	PrvDayClosing float64
	ProductionKgs float64
	InvoiceKgs    float64
	StockKgs      float64
	StockBags     int
	StockLoose    float64
}

// Service coordinates production commits.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Commit records a production entry and increments mill stock inside one
// transaction. Both happen or neither does.
func (s *Service) Commit(ctx context.Context, input CommitInput) (Entry, error) {
	if input.ProductID <= 0 {
		return Entry{}, ErrProductRequired
	}
	if input.ProductionKgs <= 0 {
		return Entry{}, ErrInvalidQuantity
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}

	entry := Entry{
		Date:          input.Date,
		ProductID:     input.ProductID,
		PackingTypeID: input.PackingTypeID,
		PrvDayClosing: input.PrvDayClosing,
		ProductionKgs: input.ProductionKgs,
		InvoiceKgs:    input.InvoiceKgs,
		StockKgs:      input.StockKgs,
		StockBags:     input.StockBags,
		StockLoose:    input.StockLoose,
	}

	var entryID int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertEntry(ctx, entry)
		if err != nil {
			return err
		}
		entryID = id
		_, err = tx.AddStock(ctx, input.ProductID, input.ProductionKgs)
		return err
	})
	if err != nil {
		return Entry{}, err
	}
	return s.repo.GetByID(ctx, entryID)
}

// List returns production entries matching the filters.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Entry, error) {
	return s.repo.List(ctx, filters)
}
