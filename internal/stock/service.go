package stock

import (
	"context"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// RepositoryPort abstracts repository usage for the ledger.
type RepositoryPort interface {
	Adjust(ctx context.Context, productID int64, delta float64, allowNegative bool) (float64, error)
	Level(ctx context.Context, productID int64) (Level, error)
	Levels(ctx context.Context, filters shared.ListFilters) ([]Level, error)
}

// Ledger coordinates standalone stock adjustments and reads. Invoice and
// production mutations bypass the ledger service and use Add/Remove inside
// their own transactions; the policy flag is shared through ServiceConfig.
type Ledger struct {
	repo     RepositoryPort
	allowNeg bool
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// NewLedger builds Ledger.
func NewLedger(repo RepositoryPort, cfg ServiceConfig) *Ledger {
	return &Ledger{repo: repo, allowNeg: cfg.AllowNegativeStock}
}

// AllowNegative reports the configured negative-stock policy.
func (l *Ledger) AllowNegative() bool {
	return l.allowNeg
}

// Increment adds kgs to a product's mill stock.
func (l *Ledger) Increment(ctx context.Context, productID int64, kgs float64) (float64, error) {
	if kgs <= 0 {
		return 0, ErrInvalidQuantity
	}
	return l.repo.Adjust(ctx, productID, kgs, l.allowNeg)
}

// Decrement subtracts kgs from a product's mill stock. Fails with
// ErrInsufficientStock when the balance would go negative and the
// policy forbids it.
func (l *Ledger) Decrement(ctx context.Context, productID int64, kgs float64) (float64, error) {
	if kgs <= 0 {
		return 0, ErrInvalidQuantity
	}
	return l.repo.Adjust(ctx, productID, -kgs, l.allowNeg)
}

// Statement lists stock levels.
func (l *Ledger) Statement(ctx context.Context, filters shared.ListFilters) ([]Level, error) {
	return l.repo.Levels(ctx, filters)
}

// Get returns one product's level.
func (l *Ledger) Get(ctx context.Context, productID int64) (Level, error) {
	return l.repo.Level(ctx, productID)
}
