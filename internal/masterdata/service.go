package masterdata

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// RepoPort abstracts the generic repository for the service.
type RepoPort[T any] interface {
	List(ctx context.Context, filters shared.ListFilters) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, e T) (int64, error)
	Update(ctx context.Context, id int64, e T) error
	Delete(ctx context.Context, id int64) error
}

// Service wraps a repository with struct-tag validation.
type Service[T any] struct {
	repo     RepoPort[T]
	validate *validator.Validate
}

// NewService builds a Service over the repository.
func NewService[T any](repo RepoPort[T]) *Service[T] {
	return &Service[T]{repo: repo, validate: validator.New()}
}

// List returns entities matching the filters.
func (s *Service[T]) List(ctx context.Context, filters shared.ListFilters) ([]T, error) {
	return s.repo.List(ctx, filters)
}

// Get loads one entity.
func (s *Service[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create validates and inserts, then re-reads the stored row.
func (s *Service[T]) Create(ctx context.Context, e T) (T, error) {
	var zero T
	if err := s.validate.Struct(e); err != nil {
		return zero, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return zero, err
	}
	return s.repo.Get(ctx, id)
}

// Update validates and rewrites the entity, then re-reads it.
func (s *Service[T]) Update(ctx context.Context, id int64, e T) (T, error) {
	var zero T
	if id <= 0 {
		return zero, fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	if err := s.validate.Struct(e); err != nil {
		return zero, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	if err := s.repo.Update(ctx, id, e); err != nil {
		return zero, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the entity.
func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// Registry holds one typed service per master entity.
type Registry struct {
	Accounts       *Service[Account]
	Brokers        *Service[Broker]
	Transports     *Service[Transport]
	Tariffs        *Service[TariffSubHead]
	PackingTypes   *Service[PackingType]
	SpinningCounts *Service[SpinningCount]
	InvoiceTypes   *Service[InvoiceType]
	Products       *Service[Product]
	Despatches     *Service[DespatchEntry]
	DepotReceipts  *Service[DepotReceipt]
}

// NewRegistry wires every entity's repository and service off the pool.
func NewRegistry(pool *pgxpool.Pool) *Registry {
	return &Registry{
		Accounts:       NewService[Account](NewRepo(pool, accountDesc)),
		Brokers:        NewService[Broker](NewRepo(pool, brokerDesc)),
		Transports:     NewService[Transport](NewRepo(pool, transportDesc)),
		Tariffs:        NewService[TariffSubHead](NewRepo(pool, tariffDesc)),
		PackingTypes:   NewService[PackingType](NewRepo(pool, packingTypeDesc)),
		SpinningCounts: NewService[SpinningCount](NewRepo(pool, spinningCountDesc)),
		InvoiceTypes:   NewService[InvoiceType](NewRepo(pool, invoiceTypeDesc)),
		Products:       NewService[Product](NewRepo(pool, productDesc)),
		Despatches:     NewService[DespatchEntry](NewRepo(pool, despatchDesc)),
		DepotReceipts:  NewService[DepotReceipt](NewRepo(pool, depotReceiptDesc)),
	}
}
