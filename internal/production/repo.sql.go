package production

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/platform/db"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
	"github.com/spinmill-erp/spinmill-erp/internal/stock"
)

// Repository persists RG1 production entries in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	InsertEntry(ctx context.Context, e Entry) (int64, error)
	AddStock(ctx context.Context, productID int64, kgs float64) (float64, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("production repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// GetByID loads one production entry.
func (r *Repository) GetByID(ctx context.Context, id int64) (Entry, error) {
	var e Entry
	err := r.pool.QueryRow(ctx, `SELECT id, date, product_id, packing_type_id, prv_day_closing, production_kgs,
invoice_kgs, stock_kgs, stock_bags, stock_loose, created_at
FROM rg1_productions WHERE id = $1`, id).Scan(
		&e.ID, &e.Date, &e.ProductID, &e.PackingTypeID, &e.PrvDayClosing, &e.ProductionKgs,
		&e.InvoiceKgs, &e.StockKgs, &e.StockBags, &e.StockLoose, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

// List returns production entries, newest first, with optional filters.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Entry, error) {
	query := `SELECT id, date, product_id, packing_type_id, prv_day_closing, production_kgs,
invoice_kgs, stock_kgs, stock_bags, stock_loose, created_at FROM rg1_productions WHERE 1=1`
	args := []any{}
	if filters.ProductID != nil {
		args = append(args, *filters.ProductID)
		query += ` AND product_id = $` + strconv.Itoa(len(args))
	}
	if filters.DateFrom != nil {
		args = append(args, *filters.DateFrom)
		query += ` AND date >= $` + strconv.Itoa(len(args))
	}
	if filters.DateTo != nil {
		args = append(args, *filters.DateTo)
		query += ` AND date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY date DESC, id DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Date, &e.ProductID, &e.PackingTypeID, &e.PrvDayClosing, &e.ProductionKgs,
			&e.InvoiceKgs, &e.StockKgs, &e.StockBags, &e.StockLoose, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *txRepository) InsertEntry(ctx context.Context, e Entry) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO rg1_productions
(date, product_id, packing_type_id, prv_day_closing, production_kgs, invoice_kgs, stock_kgs, stock_bags, stock_loose, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW()) RETURNING id`,
		e.Date, e.ProductID, e.PackingTypeID, e.PrvDayClosing, e.ProductionKgs,
		e.InvoiceKgs, e.StockKgs, e.StockBags, e.StockLoose).Scan(&id)
	return id, err
}

func (r *txRepository) AddStock(ctx context.Context, productID int64, kgs float64) (float64, error) {
	return stock.Add(ctx, r.tx, productID, kgs)
}
