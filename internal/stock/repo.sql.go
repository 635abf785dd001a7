package stock

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so the adjust
// statement can run standalone or inside a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Add increments mill stock by kgs and returns the new balance.
func Add(ctx context.Context, db DBTX, productID int64, kgs float64) (float64, error) {
	if kgs <= 0 {
		return 0, ErrInvalidQuantity
	}
	var balance float64
	err := db.QueryRow(ctx, `UPDATE products SET mill_stock = mill_stock + $2, updated_at = NOW()
WHERE id = $1 RETURNING mill_stock`, productID, kgs).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return 0, err
	}
	return balance, nil
}

// Remove decrements mill stock by kgs and returns the new balance. The
// guard is part of the UPDATE predicate, so concurrent decrements
// serialise on the row lock and never observe a stale balance.
func Remove(ctx context.Context, db DBTX, productID int64, kgs float64, allowNegative bool) (float64, error) {
	if kgs <= 0 {
		return 0, ErrInvalidQuantity
	}
	var balance float64
	err := db.QueryRow(ctx, `UPDATE products SET mill_stock = mill_stock - $2, updated_at = NOW()
WHERE id = $1 AND ($3 OR mill_stock >= $2) RETURNING mill_stock`, productID, kgs, allowNegative).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if scanErr := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); scanErr != nil {
				return 0, scanErr
			}
			if !exists {
				return 0, ErrProductNotFound
			}
			return 0, ErrInsufficientStock
		}
		return 0, err
	}
	return balance, nil
}

// Repository persists stock levels in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Adjust applies a signed delta to a product's mill stock.
func (r *Repository) Adjust(ctx context.Context, productID int64, delta float64, allowNegative bool) (float64, error) {
	if r == nil {
		return 0, errors.New("stock repository not initialised")
	}
	if delta >= 0 {
		return Add(ctx, r.pool, productID, delta)
	}
	return Remove(ctx, r.pool, productID, -delta, allowNegative)
}

// Level returns one product's stock level.
func (r *Repository) Level(ctx context.Context, productID int64) (Level, error) {
	if r == nil {
		return Level{}, errors.New("stock repository not initialised")
	}
	var lvl Level
	err := r.pool.QueryRow(ctx, `SELECT id, product_code, product_name, mill_stock, updated_at
FROM products WHERE id = $1`, productID).
		Scan(&lvl.ProductID, &lvl.ProductCode, &lvl.ProductName, &lvl.MillStock, &lvl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Level{}, ErrProductNotFound
		}
		return Level{}, err
	}
	return lvl, nil
}

// Levels lists stock levels for the stock statement screen.
func (r *Repository) Levels(ctx context.Context, filters shared.ListFilters) ([]Level, error) {
	if r == nil {
		return nil, errors.New("stock repository not initialised")
	}
	query := `SELECT id, product_code, product_name, mill_stock, updated_at FROM products WHERE 1=1`
	args := []any{}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (product_name ILIKE $` + n + ` OR product_code ILIKE $` + n + `)`
	}
	query += ` ORDER BY product_code ASC`
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
	levels := []Level{}
	for rows.Next() {
		var lvl Level
		if err := rows.Scan(&lvl.ProductID, &lvl.ProductCode, &lvl.ProductName, &lvl.MillStock, &lvl.UpdatedAt); err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, rows.Err()
}
