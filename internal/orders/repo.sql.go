package orders

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/platform/db"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

const headerColumns = `id, order_no, date, account_code, broker_id, transport_id,
invoice_type_id, place, is_with_order, status, created_at, updated_at`

// Repository persists orders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	InsertHeader(ctx context.Context, h Header) (int64, error)
	InsertDetail(ctx context.Context, d Detail) error
	GetHeaderForUpdate(ctx context.Context, id int64) (Header, error)
	SetStatus(ctx context.Context, id int64, status string) error
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func scanHeader(row pgx.Row) (Header, error) {
	var h Header
	err := row.Scan(&h.ID, &h.OrderNo, &h.Date, &h.AccountCode, &h.BrokerID, &h.TransportID,
		&h.InvoiceTypeID, &h.Place, &h.IsWithOrder, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Header{}, shared.ErrNotFound
		}
		return Header{}, err
	}
	return h, nil
}

// GetByID loads an order with its detail lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (Order, error) {
	h, err := scanHeader(r.pool.QueryRow(ctx,
		`SELECT `+headerColumns+` FROM order_headers WHERE id = $1`, id))
	if err != nil {
		return Order{}, err
	}
	details, err := r.listDetails(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return Order{Header: h, Details: details}, nil
}

func (r *Repository) listDetails(ctx context.Context, orderID int64) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, order_id, product_id, qty, rate_cr, rate_imm, rate_per, bag_wt
FROM order_details WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := []Detail{}
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.Qty, &d.RateCr, &d.RateImm, &d.RatePer, &d.BagWt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// List returns order headers, newest first, with optional filters.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	query := `SELECT ` + headerColumns + ` FROM order_headers WHERE 1=1`
	args := []any{}
	if filters.Party != "" {
		args = append(args, filters.Party)
		query += ` AND account_code = $` + strconv.Itoa(len(args))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
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
	headers := []Header{}
	for rows.Next() {
		var h Header
		if err := rows.Scan(&h.ID, &h.OrderNo, &h.Date, &h.AccountCode, &h.BrokerID, &h.TransportID,
			&h.InvoiceTypeID, &h.Place, &h.IsWithOrder, &h.Status, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

func (r *txRepository) InsertHeader(ctx context.Context, h Header) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO order_headers
(order_no, date, account_code, broker_id, transport_id, invoice_type_id, place, is_with_order, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW()) RETURNING id`,
		h.OrderNo, h.Date, h.AccountCode, h.BrokerID, h.TransportID,
		h.InvoiceTypeID, h.Place, h.IsWithOrder, h.Status).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateOrderNo
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepository) InsertDetail(ctx context.Context, d Detail) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO order_details
(order_id, product_id, qty, rate_cr, rate_imm, rate_per, bag_wt)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.OrderID, d.ProductID, d.Qty, d.RateCr, d.RateImm, d.RatePer, d.BagWt)
	return err
}

func (r *txRepository) GetHeaderForUpdate(ctx context.Context, id int64) (Header, error) {
	return scanHeader(r.tx.QueryRow(ctx,
		`SELECT `+headerColumns+` FROM order_headers WHERE id = $1 FOR UPDATE`, id))
}

func (r *txRepository) SetStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE order_headers SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
