package invoice

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/platform/db"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
	"github.com/spinmill-erp/spinmill-erp/internal/stock"
)

// Repository persists invoices in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations used by the service.
// Stock mutations are part of the same interface so header, details and
// mill stock always move inside one transaction.
type TxRepository interface {
	InsertHeader(ctx context.Context, h Header) (int64, error)
	InsertDetail(ctx context.Context, d Detail) error
	GetHeaderForUpdate(ctx context.Context, id int64) (Header, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	ListDetails(ctx context.Context, invoiceID int64) ([]Detail, error)
	AddStock(ctx context.Context, productID int64, kgs float64) (float64, error)
	RemoveStock(ctx context.Context, productID int64, kgs float64, allowNegative bool) (float64, error)
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a read-committed transaction; the
// stock guard lives in the UPDATE predicate, not the isolation level.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("invoice repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const headerColumns = `id, ref_id, invoice_no, date, account_code, invoice_type_id, order_id,
ebill_no, vehicle_no, delivery, assessable_value, final_invoice_value, status, created_at, updated_at`

func scanHeader(row pgx.Row) (Header, error) {
	var h Header
	var status string
	err := row.Scan(&h.ID, &h.RefID, &h.InvoiceNo, &h.Date, &h.AccountCode, &h.InvoiceTypeID, &h.OrderID,
		&h.EBillNo, &h.VehicleNo, &h.Delivery, &h.AssessableValue, &h.FinalInvoiceValue, &status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return Header{}, err
	}
	h.Status = Status(status)
	return h, nil
}

// GetByID loads one invoice with its details.
func (r *Repository) GetByID(ctx context.Context, id int64) (Invoice, error) {
	h, err := scanHeader(r.pool.QueryRow(ctx, `SELECT `+headerColumns+` FROM invoice_headers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, shared.ErrNotFound
		}
		return Invoice{}, err
	}
	details, err := r.listDetails(ctx, r.pool, id)
	if err != nil {
		return Invoice{}, err
	}
	return Invoice{Header: h, Details: details}, nil
}

// GetByInvoiceNo loads one invoice by its business key.
func (r *Repository) GetByInvoiceNo(ctx context.Context, invoiceNo string) (Invoice, error) {
	h, err := scanHeader(r.pool.QueryRow(ctx, `SELECT `+headerColumns+` FROM invoice_headers WHERE invoice_no = $1`, invoiceNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, shared.ErrNotFound
		}
		return Invoice{}, err
	}
	details, err := r.listDetails(ctx, r.pool, h.ID)
	if err != nil {
		return Invoice{}, err
	}
	return Invoice{Header: h, Details: details}, nil
}

// List returns invoice headers matching the filters.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	query := `SELECT ` + headerColumns + ` FROM invoice_headers WHERE 1=1`
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
		h, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

func (r *Repository) listDetails(ctx context.Context, db stock.DBTX, invoiceID int64) ([]Detail, error) {
	rows, err := db.Query(ctx, `SELECT id, invoice_id, product_id, total_kgs, rate, packs
FROM invoice_details WHERE invoice_id = $1 ORDER BY id ASC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := []Detail{}
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.ProductID, &d.TotalKgs, &d.Rate, &d.Packs); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *txRepository) InsertHeader(ctx context.Context, h Header) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO invoice_headers
(ref_id, invoice_no, date, account_code, invoice_type_id, order_id, ebill_no, vehicle_no, delivery,
 assessable_value, final_invoice_value, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW()) RETURNING id`,
		h.RefID, h.InvoiceNo, h.Date, h.AccountCode, h.InvoiceTypeID, h.OrderID, h.EBillNo, h.VehicleNo, h.Delivery,
		h.AssessableValue, h.FinalInvoiceValue, string(h.Status)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrDuplicateInvoiceNo
		}
		return 0, err
	}
	return id, nil
}

func (r *txRepository) InsertDetail(ctx context.Context, d Detail) error {
	_, err := r.tx.Exec(ctx, `INSERT INTO invoice_details (invoice_id, product_id, total_kgs, rate, packs)
VALUES ($1,$2,$3,$4,$5)`, d.InvoiceID, d.ProductID, d.TotalKgs, d.Rate, d.Packs)
	return err
}

func (r *txRepository) GetHeaderForUpdate(ctx context.Context, id int64) (Header, error) {
	h, err := scanHeader(r.tx.QueryRow(ctx, `SELECT `+headerColumns+` FROM invoice_headers WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Header{}, shared.ErrNotFound
		}
		return Header{}, err
	}
	return h, nil
}

func (r *txRepository) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.tx.Exec(ctx, `UPDATE invoice_headers SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	return err
}

func (r *txRepository) ListDetails(ctx context.Context, invoiceID int64) ([]Detail, error) {
	repo := Repository{}
	return repo.listDetails(ctx, r.tx, invoiceID)
}

func (r *txRepository) AddStock(ctx context.Context, productID int64, kgs float64) (float64, error) {
	return stock.Add(ctx, r.tx, productID, kgs)
}

func (r *txRepository) RemoveStock(ctx context.Context, productID int64, kgs float64, allowNegative bool) (float64, error) {
	return stock.Remove(ctx, r.tx, productID, kgs, allowNegative)
}

// PrintData loads the denormalized rows behind the print projection.
func (r *Repository) PrintData(ctx context.Context, invoiceNo string) (PrintData, error) {
	var data PrintData
	err := r.pool.QueryRow(ctx, `SELECT h.invoice_no, h.date, h.status, h.ebill_no, h.vehicle_no, h.delivery,
       h.assessable_value, h.final_invoice_value,
       COALESCE(a.account_name, 'N/A'), COALESCE(a.address, ''), COALESCE(a.gst_no, 'N/A')
FROM invoice_headers h
LEFT JOIN accounts a ON a.account_code = h.account_code
WHERE h.invoice_no = $1`, invoiceNo).Scan(
		&data.InvoiceNo, &data.Date, &data.Status, &data.EBillNo, &data.VehicleNo, &data.Delivery,
		&data.AssessableValue, &data.FinalInvoiceValue,
		&data.PartyName, &data.PartyAddress, &data.PartyGSTNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PrintData{}, shared.ErrNotFound
		}
		return PrintData{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT d.total_kgs, d.rate, d.packs,
       COALESCE(p.product_name, '---'), COALESCE(t.tariff_no, p.product_code, '---')
FROM invoice_details d
JOIN invoice_headers h ON h.id = d.invoice_id
LEFT JOIN products p ON p.id = d.product_id
LEFT JOIN tariff_sub_heads t ON t.id = p.tariff_sub_head_id
WHERE h.invoice_no = $1
ORDER BY d.id ASC`, invoiceNo)
	if err != nil {
		return PrintData{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line PrintLine
		if err := rows.Scan(&line.TotalKgs, &line.Rate, &line.Packs, &line.ProductName, &line.HSNCode); err != nil {
			return PrintData{}, err
		}
		data.Lines = append(data.Lines, line)
	}
	return data, rows.Err()
}
