package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the report projections against PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DayBookRows returns day-book lines for the range, rejected invoices
// excluded, oldest first.
func (r *Repository) DayBookRows(ctx context.Context, from, to time.Time) ([]DayBookRow, error) {
	rows, err := r.pool.Query(ctx, `
SELECT h.id, h.invoice_no, h.date, h.account_code, COALESCE(a.account_name, ''), h.status,
       COALESCE(SUM(d.packs), 0)::int, COALESCE(SUM(d.total_kgs), 0), h.final_invoice_value
FROM invoice_headers h
LEFT JOIN accounts a ON a.account_code = h.account_code
LEFT JOIN invoice_details d ON d.invoice_id = h.id
WHERE h.date >= $1 AND h.date <= $2 AND h.status <> 'REJECTED'
GROUP BY h.id, h.invoice_no, h.date, h.account_code, a.account_name, h.status, h.final_invoice_value
ORDER BY h.date, h.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DayBookRow{}
	for rows.Next() {
		var row DayBookRow
		if err := rows.Scan(&row.InvoiceID, &row.InvoiceNo, &row.Date, &row.AccountCode,
			&row.PartyName, &row.Status, &row.Bags, &row.WeightKgs, &row.Amount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RG1Rows returns production register lines for the range, oldest first.
func (r *Repository) RG1Rows(ctx context.Context, from, to time.Time) ([]RG1Row, error) {
	rows, err := r.pool.Query(ctx, `
SELECT e.id, e.date, e.product_id, COALESCE(p.product_code, ''), COALESCE(p.product_name, ''),
       e.prv_day_closing, e.production_kgs, e.invoice_kgs, e.stock_kgs
FROM rg1_productions e
LEFT JOIN products p ON p.id = e.product_id
WHERE e.date >= $1 AND e.date <= $2
ORDER BY e.date, e.id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RG1Row{}
	for rows.Next() {
		var row RG1Row
		if err := rows.Scan(&row.EntryID, &row.Date, &row.ProductID, &row.ProductCode,
			&row.ProductName, &row.PrvDayClosing, &row.ProductionKgs, &row.InvoiceKgs,
			&row.StockKgs); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
