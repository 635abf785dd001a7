// Package production records RG1 daily production entries and feeds the
// mill stock ledger. Entries are fire-and-forget: once committed they
// have no approval or rejection flow.
package production

import (
	"errors"
	"time"
)

// Entry models one day's output for one product. The closing/invoice
// snapshot fields mirror the RG1 register layout; they are informational
// displays, the authoritative balance lives on the product row.
type Entry struct {
	ID            int64     `json:"id"`
	Date          time.Time `json:"date"`
	ProductID     int64     `json:"product_id"`
	PackingTypeID *int64    `json:"packing_type_id,omitempty"`
	PrvDayClosing float64   `json:"prv_day_closing"`
	ProductionKgs float64   `json:"production_kgs"`
	InvoiceKgs    float64   `json:"invoice_kgs"`
	StockKgs      float64   `json:"stock_kgs"`
	StockBags     int       `json:"stock_bags"`
	StockLoose    float64   `json:"stock_loose"`
	CreatedAt     time.Time `json:"created_at"`
}

// ErrInvalidQuantity indicates a non-positive production quantity.
var ErrInvalidQuantity = errors.New("production: production kgs must be positive")

// ErrProductRequired indicates a missing product reference.
var ErrProductRequired = errors.New("production: product required")
