// Package report serves the read-only registers: the sales day book and
// the RG1 production statement. Results are cached in Redis with a TTL
// and deduplicated with singleflight; there is no invalidation, stale
// reads inside the TTL window are acceptable for these screens.
package report

import "time"

// DayBookRow is one invoice line in the sales day book. Rejected
// invoices never appear here.
type DayBookRow struct {
	InvoiceID   int64     `json:"invoice_id"`
	InvoiceNo   string    `json:"invoice_no"`
	Date        time.Time `json:"date"`
	AccountCode string    `json:"account_code"`
	PartyName   string    `json:"party_name"`
	Status      string    `json:"status"`
	Bags        int       `json:"bags"`
	WeightKgs   float64   `json:"weight_kgs"`
	Amount      float64   `json:"amount"`
}

// DayBook is the rendered day book for a date range.
type DayBook struct {
	From      time.Time    `json:"from"`
	To        time.Time    `json:"to"`
	Rows      []DayBookRow `json:"rows"`
	TotalKgs  float64      `json:"total_kgs"`
	TotalBags int          `json:"total_bags"`
	TotalAmt  float64      `json:"total_amount"`
}

// RG1Row is one production register line.
type RG1Row struct {
	EntryID       int64     `json:"entry_id"`
	Date          time.Time `json:"date"`
	ProductID     int64     `json:"product_id"`
	ProductCode   string    `json:"product_code"`
	ProductName   string    `json:"product_name"`
	PrvDayClosing float64   `json:"prv_day_closing"`
	ProductionKgs float64   `json:"production_kgs"`
	InvoiceKgs    float64   `json:"invoice_kgs"`
	StockKgs      float64   `json:"stock_kgs"`
}

// RG1Statement is the rendered register for a date range.
type RG1Statement struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	Rows     []RG1Row  `json:"rows"`
	TotalKgs float64   `json:"total_kgs"`
}
