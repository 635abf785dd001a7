// Package invoice implements the invoice lifecycle: a PENDING invoice is
// created together with its line items and the matching mill stock
// decrements in one transaction, then either approved (no stock effect)
// or rejected (stock restored, row retained for audit).
package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status enumerates invoice lifecycle states.
type Status string

const (
	// StatusPending marks a created, not yet approved invoice.
	StatusPending Status = "PENDING"
	// StatusApproved is terminal; the invoice is final.
	StatusApproved Status = "APPROVED"
	// StatusRejected is terminal; stock has been restored and the row
	// is kept for the audit trail.
	StatusRejected Status = "REJECTED"
)

// CanTransition reports whether a lifecycle move is allowed. Both
// APPROVED and REJECTED are terminal; in particular an approved invoice
// can no longer be rejected.
func (s Status) CanTransition(to Status) bool {
	return s == StatusPending && (to == StatusApproved || to == StatusRejected)
}

// Header models the invoice header row.
type Header struct {
	ID                int64     `json:"id"`
	RefID             uuid.UUID `json:"ref_id"`
	InvoiceNo         string    `json:"invoice_no"`
	Date              time.Time `json:"date"`
	AccountCode       string    `json:"account_code"`
	InvoiceTypeID     int64     `json:"invoice_type_id"`
	OrderID           *int64    `json:"order_id,omitempty"`
	EBillNo           string    `json:"ebill_no"`
	VehicleNo         string    `json:"vehicle_no"`
	Delivery          string    `json:"delivery"`
	AssessableValue   float64   `json:"assessable_value"`
	FinalInvoiceValue float64   `json:"final_invoice_value"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Detail models one product line within an invoice.
type Detail struct {
	ID        int64   `json:"id"`
	InvoiceID int64   `json:"invoice_id"`
	ProductID int64   `json:"product_id"`
	TotalKgs  float64 `json:"total_kgs"`
	Rate      float64 `json:"rate"`
	Packs     int     `json:"packs"`
}

// Invoice bundles a header with its line items.
type Invoice struct {
	Header
	Details []Detail `json:"details"`
}

// ErrNoLineItems indicates a create call without details.
var ErrNoLineItems = errors.New("invoice: at least one line item required")

// ErrDuplicateInvoiceNo indicates the invoice number is already taken.
var ErrDuplicateInvoiceNo = errors.New("invoice: invoice number already exists")
