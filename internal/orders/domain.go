// Package orders manages sale orders placed by export parties. Orders
// carry commercial terms only; mill stock moves when invoices are cut
// against them, never at order time.
package orders

import (
	"errors"
	"time"
)

// Order statuses. Orders open on creation and close when fully invoiced.
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Header is the order master row.
type Header struct {
	ID            int64     `json:"id"`
	OrderNo       string    `json:"order_no"`
	Date          time.Time `json:"date"`
	AccountCode   string    `json:"account_code"`
	BrokerID      *int64    `json:"broker_id,omitempty"`
	TransportID   *int64    `json:"transport_id,omitempty"`
	InvoiceTypeID int64     `json:"invoice_type_id"`
	Place         string    `json:"place"`
	IsWithOrder   bool      `json:"is_with_order"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Detail is one ordered product line with its rate terms.
type Detail struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order_id"`
	ProductID int64   `json:"product_id"`
	Qty       float64 `json:"qty"`
	RateCr    float64 `json:"rate_cr"`
	RateImm   float64 `json:"rate_imm"`
	RatePer   string  `json:"rate_per"`
	BagWt     float64 `json:"bag_wt"`
}

// Order is the aggregate handed to callers.
type Order struct {
	Header
	Details []Detail `json:"details"`
}

// ErrNoLineItems indicates an order submitted without any detail lines.
var ErrNoLineItems = errors.New("orders: at least one line item required")

// ErrDuplicateOrderNo indicates an order number already in use.
var ErrDuplicateOrderNo = errors.New("orders: order number already exists")
