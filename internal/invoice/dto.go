package invoice

import "time"

// CreateRequest represents the invoice preparation payload. The Details
// key matches the legacy UI contract.
type CreateRequest struct {
	InvoiceNo         string          `json:"invoice_no" validate:"required,max=50"`
	Date              time.Time       `json:"date" validate:"required"`
	AccountCode       string          `json:"account_code" validate:"required,max=20"`
	InvoiceTypeID     int64           `json:"invoice_type_id" validate:"gte=0"`
	OrderID           *int64          `json:"order_id,omitempty" validate:"omitempty,gt=0"`
	EBillNo           string          `json:"ebill_no,omitempty" validate:"max=50"`
	VehicleNo         string          `json:"vehicle_no,omitempty" validate:"max=20"`
	Delivery          string          `json:"delivery,omitempty" validate:"max=100"`
	AssessableValue   float64         `json:"assessable_value" validate:"gte=0"`
	FinalInvoiceValue float64         `json:"final_invoice_value" validate:"gte=0"`
	Details           []CreateLineReq `json:"Details" validate:"required,min=1,dive"`
}

// CreateLineReq represents one line item in the create payload.
type CreateLineReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	TotalKgs  float64 `json:"total_kgs" validate:"required,gt=0"`
	Rate      float64 `json:"rate" validate:"gte=0"`
	Packs     int     `json:"packs" validate:"gte=0"`
}
