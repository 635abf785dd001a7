package orders

import "time"

// CreateRequest is the order entry payload.
type CreateRequest struct {
	OrderNo       string          `json:"order_no" validate:"required,max=40"`
	Date          time.Time       `json:"date" validate:"required"`
	AccountCode   string          `json:"account_code" validate:"required,max=20"`
	BrokerID      *int64          `json:"broker_id,omitempty" validate:"omitempty,gt=0"`
	TransportID   *int64          `json:"transport_id,omitempty" validate:"omitempty,gt=0"`
	InvoiceTypeID int64           `json:"invoice_type_id" validate:"required,gt=0"`
	Place         string          `json:"place" validate:"max=100"`
	IsWithOrder   bool            `json:"is_with_order"`
	Details       []CreateLineReq `json:"details" validate:"required,min=1,dive"`
}

// CreateLineReq is one ordered line in the entry payload.
type CreateLineReq struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Qty       float64 `json:"qty" validate:"required,gt=0"`
	RateCr    float64 `json:"rate_cr" validate:"gte=0"`
	RateImm   float64 `json:"rate_imm" validate:"gte=0"`
	RatePer   string  `json:"rate_per" validate:"max=20"`
	BagWt     float64 `json:"bag_wt" validate:"gte=0"`
}
