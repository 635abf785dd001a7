// Package masterdata serves the reference screens behind the invoice
// and order forms: parties, brokers, transports, tariff heads, packing
// types, spinning counts, invoice types, despatch and depot registers,
// and the yarn product master itself. Every entity shares the same CRUD
// shape, so persistence and HTTP plumbing are generic over a descriptor.
package masterdata

import (
	"errors"
	"time"
)

// Account is an export party ledger entry.
type Account struct {
	ID          int64     `json:"id"`
	AccountCode string    `json:"account_code" validate:"required,max=20"`
	AccountName string    `json:"account_name" validate:"required,max=120"`
	Address     string    `json:"address" validate:"max=250"`
	Place       string    `json:"place" validate:"max=100"`
	GstNo       string    `json:"gst_no" validate:"max=20"`
	StateCode   string    `json:"state_code" validate:"max=5"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Broker is a commission agent on orders.
type Broker struct {
	ID         int64   `json:"id"`
	BrokerName string  `json:"broker_name" validate:"required,max=120"`
	Place      string  `json:"place" validate:"max=100"`
	Commission float64 `json:"commission" validate:"gte=0"`
}

// Transport is a lorry service carrying despatches.
type Transport struct {
	ID            int64  `json:"id"`
	TransportName string `json:"transport_name" validate:"required,max=120"`
	Place         string `json:"place" validate:"max=100"`
	GstNo         string `json:"gst_no" validate:"max=20"`
}

// TariffSubHead is an HSN tariff classification row.
type TariffSubHead struct {
	ID         int64  `json:"id"`
	TariffNo   string `json:"tariff_no" validate:"required,max=20"`
	TariffName string `json:"tariff_name" validate:"required,max=120"`
}

// PackingType describes how bags are packed.
type PackingType struct {
	ID          int64   `json:"id"`
	PackingName string  `json:"packing_name" validate:"required,max=80"`
	BagWt       float64 `json:"bag_wt" validate:"gte=0"`
	NoOfCones   int     `json:"no_of_cones" validate:"gte=0"`
}

// SpinningCount is a yarn count designation (e.g. 40s combed).
type SpinningCount struct {
	ID        int64  `json:"id"`
	CountName string `json:"count_name" validate:"required,max=80"`
}

// InvoiceType partitions invoice number series (export, local, depot).
type InvoiceType struct {
	ID       int64  `json:"id"`
	TypeName string `json:"type_name" validate:"required,max=80"`
	Prefix   string `json:"prefix" validate:"max=10"`
}

// Product is the yarn product master. MillStock here is the opening
// balance captured at creation; afterwards only the stock ledger and
// the invoice/production transactions may move it. OpeningStock keeps
// the original figure so the integrity scan can recompute the expected
// balance later.
type Product struct {
	ID              int64     `json:"id"`
	ProductCode     string    `json:"product_code" validate:"required,max=30"`
	ProductName     string    `json:"product_name" validate:"required,max=120"`
	TariffSubHeadID *int64    `json:"tariff_sub_head_id,omitempty" validate:"omitempty,gt=0"`
	SpinningCountID *int64    `json:"spinning_count_id,omitempty" validate:"omitempty,gt=0"`
	PackingTypeID   *int64    `json:"packing_type_id,omitempty" validate:"omitempty,gt=0"`
	MillStock       float64   `json:"mill_stock" validate:"gte=0"`
	OpeningStock    float64   `json:"opening_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DespatchEntry records a lorry leaving the mill gate.
type DespatchEntry struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date" validate:"required"`
	AccountCode string    `json:"account_code" validate:"required,max=20"`
	TransportID *int64    `json:"transport_id,omitempty" validate:"omitempty,gt=0"`
	VehicleNo   string    `json:"vehicle_no" validate:"max=20"`
	Bags        int       `json:"bags" validate:"gte=0"`
	Remarks     string    `json:"remarks" validate:"max=250"`
}

// DepotReceipt records stock arriving at an outstation depot.
type DepotReceipt struct {
	ID        int64     `json:"id"`
	Date      time.Time `json:"date" validate:"required"`
	DepotName string    `json:"depot_name" validate:"required,max=120"`
	ProductID int64     `json:"product_id" validate:"required,gt=0"`
	QtyKgs    float64   `json:"qty_kgs" validate:"gte=0"`
	Bags      int       `json:"bags" validate:"gte=0"`
}

// ErrDuplicateCode indicates a unique key collision on create or update.
var ErrDuplicateCode = errors.New("masterdata: code already exists")
