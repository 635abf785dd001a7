package masterdata

// Descriptors for every master entity. Kept together so the table
// shapes read like a schema.

var accountDesc = Descriptor[Account]{
	Name:  "account",
	Table: "accounts",
	Columns: []string{"id", "account_code", "account_name", "address", "place",
		"gst_no", "state_code", "created_at", "updated_at"},
	ScanDest: func(a *Account) []any {
		return []any{&a.ID, &a.AccountCode, &a.AccountName, &a.Address, &a.Place,
			&a.GstNo, &a.StateCode, &a.CreatedAt, &a.UpdatedAt}
	},
	InsertCols: []string{"account_code", "account_name", "address", "place", "gst_no", "state_code"},
	InsertVals: func(a Account) []any {
		return []any{a.AccountCode, a.AccountName, a.Address, a.Place, a.GstNo, a.StateCode}
	},
	SearchCols: []string{"account_code", "account_name", "place"},
	OrderBy:    "account_name",
	Timestamps: true,
}

var brokerDesc = Descriptor[Broker]{
	Name:    "broker",
	Table:   "brokers",
	Columns: []string{"id", "broker_name", "place", "commission"},
	ScanDest: func(b *Broker) []any {
		return []any{&b.ID, &b.BrokerName, &b.Place, &b.Commission}
	},
	InsertCols: []string{"broker_name", "place", "commission"},
	InsertVals: func(b Broker) []any { return []any{b.BrokerName, b.Place, b.Commission} },
	SearchCols: []string{"broker_name", "place"},
	OrderBy:    "broker_name",
}

var transportDesc = Descriptor[Transport]{
	Name:    "transport",
	Table:   "transports",
	Columns: []string{"id", "transport_name", "place", "gst_no"},
	ScanDest: func(t *Transport) []any {
		return []any{&t.ID, &t.TransportName, &t.Place, &t.GstNo}
	},
	InsertCols: []string{"transport_name", "place", "gst_no"},
	InsertVals: func(t Transport) []any { return []any{t.TransportName, t.Place, t.GstNo} },
	SearchCols: []string{"transport_name", "place"},
	OrderBy:    "transport_name",
}

var tariffDesc = Descriptor[TariffSubHead]{
	Name:    "tariff",
	Table:   "tariff_sub_heads",
	Columns: []string{"id", "tariff_no", "tariff_name"},
	ScanDest: func(t *TariffSubHead) []any {
		return []any{&t.ID, &t.TariffNo, &t.TariffName}
	},
	InsertCols: []string{"tariff_no", "tariff_name"},
	InsertVals: func(t TariffSubHead) []any { return []any{t.TariffNo, t.TariffName} },
	SearchCols: []string{"tariff_no", "tariff_name"},
	OrderBy:    "tariff_no",
}

var packingTypeDesc = Descriptor[PackingType]{
	Name:    "packing-type",
	Table:   "packing_types",
	Columns: []string{"id", "packing_name", "bag_wt", "no_of_cones"},
	ScanDest: func(p *PackingType) []any {
		return []any{&p.ID, &p.PackingName, &p.BagWt, &p.NoOfCones}
	},
	InsertCols: []string{"packing_name", "bag_wt", "no_of_cones"},
	InsertVals: func(p PackingType) []any { return []any{p.PackingName, p.BagWt, p.NoOfCones} },
	SearchCols: []string{"packing_name"},
	OrderBy:    "packing_name",
}

var spinningCountDesc = Descriptor[SpinningCount]{
	Name:       "spinning-count",
	Table:      "spinning_counts",
	Columns:    []string{"id", "count_name"},
	ScanDest:   func(s *SpinningCount) []any { return []any{&s.ID, &s.CountName} },
	InsertCols: []string{"count_name"},
	InsertVals: func(s SpinningCount) []any { return []any{s.CountName} },
	SearchCols: []string{"count_name"},
	OrderBy:    "count_name",
}

var invoiceTypeDesc = Descriptor[InvoiceType]{
	Name:       "invoice-type",
	Table:      "invoice_types",
	Columns:    []string{"id", "type_name", "prefix"},
	ScanDest:   func(t *InvoiceType) []any { return []any{&t.ID, &t.TypeName, &t.Prefix} },
	InsertCols: []string{"type_name", "prefix"},
	InsertVals: func(t InvoiceType) []any { return []any{t.TypeName, t.Prefix} },
	SearchCols: []string{"type_name"},
	OrderBy:    "type_name",
}

// productDesc omits mill_stock from the update set: the opening balance
// is written once at create and only stock transactions may move it.
// opening_stock mirrors mill_stock on insert and is never editable.
var productDesc = Descriptor[Product]{
	Name:  "product",
	Table: "products",
	Columns: []string{"id", "product_code", "product_name", "tariff_sub_head_id",
		"spinning_count_id", "packing_type_id", "mill_stock", "opening_stock", "created_at", "updated_at"},
	ScanDest: func(p *Product) []any {
		return []any{&p.ID, &p.ProductCode, &p.ProductName, &p.TariffSubHeadID,
			&p.SpinningCountID, &p.PackingTypeID, &p.MillStock, &p.OpeningStock, &p.CreatedAt, &p.UpdatedAt}
	},
	InsertCols: []string{"product_code", "product_name", "tariff_sub_head_id",
		"spinning_count_id", "packing_type_id", "mill_stock", "opening_stock"},
	InsertVals: func(p Product) []any {
		return []any{p.ProductCode, p.ProductName, p.TariffSubHeadID,
			p.SpinningCountID, p.PackingTypeID, p.MillStock, p.MillStock}
	},
	UpdateCols: []string{"product_code", "product_name", "tariff_sub_head_id",
		"spinning_count_id", "packing_type_id"},
	UpdateVals: func(p Product) []any {
		return []any{p.ProductCode, p.ProductName, p.TariffSubHeadID,
			p.SpinningCountID, p.PackingTypeID}
	},
	SearchCols: []string{"product_code", "product_name"},
	OrderBy:    "product_code",
	Timestamps: true,
}

var despatchDesc = Descriptor[DespatchEntry]{
	Name:  "despatch",
	Table: "despatch_entries",
	Columns: []string{"id", "date", "account_code", "transport_id", "vehicle_no",
		"bags", "remarks"},
	ScanDest: func(d *DespatchEntry) []any {
		return []any{&d.ID, &d.Date, &d.AccountCode, &d.TransportID, &d.VehicleNo,
			&d.Bags, &d.Remarks}
	},
	InsertCols: []string{"date", "account_code", "transport_id", "vehicle_no", "bags", "remarks"},
	InsertVals: func(d DespatchEntry) []any {
		return []any{d.Date, d.AccountCode, d.TransportID, d.VehicleNo, d.Bags, d.Remarks}
	},
	SearchCols: []string{"account_code", "vehicle_no"},
	OrderBy:    "date DESC, id DESC",
}

var depotReceiptDesc = Descriptor[DepotReceipt]{
	Name:    "depot-receipt",
	Table:   "depot_receipts",
	Columns: []string{"id", "date", "depot_name", "product_id", "qty_kgs", "bags"},
	ScanDest: func(d *DepotReceipt) []any {
		return []any{&d.ID, &d.Date, &d.DepotName, &d.ProductID, &d.QtyKgs, &d.Bags}
	},
	InsertCols: []string{"date", "depot_name", "product_id", "qty_kgs", "bags"},
	InsertVals: func(d DepotReceipt) []any {
		return []any{d.Date, d.DepotName, d.ProductID, d.QtyKgs, d.Bags}
	},
	SearchCols: []string{"depot_name"},
	OrderBy:    "date DESC, id DESC",
}
