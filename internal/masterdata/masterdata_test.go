package masterdata

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

func TestBuildListQueryPlain(t *testing.T) {
	query, args := buildListQuery(brokerDesc, shared.ListFilters{})
	require.Equal(t,
		`SELECT id, broker_name, place, commission FROM brokers ORDER BY broker_name`, query)
	require.Empty(t, args)
}

func TestBuildListQuerySearchAndPaging(t *testing.T) {
	query, args := buildListQuery(accountDesc, shared.ListFilters{
		Search: "tirupur",
		Page:   2,
		Limit:  25,
	})
	require.Contains(t, query, `(account_code ILIKE $1 OR account_name ILIKE $1 OR place ILIKE $1)`)
	require.Contains(t, query, `ORDER BY account_name`)
	require.Contains(t, query, `LIMIT $2 OFFSET $3`)
	require.Equal(t, []any{"%tirupur%", 25, 25}, args)
}

func TestProductUpdateExcludesMillStock(t *testing.T) {
	require.NotContains(t, productDesc.UpdateCols, "mill_stock")
	require.Contains(t, productDesc.InsertCols, "mill_stock")
	require.Len(t, productDesc.UpdateVals(Product{}), len(productDesc.UpdateCols))
}

func TestDescriptorShapes(t *testing.T) {
	// every descriptor's scan list must match its column list, and
	// insert values must match insert columns.
	checkDesc(t, accountDesc, Account{})
	checkDesc(t, brokerDesc, Broker{})
	checkDesc(t, transportDesc, Transport{})
	checkDesc(t, tariffDesc, TariffSubHead{})
	checkDesc(t, packingTypeDesc, PackingType{})
	checkDesc(t, spinningCountDesc, SpinningCount{})
	checkDesc(t, invoiceTypeDesc, InvoiceType{})
	checkDesc(t, productDesc, Product{})
	checkDesc(t, despatchDesc, DespatchEntry{})
	checkDesc(t, depotReceiptDesc, DepotReceipt{})
}

func checkDesc[T any](t *testing.T, desc Descriptor[T], zero T) {
	t.Helper()
	require.Len(t, desc.ScanDest(&zero), len(desc.Columns), desc.Name)
	require.Len(t, desc.InsertVals(zero), len(desc.InsertCols), desc.Name)
}

type memoryRepo[T any] struct {
	mu     sync.Mutex
	items  map[int64]T
	nextID int64
	setID  func(*T, int64)
}

func newMemoryRepo[T any](setID func(*T, int64)) *memoryRepo[T] {
	return &memoryRepo[T]{items: make(map[int64]T), setID: setID}
}

func (m *memoryRepo[T]) List(ctx context.Context, filters shared.ListFilters) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []T{}
	for _, v := range m.items {
		out = append(out, v)
	}
	return out, nil
}

func (m *memoryRepo[T]) Get(ctx context.Context, id int64) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[id]
	if !ok {
		var zero T
		return zero, shared.ErrNotFound
	}
	return v, nil
}

func (m *memoryRepo[T]) Create(ctx context.Context, e T) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.setID(&e, m.nextID)
	m.items[m.nextID] = e
	return m.nextID, nil
}

func (m *memoryRepo[T]) Update(ctx context.Context, id int64, e T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	m.setID(&e, id)
	m.items[id] = e
	return nil
}

func (m *memoryRepo[T]) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func TestServiceValidation(t *testing.T) {
	repo := newMemoryRepo[Broker](func(b *Broker, id int64) { b.ID = id })
	svc := NewService[Broker](repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, Broker{Place: "Karur"})
	require.ErrorIs(t, err, shared.ErrValidation)

	created, err := svc.Create(ctx, Broker{BrokerName: "KPR Agencies", Place: "Karur", Commission: 1.5})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	_, err = svc.Update(ctx, 0, created)
	require.ErrorIs(t, err, shared.ErrValidation)

	created.Commission = -1
	_, err = svc.Update(ctx, created.ID, created)
	require.ErrorIs(t, err, shared.ErrValidation)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), shared.ErrNotFound)
}
