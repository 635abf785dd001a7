package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

type memoryStore struct {
	mu      sync.Mutex
	headers map[int64]Header
	details map[int64][]Detail
	byNo    map[string]int64
	nextID  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		headers: make(map[int64]Header),
		details: make(map[int64][]Detail),
		byNo:    make(map[string]int64),
	}
}

type memorySnapshot struct {
	headers map[int64]Header
	details map[int64][]Detail
	byNo    map[string]int64
	nextID  int64
}

func (s *memoryStore) snapshot() memorySnapshot {
	snap := memorySnapshot{
		headers: make(map[int64]Header, len(s.headers)),
		details: make(map[int64][]Detail, len(s.details)),
		byNo:    make(map[string]int64, len(s.byNo)),
		nextID:  s.nextID,
	}
	for k, v := range s.headers {
		snap.headers[k] = v
	}
	for k, v := range s.details {
		snap.details[k] = append([]Detail(nil), v...)
	}
	for k, v := range s.byNo {
		snap.byNo[k] = v
	}
	return snap
}

func (s *memoryStore) restore(snap memorySnapshot) {
	s.headers = snap.headers
	s.details = snap.details
	s.byNo = snap.byNo
	s.nextID = snap.nextID
}

type memoryTx struct {
	store *memoryStore
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(ctx, &memoryTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[id]
	if !ok {
		return Order{}, shared.ErrNotFound
	}
	return Order{Header: h, Details: append([]Detail(nil), s.details[id]...)}, nil
}

func (s *memoryStore) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Header{}
	for _, h := range s.headers {
		if filters.Status != "" && h.Status != filters.Status {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (tx *memoryTx) InsertHeader(ctx context.Context, h Header) (int64, error) {
	if _, exists := tx.store.byNo[h.OrderNo]; exists {
		return 0, ErrDuplicateOrderNo
	}
	tx.store.nextID++
	h.ID = tx.store.nextID
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	tx.store.headers[h.ID] = h
	tx.store.byNo[h.OrderNo] = h.ID
	return h.ID, nil
}

func (tx *memoryTx) InsertDetail(ctx context.Context, d Detail) error {
	d.ID = int64(len(tx.store.details[d.OrderID]) + 1)
	tx.store.details[d.OrderID] = append(tx.store.details[d.OrderID], d)
	return nil
}

func (tx *memoryTx) GetHeaderForUpdate(ctx context.Context, id int64) (Header, error) {
	h, ok := tx.store.headers[id]
	if !ok {
		return Header{}, shared.ErrNotFound
	}
	return h, nil
}

func (tx *memoryTx) SetStatus(ctx context.Context, id int64, status string) error {
	h, ok := tx.store.headers[id]
	if !ok {
		return shared.ErrNotFound
	}
	h.Status = status
	h.UpdatedAt = time.Now()
	tx.store.headers[id] = h
	return nil
}

func validRequest() CreateRequest {
	return CreateRequest{
		OrderNo:       "ORD-001",
		Date:          time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		AccountCode:   "EXP01",
		InvoiceTypeID: 1,
		Place:         "Tirupur",
		Details: []CreateLineReq{
			{ProductID: 1, Qty: 5000, RateCr: 310, RateImm: 305, RatePer: "KG", BagWt: 50},
			{ProductID: 2, Qty: 2500, RateCr: 280, RateImm: 275, RatePer: "KG", BagWt: 50},
		},
	}
}

func TestCreateStoresHeaderAndLines(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)

	order, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.Equal(t, StatusOpen, order.Status)
	require.Len(t, order.Details, 2)
	require.Equal(t, "ORD-001", order.OrderNo)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryStore())
	ctx := context.Background()

	req := validRequest()
	req.OrderNo = "  "
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)

	req = validRequest()
	req.Details = nil
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, ErrNoLineItems)

	req = validRequest()
	req.Details[1].Qty = 0
	_, err = svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRollsBackOnBadLine(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)

	req := validRequest()
	req.Details[1].ProductID = 0
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	require.Empty(t, store.headers)
	require.Empty(t, store.details)
}

func TestDuplicateOrderNo(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, validRequest())
	require.True(t, errors.Is(err, ErrDuplicateOrderNo))
}

func TestCloseIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store)
	ctx := context.Background()

	order, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	closed, err := svc.Close(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, closed.Status)

	again, err := svc.Close(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, again.Status)

	_, err = svc.Close(ctx, 9999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
