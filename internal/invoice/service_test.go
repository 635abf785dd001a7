package invoice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
	"github.com/spinmill-erp/spinmill-erp/internal/stock"
)

// memoryStore is a transactional in-memory repository. WithTx holds the
// lock for the whole callback and restores a snapshot on error, matching
// the all-or-nothing contract of the SQL repository.
type memoryStore struct {
	mu      sync.Mutex
	stock   map[int64]float64
	headers map[int64]Header
	details map[int64][]Detail
	nextID  int64
}

func newMemoryStore(stockSeed map[int64]float64) *memoryStore {
	s := &memoryStore{
		stock:   make(map[int64]float64),
		headers: make(map[int64]Header),
		details: make(map[int64][]Detail),
	}
	for id, qty := range stockSeed {
		s.stock[id] = qty
	}
	return s
}

type snapshot struct {
	stock   map[int64]float64
	headers map[int64]Header
	details map[int64][]Detail
	nextID  int64
}

func (s *memoryStore) snapshot() snapshot {
	snap := snapshot{
		stock:   make(map[int64]float64, len(s.stock)),
		headers: make(map[int64]Header, len(s.headers)),
		details: make(map[int64][]Detail, len(s.details)),
		nextID:  s.nextID,
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.headers {
		snap.headers[k] = v
	}
	for k, v := range s.details {
		snap.details[k] = append([]Detail(nil), v...)
	}
	return snap
}

func (s *memoryStore) restore(snap snapshot) {
	s.stock = snap.stock
	s.headers = snap.headers
	s.details = snap.details
	s.nextID = snap.nextID
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

func (s *memoryStore) GetByID(ctx context.Context, id int64) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[id]
	if !ok {
		return Invoice{}, shared.ErrNotFound
	}
	return Invoice{Header: h, Details: append([]Detail(nil), s.details[id]...)}, nil
}

func (s *memoryStore) GetByInvoiceNo(ctx context.Context, invoiceNo string) (Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, h := range s.headers {
		if h.InvoiceNo == invoiceNo {
			return Invoice{Header: h, Details: append([]Detail(nil), s.details[id]...)}, nil
		}
	}
	return Invoice{}, shared.ErrNotFound
}

func (s *memoryStore) List(ctx context.Context, filters shared.ListFilters) ([]Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Header{}
	for _, h := range s.headers {
		if filters.Status != "" && string(h.Status) != filters.Status {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (s *memoryStore) PrintData(ctx context.Context, invoiceNo string) (PrintData, error) {
	return PrintData{}, shared.ErrNotFound
}

func (s *memoryStore) stockLevel(productID int64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[productID]
}

type memoryTx struct {
	store *memoryStore
}

func (tx *memoryTx) InsertHeader(ctx context.Context, h Header) (int64, error) {
	for _, existing := range tx.store.headers {
		if existing.InvoiceNo == h.InvoiceNo {
			return 0, ErrDuplicateInvoiceNo
		}
	}
	tx.store.nextID++
	h.ID = tx.store.nextID
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	tx.store.headers[h.ID] = h
	return h.ID, nil
}

func (tx *memoryTx) InsertDetail(ctx context.Context, d Detail) error {
	tx.store.details[d.InvoiceID] = append(tx.store.details[d.InvoiceID], d)
	return nil
}

func (tx *memoryTx) GetHeaderForUpdate(ctx context.Context, id int64) (Header, error) {
	h, ok := tx.store.headers[id]
	if !ok {
		return Header{}, shared.ErrNotFound
	}
	return h, nil
}

func (tx *memoryTx) SetStatus(ctx context.Context, id int64, status Status) error {
	h, ok := tx.store.headers[id]
	if !ok {
		return shared.ErrNotFound
	}
	h.Status = status
	h.UpdatedAt = time.Now()
	tx.store.headers[id] = h
	return nil
}

func (tx *memoryTx) ListDetails(ctx context.Context, invoiceID int64) ([]Detail, error) {
	return append([]Detail(nil), tx.store.details[invoiceID]...), nil
}

func (tx *memoryTx) AddStock(ctx context.Context, productID int64, kgs float64) (float64, error) {
	if kgs <= 0 {
		return 0, stock.ErrInvalidQuantity
	}
	current, ok := tx.store.stock[productID]
	if !ok {
		return 0, stock.ErrProductNotFound
	}
	tx.store.stock[productID] = current + kgs
	return current + kgs, nil
}

func (tx *memoryTx) RemoveStock(ctx context.Context, productID int64, kgs float64, allowNegative bool) (float64, error) {
	if kgs <= 0 {
		return 0, stock.ErrInvalidQuantity
	}
	current, ok := tx.store.stock[productID]
	if !ok {
		return 0, stock.ErrProductNotFound
	}
	next := current - kgs
	if next < 0 && !allowNegative {
		return 0, stock.ErrInsufficientStock
	}
	tx.store.stock[productID] = next
	return next, nil
}

type approvalRecorder struct {
	mu      sync.Mutex
	actions []shared.ApprovalAction
}

func (r *approvalRecorder) Record(ctx context.Context, log shared.ApprovalLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, log.Action)
	return nil
}

func createReq(invoiceNo string, lines ...CreateLineReq) CreateRequest {
	return CreateRequest{
		InvoiceNo:   invoiceNo,
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		AccountCode: "ACC001",
		Details:     lines,
	}
}

func TestCreateDecrementsStockPerLine(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 500, 2: 300})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	inv, err := svc.Create(ctx, createReq("INV-001",
		CreateLineReq{ProductID: 1, TotalKgs: 200, Rate: 50, Packs: 4},
		CreateLineReq{ProductID: 2, TotalKgs: 100, Rate: 40, Packs: 2},
	))
	require.NoError(t, err)
	require.Equal(t, StatusPending, inv.Status)
	require.Len(t, inv.Details, 2)
	require.InDelta(t, 300, store.stockLevel(1), 0.0001)
	require.InDelta(t, 200, store.stockLevel(2), 0.0001)
}

func TestCreateValidation(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 100})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	req := createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 10})
	req.AccountCode = ""
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, createReq("INV-001"))
	require.ErrorIs(t, err, ErrNoLineItems)

	_, err = svc.Create(ctx, createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 0}))
	require.ErrorIs(t, err, shared.ErrValidation)

	require.InDelta(t, 100, store.stockLevel(1), 0.0001)
}

func TestCreateRollsBackAllLinesOnFailure(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 500, 2: 50})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	// Second line exceeds stock; the first line's decrement must be undone.
	_, err := svc.Create(ctx, createReq("INV-001",
		CreateLineReq{ProductID: 1, TotalKgs: 200},
		CreateLineReq{ProductID: 2, TotalKgs: 80},
	))
	require.ErrorIs(t, err, stock.ErrInsufficientStock)
	require.InDelta(t, 500, store.stockLevel(1), 0.0001)
	require.InDelta(t, 50, store.stockLevel(2), 0.0001)

	// Unknown product mid-sequence rolls back header and earlier lines too.
	_, err = svc.Create(ctx, createReq("INV-002",
		CreateLineReq{ProductID: 1, TotalKgs: 10},
		CreateLineReq{ProductID: 99, TotalKgs: 10},
	))
	require.ErrorIs(t, err, stock.ErrProductNotFound)
	require.InDelta(t, 500, store.stockLevel(1), 0.0001)
	_, err = store.GetByInvoiceNo(ctx, "INV-002")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDuplicateInvoiceNo(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 100})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Create(ctx, createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 10}))
	require.NoError(t, err)

	_, err = svc.Create(ctx, createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 10}))
	require.ErrorIs(t, err, ErrDuplicateInvoiceNo)
	require.InDelta(t, 90, store.stockLevel(1), 0.0001)
}

func TestApproveIsNonDestructive(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 500})
	approvals := &approvalRecorder{}
	svc := NewService(store, approvals, nil, ServiceConfig{})
	ctx := context.Background()

	inv, err := svc.Create(ctx, createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 200, Rate: 50}))
	require.NoError(t, err)
	require.InDelta(t, 300, store.stockLevel(1), 0.0001)

	require.NoError(t, svc.Approve(ctx, inv.ID))
	require.InDelta(t, 300, store.stockLevel(1), 0.0001)

	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, got.Status)
	require.Equal(t, []shared.ApprovalAction{shared.ApprovalSubmit, shared.ApprovalApprove}, approvals.actions)

	// Approved is terminal.
	require.ErrorIs(t, svc.Approve(ctx, inv.ID), shared.ErrInvalidState)
	require.ErrorIs(t, svc.Reject(ctx, inv.ID), shared.ErrInvalidState)
}

func TestApproveMissingInvoice(t *testing.T) {
	svc := NewService(newMemoryStore(nil), nil, nil, ServiceConfig{})
	require.ErrorIs(t, svc.Approve(context.Background(), 42), shared.ErrNotFound)
	require.ErrorIs(t, svc.Reject(context.Background(), 42), shared.ErrNotFound)
}

func TestRejectReversesCreateExactly(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 500, 2: 300})
	approvals := &approvalRecorder{}
	svc := NewService(store, approvals, nil, ServiceConfig{})
	ctx := context.Background()

	inv, err := svc.Create(ctx, createReq("INV-001",
		CreateLineReq{ProductID: 1, TotalKgs: 120},
		CreateLineReq{ProductID: 2, TotalKgs: 75.5},
	))
	require.NoError(t, err)
	require.InDelta(t, 380, store.stockLevel(1), 0.0001)
	require.InDelta(t, 224.5, store.stockLevel(2), 0.0001)

	require.NoError(t, svc.Reject(ctx, inv.ID))
	require.InDelta(t, 500, store.stockLevel(1), 0.0001)
	require.InDelta(t, 300, store.stockLevel(2), 0.0001)

	got, err := svc.Get(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRejected, got.Status)
	require.Equal(t, []shared.ApprovalAction{shared.ApprovalSubmit, shared.ApprovalReject}, approvals.actions)

	// Rejected is terminal.
	require.ErrorIs(t, svc.Reject(ctx, inv.ID), shared.ErrInvalidState)
	require.ErrorIs(t, svc.Approve(ctx, inv.ID), shared.ErrInvalidState)
}

func TestStockConservation(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 1000})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	first, err := svc.Create(ctx, createReq("INV-001", CreateLineReq{ProductID: 1, TotalKgs: 100}))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createReq("INV-002", CreateLineReq{ProductID: 1, TotalKgs: 250}))
	require.NoError(t, err)
	third, err := svc.Create(ctx, createReq("INV-003", CreateLineReq{ProductID: 1, TotalKgs: 50}))
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, first.ID))
	require.NoError(t, svc.Reject(ctx, second.ID))
	_ = third // stays pending

	// initial − (pending + approved kgs); the rejected invoice nets zero.
	require.InDelta(t, 1000-100-50, store.stockLevel(1), 0.0001)
}

func TestConcurrentCreatesSerialise(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 100})
	svc := NewService(store, nil, nil, ServiceConfig{})
	ctx := context.Background()

	const attempts = 150
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := createReq("INV-"+string(rune('A'+i/26))+string(rune('A'+i%26)),
				CreateLineReq{ProductID: 1, TotalKgs: 1})
			_, errs[i] = svc.Create(ctx, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, errors.Is(err, stock.ErrInsufficientStock), "unexpected error: %v", err)
		}
	}
	require.Equal(t, 100, succeeded)
	require.InDelta(t, 0, store.stockLevel(1), 0.0001)
}

func TestConcurrentCreatesNegativeAllowed(t *testing.T) {
	store := newMemoryStore(map[int64]float64{1: 100})
	svc := NewService(store, nil, nil, ServiceConfig{AllowNegativeStock: true})
	ctx := context.Background()

	const attempts = 120
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := createReq("NEG-"+string(rune('A'+i/26))+string(rune('A'+i%26)),
				CreateLineReq{ProductID: 1, TotalKgs: 1})
			_, errs[i] = svc.Create(ctx, req)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.InDelta(t, -20, store.stockLevel(1), 0.0001)
}
