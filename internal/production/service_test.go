package production

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

type memoryRepo struct {
	mu      sync.Mutex
	stock   map[int64]float64
	entries map[int64]Entry
	nextID  int64
}

func newMemoryRepo(stockSeed map[int64]float64) *memoryRepo {
	r := &memoryRepo{stock: make(map[int64]float64), entries: make(map[int64]Entry)}
	for id, qty := range stockSeed {
		r.stock[id] = qty
	}
	return r
}

type memoryTx struct {
	repo    *memoryRepo
	inserts []int64
	adds    map[int64]float64
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &memoryTx{repo: r, adds: make(map[int64]float64)}
	if err := fn(ctx, tx); err != nil {
		for _, id := range tx.inserts {
			delete(r.entries, id)
		}
		for productID, kgs := range tx.adds {
			r.stock[productID] -= kgs
		}
		return err
	}
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id int64) (Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return Entry{}, shared.ErrNotFound
	}
	return e, nil
}

func (r *memoryRepo) List(ctx context.Context, filters shared.ListFilters) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Entry{}
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, nil
}

func (tx *memoryTx) InsertEntry(ctx context.Context, e Entry) (int64, error) {
	tx.repo.nextID++
	e.ID = tx.repo.nextID
	e.CreatedAt = time.Now()
	tx.repo.entries[e.ID] = e
	tx.inserts = append(tx.inserts, e.ID)
	return e.ID, nil
}

func (tx *memoryTx) AddStock(ctx context.Context, productID int64, kgs float64) (float64, error) {
	if kgs <= 0 {
		return 0, stock.ErrInvalidQuantity
	}
	current, ok := tx.repo.stock[productID]
	if !ok {
		return 0, stock.ErrProductNotFound
	}
	tx.repo.stock[productID] = current + kgs
	tx.adds[productID] += kgs
	return current + kgs, nil
}

func TestCommitIncrementsStock(t *testing.T) {
	repo := newMemoryRepo(map[int64]float64{1: 0})
	svc := NewService(repo)
	ctx := context.Background()

	entry, err := svc.Commit(ctx, CommitInput{
		Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ProductID:     1,
		ProductionKgs: 500,
	})
	require.NoError(t, err)
	require.NotZero(t, entry.ID)
	require.InDelta(t, 500, repo.stock[1], 0.0001)

	_, err = svc.Commit(ctx, CommitInput{ProductID: 1, ProductionKgs: 120.5})
	require.NoError(t, err)
	require.InDelta(t, 620.5, repo.stock[1], 0.0001)
}

func TestCommitValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(map[int64]float64{1: 0}))
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{ProductID: 0, ProductionKgs: 10})
	require.ErrorIs(t, err, ErrProductRequired)

	_, err = svc.Commit(ctx, CommitInput{ProductID: 1, ProductionKgs: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Commit(ctx, CommitInput{ProductID: 1, ProductionKgs: -4})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestCommitRollsBackOnUnknownProduct(t *testing.T) {
	repo := newMemoryRepo(map[int64]float64{1: 100})
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Commit(ctx, CommitInput{ProductID: 99, ProductionKgs: 50})
	require.True(t, errors.Is(err, stock.ErrProductNotFound))
	require.Empty(t, repo.entries)
	require.InDelta(t, 100, repo.stock[1], 0.0001)
}
