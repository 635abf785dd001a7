package report

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	daybookCalls atomic.Int64
	rg1Calls     atomic.Int64
	rows         []DayBookRow
	rg1Rows      []RG1Row
}

func (f *fakeRepo) DayBookRows(ctx context.Context, from, to time.Time) ([]DayBookRow, error) {
	f.daybookCalls.Add(1)
	return f.rows, nil
}

func (f *fakeRepo) RG1Rows(ctx context.Context, from, to time.Time) ([]RG1Row, error) {
	f.rg1Calls.Add(1)
	return f.rg1Rows, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &fakeRepo{
		rows: []DayBookRow{
			{InvoiceID: 1, InvoiceNo: "INV-1", Bags: 10, WeightKgs: 500, Amount: 150000},
			{InvoiceID: 2, InvoiceNo: "INV-2", Bags: 4, WeightKgs: 200, Amount: 61000},
		},
		rg1Rows: []RG1Row{
			{EntryID: 1, ProductionKgs: 900},
			{EntryID: 2, ProductionKgs: 350.5},
		},
	}
	return NewService(repo, NewCache(client, time.Minute)), repo
}

func TestDayBookTotalsAndCacheHit(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	book, err := svc.DayBook(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, book.Rows, 2)
	require.Equal(t, 14, book.TotalBags)
	require.InDelta(t, 700, book.TotalKgs, 0.0001)
	require.InDelta(t, 211000, book.TotalAmt, 0.0001)

	// second call is served from redis
	again, err := svc.DayBook(ctx, from, to)
	require.NoError(t, err)
	require.Equal(t, book.TotalBags, again.TotalBags)
	require.EqualValues(t, 1, repo.daybookCalls.Load())
}

func TestRG1Totals(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	stmt, err := svc.RG1(ctx, from, from)
	require.NoError(t, err)
	require.Len(t, stmt.Rows, 2)
	require.InDelta(t, 1250.5, stmt.TotalKgs, 0.0001)

	_, err = svc.RG1(ctx, from, from)
	require.NoError(t, err)
	require.EqualValues(t, 1, repo.rg1Calls.Load())
}

func TestConcurrentDayBookSingleLoad(t *testing.T) {
	svc, repo := newTestService(t)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.DayBook(context.Background(), from, from)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	// singleflight plus the cache keep the repo to one query
	require.EqualValues(t, 1, repo.daybookCalls.Load())
}

func TestNilCacheFallsBackToLoader(t *testing.T) {
	repo := &fakeRepo{rows: []DayBookRow{{InvoiceID: 1, Bags: 2, WeightKgs: 100}}}
	svc := NewService(repo, nil)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	book, err := svc.DayBook(context.Background(), from, from)
	require.NoError(t, err)
	require.Equal(t, 2, book.TotalBags)

	_, err = svc.DayBook(context.Background(), from, from)
	require.NoError(t, err)
	require.EqualValues(t, 2, repo.daybookCalls.Load())
}
