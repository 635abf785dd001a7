package report

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// RepositoryPort abstracts the projection queries for the service.
type RepositoryPort interface {
	DayBookRows(ctx context.Context, from, to time.Time) ([]DayBookRow, error)
	RG1Rows(ctx context.Context, from, to time.Time) ([]RG1Row, error)
}

// Service builds report projections behind the cache.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	group singleflight.Group
}

// NewService builds Service.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

const dateKey = "2006-01-02"

// DayBook returns the sales day book for the range.
func (s *Service) DayBook(ctx context.Context, from, to time.Time) (DayBook, error) {
	key := "report:daybook:" + from.Format(dateKey) + ":" + to.Format(dateKey)
	v, err, _ := s.group.Do(key, func() (any, error) {
		var book DayBook
		err := s.cache.FetchJSON(ctx, key, &book, func(ctx context.Context) (any, error) {
			rows, err := s.repo.DayBookRows(ctx, from, to)
			if err != nil {
				return nil, err
			}
			return buildDayBook(from, to, rows), nil
		})
		return book, err
	})
	if err != nil {
		return DayBook{}, err
	}
	return v.(DayBook), nil
}

// RG1 returns the production register for the range.
func (s *Service) RG1(ctx context.Context, from, to time.Time) (RG1Statement, error) {
	key := "report:rg1:" + from.Format(dateKey) + ":" + to.Format(dateKey)
	v, err, _ := s.group.Do(key, func() (any, error) {
		var stmt RG1Statement
		err := s.cache.FetchJSON(ctx, key, &stmt, func(ctx context.Context) (any, error) {
			rows, err := s.repo.RG1Rows(ctx, from, to)
			if err != nil {
				return nil, err
			}
			return buildRG1(from, to, rows), nil
		})
		return stmt, err
	})
	if err != nil {
		return RG1Statement{}, err
	}
	return v.(RG1Statement), nil
}

func buildDayBook(from, to time.Time, rows []DayBookRow) DayBook {
	book := DayBook{From: from, To: to, Rows: rows}
	for _, row := range rows {
		book.TotalKgs += row.WeightKgs
		book.TotalBags += row.Bags
		book.TotalAmt += row.Amount
	}
	return book
}

func buildRG1(from, to time.Time, rows []RG1Row) RG1Statement {
	stmt := RG1Statement{From: from, To: to, Rows: rows}
	for _, row := range rows {
		stmt.TotalKgs += row.ProductionKgs
	}
	return stmt
}
