package shared

import "time"

// ListFilters represents standard list filters for collection endpoints.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	// Entity specific filters
	Party     string
	ProductID *int64
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Offset converts page/limit into a row offset.
func (f ListFilters) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
