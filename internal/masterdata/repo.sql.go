package masterdata

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spinmill-erp/spinmill-erp/internal/shared"
)

// Descriptor tells the generic repository how one entity maps onto its
// table. Columns lists the full select set with id first; ScanDest must
// return pointers in the same order. UpdateCols/UpdateVals default to
// the insert set when nil.
type Descriptor[T any] struct {
	Name       string
	Table      string
	Columns    []string
	ScanDest   func(*T) []any
	InsertCols []string
	InsertVals func(T) []any
	UpdateCols []string
	UpdateVals func(T) []any
	SearchCols []string
	OrderBy    string
	Timestamps bool
}

// Repo is a generic PostgreSQL repository over one master entity.
type Repo[T any] struct {
	pool *pgxpool.Pool
	desc Descriptor[T]
}

// NewRepo constructs a Repo for the descriptor.
func NewRepo[T any](pool *pgxpool.Pool, desc Descriptor[T]) *Repo[T] {
	if desc.UpdateCols == nil {
		desc.UpdateCols = desc.InsertCols
		desc.UpdateVals = desc.InsertVals
	}
	return &Repo[T]{pool: pool, desc: desc}
}

func (r *Repo[T]) selectList() string {
	return strings.Join(r.desc.Columns, ", ")
}

// buildListQuery renders the list statement for the filters. Split out
// so the SQL shape is testable without a database.
func buildListQuery[T any](desc Descriptor[T], filters shared.ListFilters) (string, []any) {
	query := `SELECT ` + strings.Join(desc.Columns, ", ") + ` FROM ` + desc.Table
	args := []any{}
	if filters.Search != "" && len(desc.SearchCols) > 0 {
		args = append(args, "%"+filters.Search+"%")
		ph := "$" + strconv.Itoa(len(args))
		clauses := make([]string, 0, len(desc.SearchCols))
		for _, col := range desc.SearchCols {
			clauses = append(clauses, col+` ILIKE `+ph)
		}
		query += ` WHERE (` + strings.Join(clauses, " OR ") + `)`
	}
	orderBy := desc.OrderBy
	if orderBy == "" {
		orderBy = "id"
	}
	query += ` ORDER BY ` + orderBy
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset())
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	return query, args
}

// List returns entities matching the filters.
func (r *Repo[T]) List(ctx context.Context, filters shared.ListFilters) ([]T, error) {
	query, args := buildListQuery(r.desc, filters)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		var e T
		if err := rows.Scan(r.desc.ScanDest(&e)...); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get loads one entity by id.
func (r *Repo[T]) Get(ctx context.Context, id int64) (T, error) {
	var e T
	err := r.pool.QueryRow(ctx,
		`SELECT `+r.selectList()+` FROM `+r.desc.Table+` WHERE id = $1`, id).
		Scan(r.desc.ScanDest(&e)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return e, shared.ErrNotFound
		}
		return e, err
	}
	return e, nil
}

// Create inserts the entity and returns its new id.
func (r *Repo[T]) Create(ctx context.Context, e T) (int64, error) {
	cols := append([]string{}, r.desc.InsertCols...)
	args := r.desc.InsertVals(e)
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	values := strings.Join(placeholders, ",")
	if r.desc.Timestamps {
		cols = append(cols, "created_at", "updated_at")
		values += ",NOW(),NOW()"
	}
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO `+r.desc.Table+` (`+strings.Join(cols, ", ")+`) VALUES (`+values+`) RETURNING id`,
		args...).Scan(&id)
	if err != nil {
		return 0, mapPgError(err)
	}
	return id, nil
}

// Update rewrites the entity's editable columns.
func (r *Repo[T]) Update(ctx context.Context, id int64, e T) error {
	args := r.desc.UpdateVals(e)
	sets := make([]string, len(r.desc.UpdateCols))
	for i, col := range r.desc.UpdateCols {
		sets[i] = col + " = $" + strconv.Itoa(i+1)
	}
	set := strings.Join(sets, ", ")
	if r.desc.Timestamps {
		set += ", updated_at = NOW()"
	}
	args = append(args, id)
	tag, err := r.pool.Exec(ctx,
		`UPDATE `+r.desc.Table+` SET `+set+` WHERE id = $`+strconv.Itoa(len(args)), args...)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the entity by id.
func (r *Repo[T]) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM `+r.desc.Table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateCode
	}
	return err
}
