package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devstack-id/fullstack-api/internal/domain"
)

// Mapper describes how a table maps onto an entity type. Columns is the full
// select list; Scan reads one row in that column order.
type Mapper[T any] struct {
	Table   string
	Columns []string
	Scan    func(row pgx.Row) (*T, error)
}

// Store is the generic CRUD base. Per-entity repositories embed it and add
// typed methods on top (lookup by email, owner-filtered listing, ...).
//
// Every operation is a single statement: last committed write wins, including
// the delete/update race. No optimistic locking.
type Store[T any] struct {
	pool *pgxpool.Pool
	m    Mapper[T]
}

func NewStore[T any](pool *pgxpool.Pool, m Mapper[T]) *Store[T] {
	return &Store[T]{pool: pool, m: m}
}

// Insert persists a new row and returns the full record, including the
// DB-generated id and timestamps.
func (s *Store[T]) Insert(ctx context.Context, cols []string, vals []any) (*T, error) {
	row := s.pool.QueryRow(ctx, buildInsert(s.m.Table, cols, s.m.Columns), vals...)
	return s.m.Scan(row)
}

// GetByID fetches one row; domain.ErrNotFound when absent.
func (s *Store[T]) GetByID(ctx context.Context, id string) (*T, error) {
	row := s.pool.QueryRow(ctx, buildSelectByID(s.m.Table, s.m.Columns), id)
	rec, err := s.m.Scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns one page ordered by creation time ascending plus the total
// count for the same filter. Filter supports equality only.
func (s *Store[T]) List(ctx context.Context, filter map[string]any, offset, limit int) ([]*T, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	countSQL, pageSQL, args := buildList(s.m.Table, s.m.Columns, filter)

	var total int64
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pageArgs := append(append([]any{}, args...), limit, offset)
	rows, err := s.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*T, 0, limit)
	for rows.Next() {
		rec, err := s.m.Scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateByID sets only the supplied columns plus updated_at and returns the
// merged record; domain.ErrNotFound when no row matched.
func (s *Store[T]) UpdateByID(ctx context.Context, id string, changes map[string]any) (*T, error) {
	sql, args := buildUpdate(s.m.Table, s.m.Columns, changes, id)
	rec, err := s.m.Scan(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// DeleteByID removes the row and returns its prior value for confirmation;
// domain.ErrNotFound when nothing was deleted.
func (s *Store[T]) DeleteByID(ctx context.Context, id string) (*T, error) {
	row := s.pool.QueryRow(ctx, buildDelete(s.m.Table, s.m.Columns), id)
	rec, err := s.m.Scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ---- SQL builders (deterministic; map keys are sorted) ----

func buildInsert(table string, cols, returning []string) string {
	ph := make([]string, len(cols))
	for i := range cols {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(ph, ", "), strings.Join(returning, ", "))
}

func buildSelectByID(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", strings.Join(cols, ", "), table)
}

func buildList(table string, cols []string, filter map[string]any) (countSQL, pageSQL string, args []any) {
	where := ""
	if len(filter) > 0 {
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		conds := make([]string, len(keys))
		for i, k := range keys {
			conds[i] = fmt.Sprintf("%s = $%d", k, i+1)
			args = append(args, filter[k])
		}
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	countSQL = fmt.Sprintf("SELECT count(*) FROM %s%s", table, where)
	pageSQL = fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d",
		strings.Join(cols, ", "), table, where, len(args)+1, len(args)+2)
	return countSQL, pageSQL, args
}

func buildUpdate(table string, returning []string, changes map[string]any, id string) (string, []any) {
	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, changes[k])
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(sets, ", "), len(args), strings.Join(returning, ", "))
	return sql, args
}

func buildDelete(table string, cols []string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING %s", table, strings.Join(cols, ", "))
}
