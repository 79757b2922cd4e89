// Package store provides generic, table-oriented record access on top of pgx.
//
// Every resource in the catalog (users, brands, types, models, years and
// price-list rows) is a plain table with an integer `id` and `created_at` /
// `updated_at` timestamps. Table[T] captures that shape once, so services do
// not repeat the same SELECT/INSERT/UPDATE boilerplate per resource.
//
// Identifiers are always quoted with pgx.Identifier and every value travels as
// a bind parameter. Column names reaching this package must still come from
// code (a query.Config whitelist or a DTO), never from raw request input.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/carcatalog-go/query"
)

// PostgreSQL error codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var (
	// ErrNotFound is returned when no row matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write breaks a foreign key,
	// e.g. deleting a brand that still has types.
	ErrReferenced = errors.New("record is referenced")
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table is typed access to one table. T must be a struct whose `db` tags
// name exactly the columns passed to NewTable.
type Table[T any] struct {
	db      DBTX
	name    string
	columns []string
}

// NewTable creates a Table over db. columns is the projection used by every
// read and by RETURNING clauses.
func NewTable[T any](db DBTX, name string, columns ...string) *Table[T] {
	return &Table[T]{db: db, name: name, columns: columns}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// WithDB returns a copy of t bound to db, typically a pgx.Tx.
func (t *Table[T]) WithDB(db DBTX) *Table[T] {
	return &Table[T]{db: db, name: t.name, columns: t.columns}
}

// FindByID returns the row with the given id or ErrNotFound.
func (t *Table[T]) FindByID(ctx context.Context, id int) (*T, error) {
	return t.FindBy(ctx, "id", id)
}

// FindBy returns the first row whose column equals value, or ErrNotFound.
func (t *Table[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		selectList(t.columns), ident(t.name), ident(column))
	return t.one(ctx, sql, value)
}

// Exists reports whether a row with the given id exists.
func (t *Table[T]) Exists(ctx context.Context, id int) (bool, error) {
	return NewLookup(t.db).Exists(ctx, t.name, id)
}

// Taken reports whether another row already holds value in column.
// exceptID excludes one row (the one being updated); pass 0 to exclude none.
func (t *Table[T]) Taken(ctx context.Context, column string, value any, exceptID int) (bool, error) {
	sql, args := buildTaken(t.name, column, value, exceptID)
	var ok bool
	if err := t.db.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

// Count returns the number of rows matching filters.
func (t *Table[T]) Count(ctx context.Context, filters []query.Filter) (int, error) {
	sql, args := buildCount(t.name, filters)
	var n int
	if err := t.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

// List returns one page of rows as described by d.
func (t *Table[T]) List(ctx context.Context, d *query.Descriptor) ([]T, error) {
	sql, args := buildList(t.name, t.columns, d)
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// Create inserts values and returns the stored row.
func (t *Table[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	sql, args := buildInsert(t.name, t.columns, values)
	return t.one(ctx, sql, args...)
}

// Update applies values to the row with the given id and returns it.
// `updated_at` is always refreshed.
func (t *Table[T]) Update(ctx context.Context, id int, values map[string]any) (*T, error) {
	sql, args := buildUpdate(t.name, t.columns, "id", id, values)
	return t.one(ctx, sql, args...)
}

// UpdateBy applies values to every row whose column equals value.
// It returns ErrNotFound when nothing matched.
func (t *Table[T]) UpdateBy(ctx context.Context, column string, value any, values map[string]any) error {
	sql, args := buildUpdate(t.name, nil, column, value, values)
	tag, err := t.db.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row with the given id.
func (t *Table[T]) Delete(ctx context.Context, id int) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE id = $1", ident(t.name))
	tag, err := t.db.Exec(ctx, sql, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Lookup answers existence questions about arbitrary tables, e.g. whether
// the brand a new type points at exists.
type Lookup struct {
	db DBTX
}

func NewLookup(db DBTX) *Lookup {
	return &Lookup{db: db}
}

// Exists reports whether table has a row with the given id.
func (l *Lookup) Exists(ctx context.Context, table string, id int) (bool, error) {
	sql := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", ident(table))
	var ok bool
	if err := l.db.QueryRow(ctx, sql, id).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

func (t *Table[T]) one(ctx context.Context, sql string, args ...any) (*T, error) {
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

// mapError translates pgx errors into the package sentinels, keeping the
// original error in the chain for logging.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %w", ErrDuplicate, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s: %w", ErrReferenced, pgErr.ConstraintName, err)
		}
	}
	return err
}
