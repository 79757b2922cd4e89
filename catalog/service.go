// Package catalog serves the vehicle catalog resources (brands, types, models,
// years and price-list entries) through one generic pipeline: a Resource
// describes the table, the Service applies the shared business rules and the
// Handlers expose the shared routes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/query"
	"github.com/user/carcatalog-go/store"
)

// Messages shared by every resource.
const (
	MessageNotFound      = "data not found"
	MessageDuplicate     = "data already exist"
	MessageBadRequest    = "bad request"
	MessageReferenced    = "data is still in use"
	MessageDeleteSuccess = "delete success"
)

// Reference is a foreign key checked before writes.
type Reference struct {
	Column string // column on this resource, e.g. "brand_id"
	Table  string // referenced table, e.g. "vehicle_brand"
	Label  string // used in the "<label> not found" message
}

// Resource describes one catalog table.
type Resource struct {
	Name       string // route segment and label, e.g. "brand"
	Table      string
	Columns    []string
	Query      query.Config
	Unique     []string
	References []Reference
	// DuplicateMessage overrides MessageDuplicate.
	DuplicateMessage string
}

func (r Resource) duplicateMessage() string {
	if r.DuplicateMessage != "" {
		return r.DuplicateMessage
	}
	return MessageDuplicate
}

// Records is the storage a Service needs. *store.Table satisfies it.
type Records[T any] interface {
	FindByID(ctx context.Context, id int) (*T, error)
	Taken(ctx context.Context, column string, value any, exceptID int) (bool, error)
	Count(ctx context.Context, filters []query.Filter) (int, error)
	List(ctx context.Context, d *query.Descriptor) ([]T, error)
	Create(ctx context.Context, values map[string]any) (*T, error)
	Update(ctx context.Context, id int, values map[string]any) (*T, error)
	Delete(ctx context.Context, id int) error
}

// Lookup checks rows of other tables. *store.Lookup satisfies it.
type Lookup interface {
	Exists(ctx context.Context, table string, id int) (bool, error)
}

var (
	_ Records[Brand] = (*store.Table[Brand])(nil)
	_ Lookup         = (*store.Lookup)(nil)
)

// Service applies the catalog rules to one resource.
type Service[T any] struct {
	res     Resource
	records Records[T]
	lookup  Lookup
	cfg     query.Config
}

// NewService creates a Service. maxLimit caps `limit` on list requests, 0 disables the cap.
func NewService[T any](res Resource, records Records[T], lookup Lookup, maxLimit int) *Service[T] {
	return &Service[T]{
		res:     res,
		records: records,
		lookup:  lookup,
		cfg:     res.Query.WithMaxLimit(maxLimit),
	}
}

// NewPgService wires a Service to Postgres.
func NewPgService[T any](db store.DBTX, res Resource, maxLimit int) *Service[T] {
	return NewService[T](res, store.NewTable[T](db, res.Table, res.Columns...), store.NewLookup(db), maxLimit)
}

// Resource returns the resource description.
func (s *Service[T]) Resource() Resource { return s.res }

// List returns one page. An empty page is reported as not found.
func (s *Service[T]) List(ctx context.Context, raw url.Values) (*query.Page[T], error) {
	d, err := query.Canonicalize(raw, s.cfg)
	if err != nil {
		return nil, err
	}

	total, err := s.records.Count(ctx, d.Filters)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to count %s", s.res.Name), err)
	}

	items, err := s.records.List(ctx, d)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to list %s", s.res.Name), err)
	}
	if len(items) == 0 {
		return nil, apperror.NewNotFoundError(MessageNotFound, nil)
	}

	return query.NewPage(d, total, items), nil
}

// Get returns one row.
func (s *Service[T]) Get(ctx context.Context, id int) (*T, error) {
	item, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, MessageNotFound, "get")
	}
	return item, nil
}

// Create checks unique columns and references, then inserts.
func (s *Service[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	if len(values) == 0 {
		return nil, apperror.NewBadRequestError(MessageBadRequest, nil)
	}
	if err := s.checkWrite(ctx, values, 0); err != nil {
		return nil, err
	}

	item, err := s.records.Create(ctx, values)
	if err != nil {
		return nil, s.writeError(err, "create")
	}
	return item, nil
}

// Update changes the given columns of an existing row.
// Uniqueness is checked against every other row.
func (s *Service[T]) Update(ctx context.Context, id int, values map[string]any) (*T, error) {
	if _, err := s.records.FindByID(ctx, id); err != nil {
		return nil, s.notFoundOr(err, s.res.Name+" not found", "get")
	}
	if len(values) == 0 {
		return nil, apperror.NewBadRequestError(MessageBadRequest, nil)
	}
	if err := s.checkWrite(ctx, values, id); err != nil {
		return nil, err
	}

	item, err := s.records.Update(ctx, id, values)
	if err != nil {
		return nil, s.writeError(err, "update")
	}
	return item, nil
}

// Delete removes a row. Rows still referenced by others cannot be deleted.
func (s *Service[T]) Delete(ctx context.Context, id int) error {
	if err := s.records.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return apperror.NewConflictError(MessageReferenced, err)
		}
		return s.notFoundOr(err, MessageNotFound, "delete")
	}
	return nil
}

func (s *Service[T]) checkWrite(ctx context.Context, values map[string]any, exceptID int) error {
	for _, col := range s.res.Unique {
		v, ok := values[col]
		if !ok {
			continue
		}
		taken, err := s.records.Taken(ctx, col, v, exceptID)
		if err != nil {
			return apperror.NewDatabaseError(fmt.Sprintf("failed to check %s", col), err)
		}
		if taken {
			return apperror.NewConflictError(s.res.duplicateMessage(), nil)
		}
	}

	for _, ref := range s.res.References {
		v, ok := values[ref.Column]
		if !ok {
			continue
		}
		id, ok := v.(int)
		if !ok {
			return apperror.NewInternalError(fmt.Sprintf("%s must be an int, got %T", ref.Column, v), nil)
		}
		exists, err := s.lookup.Exists(ctx, ref.Table, id)
		if err != nil {
			return apperror.NewDatabaseError(fmt.Sprintf("failed to check %s", ref.Label), err)
		}
		if !exists {
			return apperror.NewNotFoundError(ref.Label+" not found", nil)
		}
	}
	return nil
}

func (s *Service[T]) notFoundOr(err error, message, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NewNotFoundError(message, nil)
	}
	return apperror.NewDatabaseError(fmt.Sprintf("failed to %s %s", op, s.res.Name), err)
}

// writeError maps constraint violations that slipped past the pre-checks,
// e.g. two concurrent creates of the same brand name.
func (s *Service[T]) writeError(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return apperror.NewConflictError(s.res.duplicateMessage(), err)
	case errors.Is(err, store.ErrReferenced):
		return apperror.NewNotFoundError(MessageNotFound, err)
	case errors.Is(err, store.ErrNotFound):
		return apperror.NewNotFoundError(s.res.Name+" not found", nil)
	}
	return apperror.NewDatabaseError(fmt.Sprintf("failed to %s %s", op, s.res.Name), err)
}
