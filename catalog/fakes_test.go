package catalog

import (
	"context"
	"sort"

	"github.com/user/carcatalog-go/query"
	"github.com/user/carcatalog-go/store"
)

// memRecords keeps rows as column maps and builds T on the way out.
type memRecords[T any] struct {
	rows  map[int]map[string]any
	next  int
	build func(id int, row map[string]any) T

	lastDescriptor *query.Descriptor
	deleteErr      error
	countErr       error
	writes         int
}

func newMemRecords[T any](build func(id int, row map[string]any) T) *memRecords[T] {
	return &memRecords[T]{rows: map[int]map[string]any{}, next: 1, build: build}
}

func (m *memRecords[T]) seed(values map[string]any) int {
	id := m.next
	m.next++
	row := map[string]any{}
	for k, v := range values {
		row[k] = v
	}
	m.rows[id] = row
	return id
}

func (m *memRecords[T]) ids() []int {
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (m *memRecords[T]) FindByID(_ context.Context, id int) (*T, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	item := m.build(id, row)
	return &item, nil
}

func (m *memRecords[T]) Taken(_ context.Context, column string, value any, exceptID int) (bool, error) {
	for id, row := range m.rows {
		if id != exceptID && row[column] == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRecords[T]) Count(_ context.Context, _ []query.Filter) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.rows), nil
}

func (m *memRecords[T]) List(_ context.Context, d *query.Descriptor) ([]T, error) {
	m.lastDescriptor = d
	ids := m.ids()
	var items []T
	for i := d.Offset; i < len(ids) && len(items) < d.Limit; i++ {
		items = append(items, m.build(ids[i], m.rows[ids[i]]))
	}
	return items, nil
}

func (m *memRecords[T]) Create(ctx context.Context, values map[string]any) (*T, error) {
	m.writes++
	return m.FindByID(ctx, m.seed(values))
}

func (m *memRecords[T]) Update(ctx context.Context, id int, values map[string]any) (*T, error) {
	row, ok := m.rows[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	m.writes++
	for k, v := range values {
		row[k] = v
	}
	return m.FindByID(ctx, id)
}

func (m *memRecords[T]) Delete(_ context.Context, id int) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return store.ErrNotFound
	}
	m.writes++
	delete(m.rows, id)
	return nil
}

// fakeLookup answers Exists from a fixed set of table/id pairs.
type fakeLookup map[string]map[int]bool

func (f fakeLookup) add(table string, ids ...int) {
	if f[table] == nil {
		f[table] = map[int]bool{}
	}
	for _, id := range ids {
		f[table][id] = true
	}
}

func (f fakeLookup) Exists(_ context.Context, table string, id int) (bool, error) {
	return f[table][id], nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) int {
	n, _ := v.(int)
	return n
}

func buildBrand(id int, row map[string]any) Brand {
	return Brand{ID: id, Name: str(row["name"])}
}

func buildType(id int, row map[string]any) VehicleType {
	return VehicleType{ID: id, Name: str(row["name"]), BrandID: num(row["brand_id"])}
}

func buildPricelist(id int, row map[string]any) Pricelist {
	return Pricelist{
		ID:      id,
		Code:    str(row["code"]),
		UserID:  num(row["user_id"]),
		Price:   num(row["price"]),
		YearID:  num(row["year_id"]),
		ModelID: num(row["model_id"]),
	}
}
