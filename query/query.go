// Package query turns the untrusted query string of a list endpoint into a
// validated Descriptor: pagination, sorting and filters.
//
// Every list endpoint in the API goes through Canonicalize, so paging and
// sorting behave identically for every resource. Only the Config differs per
// resource: which filters exist, what type they have, and which columns may
// be sorted on. Storage code can therefore interpolate Descriptor field names
// into SQL without further checks, since they always come from the Config
// whitelist and never from the request.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/carcatalog-go/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	// maxFilterLength mirrors the 255 character limit of the string columns.
	maxFilterLength = 255

	// maxInt bounds every integer parameter to the INTEGER columns and keeps
	// the derived offset from overflowing.
	maxInt = math.MaxInt32

	paramPage   = "page"
	paramLimit  = "limit"
	paramOffset = "offset"
	paramSort   = "sort"
	paramOrder  = "order"
)

// ErrInvalidPagination is the message used for any page/limit/offset problem.
const ErrInvalidPagination = "Invalid page, limit, or offset parameter"

// Kind is the type of a filter field. It decides both how the raw value is
// parsed and which predicate the storage layer builds for it.
type Kind int

const (
	// String filters match case-insensitively on "contains".
	String Kind = iota
	// Int filters match exactly.
	Int
	// Bool filters match exactly.
	Bool
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "number"
	case Bool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Field declares one filterable column.
type Field struct {
	Name string
	Kind Kind
}

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Config is the per-resource whitelist handed to Canonicalize.
type Config struct {
	Filters     []Field
	SortFields  []string
	DefaultSort string
	// MaxLimit caps `limit`. Zero means no cap.
	MaxLimit int
}

// WithMaxLimit returns a copy of c with the limit cap replaced.
func (c Config) WithMaxLimit(max int) Config {
	c.MaxLimit = max
	return c
}

// Filter is a recognized, typed filter value.
// Value holds a string, an int64 or a bool depending on Kind.
type Filter struct {
	Field string
	Kind  Kind
	Value any
}

// Descriptor is the canonical form of a list request.
type Descriptor struct {
	Page      int
	Limit     int
	Offset    int
	SortField string
	SortOrder Order
	Filters   []Filter
}

// TotalPages returns ceil(total/limit), the `total_page` value of a page envelope.
func (d *Descriptor) TotalPages(total int) int {
	if d.Limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(d.Limit)))
}

// Canonicalize validates raw against cfg and returns the Descriptor.
//
// page and limit default to 1 and 10. offset is derived as (page-1)*limit only
// when it is absent; an explicit offset always wins. An empty page, limit or
// offset counts as absent. The three values and the derived offset must fit
// a 32-bit integer. order is "asc" only when it is exactly "asc" (or absent),
// anything else is coerced to "desc".
// Every failure is an apperror ValidationError.
func Canonicalize(raw url.Values, cfg Config) (*Descriptor, error) {
	known := make(map[string]Field, len(cfg.Filters))
	for _, f := range cfg.Filters {
		known[f.Name] = f
	}

	for key := range raw {
		switch key {
		case paramPage, paramLimit, paramOffset, paramSort, paramOrder:
			continue
		}
		if _, ok := known[key]; !ok {
			return nil, invalid(fmt.Sprintf("%q is not allowed", key))
		}
	}

	page, pageOK := intParam(raw, paramPage, DefaultPage)
	limit, limitOK := intParam(raw, paramLimit, DefaultLimit)
	if !pageOK || !limitOK || page <= 0 || limit <= 0 {
		return nil, apperror.NewValidationError(ErrInvalidPagination, nil)
	}

	if !hasValue(raw, paramOffset) && page-1 > maxInt/limit {
		return nil, apperror.NewValidationError(ErrInvalidPagination, nil)
	}
	offset, offsetOK := intParam(raw, paramOffset, (page-1)*limit)
	if !offsetOK || offset < 0 {
		return nil, apperror.NewValidationError(ErrInvalidPagination, nil)
	}

	if cfg.MaxLimit > 0 && limit > cfg.MaxLimit {
		return nil, invalid(fmt.Sprintf(`"limit" must be less than or equal to %d`, cfg.MaxLimit))
	}

	sortField := cfg.DefaultSort
	if raw.Has(paramSort) {
		sortField = raw.Get(paramSort)
	}
	if !contains(cfg.SortFields, sortField) {
		return nil, invalid(fmt.Sprintf(`"sort" must be one of [%s]`, strings.Join(cfg.SortFields, ", ")))
	}

	order := Asc
	if raw.Has(paramOrder) && raw.Get(paramOrder) != string(Asc) {
		order = Desc
	}

	filters := make([]Filter, 0, len(cfg.Filters))
	for _, f := range cfg.Filters {
		v := raw.Get(f.Name)
		if v == "" {
			continue
		}
		parsed, err := parseFilter(f, v)
		if err != nil {
			return nil, err
		}
		filters = append(filters, parsed)
	}

	return &Descriptor{
		Page:      page,
		Limit:     limit,
		Offset:    offset,
		SortField: sortField,
		SortOrder: order,
		Filters:   filters,
	}, nil
}

// intParam reads a 32-bit integer parameter. A missing or empty parameter
// yields def; any other value must parse.
func intParam(raw url.Values, key string, def int) (int, bool) {
	if !hasValue(raw, key) {
		return def, true
	}
	n, err := strconv.ParseInt(raw.Get(key), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func hasValue(raw url.Values, key string) bool {
	return raw.Get(key) != ""
}

func parseFilter(f Field, v string) (Filter, error) {
	out := Filter{Field: f.Name, Kind: f.Kind}
	switch f.Kind {
	case String:
		if len(v) > maxFilterLength {
			return out, invalid(fmt.Sprintf("%q length must be less than or equal to %d characters long", f.Name, maxFilterLength))
		}
		out.Value = v
	case Int:
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			return out, invalid(fmt.Sprintf("%q must be a non-negative %s", f.Name, f.Kind))
		}
		out.Value = n
	case Bool:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return out, invalid(fmt.Sprintf("%q must be a %s", f.Name, f.Kind))
		}
		out.Value = b
	default:
		return out, apperror.NewInternalError(fmt.Sprintf("filter %q has unknown kind", f.Name), nil)
	}
	return out, nil
}

func invalid(detail string) *apperror.AppError {
	return apperror.NewValidationError("invalid request", nil).WithDetail(detail)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Page is the envelope of every list response.
type Page[T any] struct {
	CurrentPage int `json:"current_page"`
	TotalPage   int `json:"total_page"`
	TotalData   int `json:"total_data"`
	Data        []T `json:"data"`
}

// NewPage assembles the page for d out of one result slice and the filtered total.
func NewPage[T any](d *Descriptor, total int, items []T) *Page[T] {
	return &Page[T]{
		CurrentPage: d.Page,
		TotalPage:   d.TotalPages(total),
		TotalData:   total,
		Data:        items,
	}
}
