package catalog

import (
	"time"

	"github.com/user/carcatalog-go/query"
)

var timestamps = []string{"created_at", "updated_at"}

// columns returns id, cols and the timestamps. Every column is also sortable.
func columns(cols ...string) []string {
	return append(append([]string{"id"}, cols...), timestamps...)
}

// Brand is a row of vehicle_brand.
type Brand struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateBrandRequest is the body of POST /brand.
type CreateBrandRequest struct {
	Name string `json:"name" validate:"required,max=255" example:"Toyota"`
}

func (r CreateBrandRequest) Values() map[string]any {
	return map[string]any{"name": r.Name}
}

// UpdateBrandRequest is the body of PATCH /brand/{id}. Empty fields are left unchanged.
type UpdateBrandRequest struct {
	Name string `json:"name" validate:"omitempty,max=255" example:"Toyota"`
}

func (r UpdateBrandRequest) Values() map[string]any {
	return nonZero("name", r.Name)
}

// BrandResource is the vehicle_brand table; brand names are unique.
var BrandResource = Resource{
	Name:    "brand",
	Table:   "vehicle_brand",
	Columns: columns("name"),
	Query: query.Config{
		Filters:     []query.Field{{Name: "name", Kind: query.String}},
		SortFields:  columns("name"),
		DefaultSort: "created_at",
	},
	Unique: []string{"name"},
}

// VehicleType is a row of vehicle_type.
type VehicleType struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	BrandID   int       `db:"brand_id" json:"brand_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateTypeRequest struct {
	Name    string `json:"name" validate:"required,max=255" example:"SUV"`
	BrandID int    `json:"brand_id" validate:"required,min=1,max=2147483647" example:"1"`
}

func (r CreateTypeRequest) Values() map[string]any {
	return map[string]any{"name": r.Name, "brand_id": r.BrandID}
}

type UpdateTypeRequest struct {
	Name    string `json:"name" validate:"omitempty,max=255" example:"SUV"`
	BrandID int    `json:"brand_id" validate:"omitempty,min=1,max=2147483647" example:"1"`
}

func (r UpdateTypeRequest) Values() map[string]any {
	return nonZero("name", r.Name, "brand_id", r.BrandID)
}

// TypeResource is the vehicle_type table; every type belongs to a brand.
var TypeResource = Resource{
	Name:    "type",
	Table:   "vehicle_type",
	Columns: columns("name", "brand_id"),
	Query: query.Config{
		Filters: []query.Field{
			{Name: "name", Kind: query.String},
			{Name: "brand_id", Kind: query.Int},
		},
		SortFields:  columns("name", "brand_id"),
		DefaultSort: "created_at",
	},
	References: []Reference{{Column: "brand_id", Table: "vehicle_brand", Label: "brand"}},
}

// Model is a row of vehicle_model.
type Model struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TypeID    int       `db:"type_id" json:"type_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateModelRequest struct {
	Name   string `json:"name" validate:"required,max=255" example:"Fortuner"`
	TypeID int    `json:"type_id" validate:"required,min=1,max=2147483647" example:"1"`
}

func (r CreateModelRequest) Values() map[string]any {
	return map[string]any{"name": r.Name, "type_id": r.TypeID}
}

type UpdateModelRequest struct {
	Name   string `json:"name" validate:"omitempty,max=255" example:"Fortuner"`
	TypeID int    `json:"type_id" validate:"omitempty,min=1,max=2147483647" example:"1"`
}

func (r UpdateModelRequest) Values() map[string]any {
	return nonZero("name", r.Name, "type_id", r.TypeID)
}

// ModelResource is the vehicle_model table; every model belongs to a type.
var ModelResource = Resource{
	Name:    "model",
	Table:   "vehicle_model",
	Columns: columns("name", "type_id"),
	Query: query.Config{
		Filters: []query.Field{
			{Name: "name", Kind: query.String},
			{Name: "type_id", Kind: query.Int},
		},
		SortFields:  columns("name", "type_id"),
		DefaultSort: "created_at",
	},
	References: []Reference{{Column: "type_id", Table: "vehicle_type", Label: "type"}},
}

// Year is a row of vehicle_year.
type Year struct {
	ID        int       `db:"id" json:"id"`
	Year      int       `db:"year" json:"year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateYearRequest struct {
	Year int `json:"year" validate:"required,min=1,max=2147483647" example:"2020"`
}

func (r CreateYearRequest) Values() map[string]any {
	return map[string]any{"year": r.Year}
}

type UpdateYearRequest struct {
	Year int `json:"year" validate:"omitempty,min=1,max=2147483647" example:"2021"`
}

func (r UpdateYearRequest) Values() map[string]any {
	return nonZero("year", r.Year)
}

// YearResource is the vehicle_year table; years are unique.
var YearResource = Resource{
	Name:    "year",
	Table:   "vehicle_year",
	Columns: columns("year"),
	Query: query.Config{
		Filters:     []query.Field{{Name: "year", Kind: query.Int}},
		SortFields:  columns("year"),
		DefaultSort: "created_at",
	},
	Unique: []string{"year"},
}

// Pricelist is a row of pricelist.
type Pricelist struct {
	ID        int       `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	UserID    int       `db:"user_id" json:"user_id"`
	Price     int       `db:"price" json:"price"`
	YearID    int       `db:"year_id" json:"year_id"`
	ModelID   int       `db:"model_id" json:"model_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreatePricelistRequest struct {
	Code    string `json:"code" validate:"required,max=255" example:"TYT-FRT-2020"`
	UserID  int    `json:"user_id" validate:"required,min=1,max=2147483647" example:"1"`
	Price   int    `json:"price" validate:"required,min=1,max=2147483647" example:"500000000"`
	YearID  int    `json:"year_id" validate:"required,min=1,max=2147483647" example:"1"`
	ModelID int    `json:"model_id" validate:"required,min=1,max=2147483647" example:"1"`
}

func (r CreatePricelistRequest) Values() map[string]any {
	return map[string]any{
		"code":     r.Code,
		"user_id":  r.UserID,
		"price":    r.Price,
		"year_id":  r.YearID,
		"model_id": r.ModelID,
	}
}

type UpdatePricelistRequest struct {
	Code    string `json:"code" validate:"omitempty,max=255" example:"TYT-FRT-2020"`
	UserID  int    `json:"user_id" validate:"omitempty,min=1,max=2147483647" example:"1"`
	Price   int    `json:"price" validate:"omitempty,min=1,max=2147483647" example:"450000000"`
	YearID  int    `json:"year_id" validate:"omitempty,min=1,max=2147483647" example:"1"`
	ModelID int    `json:"model_id" validate:"omitempty,min=1,max=2147483647" example:"1"`
}

func (r UpdatePricelistRequest) Values() map[string]any {
	return nonZero(
		"code", r.Code,
		"user_id", r.UserID,
		"price", r.Price,
		"year_id", r.YearID,
		"model_id", r.ModelID,
	)
}

// PricelistResource is the pricelist table. References are checked in the
// order user, year, model.
var PricelistResource = Resource{
	Name:    "pricelist",
	Table:   "pricelist",
	Columns: columns("code", "user_id", "price", "year_id", "model_id"),
	Query: query.Config{
		Filters: []query.Field{
			{Name: "code", Kind: query.String},
			{Name: "user_id", Kind: query.Int},
			{Name: "price", Kind: query.Int},
			{Name: "year_id", Kind: query.Int},
			{Name: "model_id", Kind: query.Int},
		},
		SortFields:  columns("code", "user_id", "price", "year_id", "model_id"),
		DefaultSort: "created_at",
	},
	References: []Reference{
		{Column: "user_id", Table: "users", Label: "user"},
		{Column: "year_id", Table: "vehicle_year", Label: "year"},
		{Column: "model_id", Table: "vehicle_model", Label: "model"},
	},
}

// nonZero builds a value map from key/value pairs, skipping empty strings and zero ints.
func nonZero(pairs ...any) map[string]any {
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case string:
			if v == "" {
				continue
			}
		case int:
			if v == 0 {
				continue
			}
		}
		out[key] = pairs[i+1]
	}
	return out
}
