package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/logging"
	"github.com/user/carcatalog-go/store"
)

// SeedPassword is the password of both seeded accounts.
const SeedPassword = "admin12345"

var (
	seedBrands = []string{"Toyota", "Honda", "Ford", "Chevrolet", "Nissan", "BMW", "Mercedes-Benz", "Volkswagen", "Audi", "Hyundai"}
	seedTypes  = []string{"Sedan", "SUV", "Truck", "Coupe", "Convertible", "Hatchback", "Wagon", "Van", "Minivan", "Crossover"}
	seedModels = []string{"Corolla", "Civic", "F-150", "Camaro", "Altima", "3 Series", "C-Class", "Golf", "A4", "Elantra"}
	seedYears  = []int{2020, 2019, 2018, 2017, 2016, 2015, 2014, 2013, 2012, 2011}
	// Prices of the first user's rows, then of the second user's.
	seedPrices = [2][10]int{
		{20000, 18000, 25000, 30000, 22000, 27000, 35000, 40000, 23000, 21000},
		{24000, 19000, 26000, 31000, 23000, 28000, 36000, 41000, 24000, 22000},
	}
)

// Seed loads the demo data set: an admin and a regular user (both verified),
// ten brands each with one type and one model, ten years and twenty price-list rows.
// Everything happens in one transaction. A database that already has users is left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, hasher *auth.PasswordHasher, logger logging.Logger) error {
	users := store.NewTable[auth.User](pool, auth.UsersTable, auth.UserColumns...)
	existing, err := users.Count(ctx, nil)
	if err != nil {
		return apperror.NewDatabaseError("failed to count users", err)
	}
	if existing > 0 {
		logger.Info(ctx, "database already seeded, skipping", "users", existing)
		return nil
	}

	digest, err := hasher.Hash(SeedPassword)
	if err != nil {
		return apperror.NewInternalError("failed to hash seed password", err)
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return seed(ctx, tx, digest)
	})
	if err != nil {
		return apperror.NewDatabaseError("failed to seed database", err)
	}

	logger.Info(ctx, "database seeded",
		"users", 2, "brands", len(seedBrands), "years", len(seedYears), "pricelist", 2*len(seedYears))
	return nil
}

func seed(ctx context.Context, tx pgx.Tx, digest string) error {
	users := store.NewTable[auth.User](tx, auth.UsersTable, auth.UserColumns...)
	brands := store.NewTable[catalog.Brand](tx, catalog.BrandResource.Table, catalog.BrandResource.Columns...)
	types := store.NewTable[catalog.VehicleType](tx, catalog.TypeResource.Table, catalog.TypeResource.Columns...)
	models := store.NewTable[catalog.Model](tx, catalog.ModelResource.Table, catalog.ModelResource.Columns...)
	years := store.NewTable[catalog.Year](tx, catalog.YearResource.Table, catalog.YearResource.Columns...)
	prices := store.NewTable[catalog.Pricelist](tx, catalog.PricelistResource.Table, catalog.PricelistResource.Columns...)

	var userIDs []int
	for _, u := range []struct {
		name, email string
		admin       bool
	}{
		{"Admin", "admin@gmail.com", true},
		{"User", "user@gmail.com", false},
	} {
		created, err := users.Create(ctx, map[string]any{
			"name":        u.name,
			"email":       u.email,
			"password":    digest,
			"is_verified": true,
			"is_admin":    u.admin,
		})
		if err != nil {
			return fmt.Errorf("user %s: %w", u.email, err)
		}
		userIDs = append(userIDs, created.ID)
	}

	modelIDs := make([]int, len(seedBrands))
	for i, name := range seedBrands {
		brand, err := brands.Create(ctx, map[string]any{"name": name})
		if err != nil {
			return fmt.Errorf("brand %s: %w", name, err)
		}
		vt, err := types.Create(ctx, map[string]any{"name": seedTypes[i], "brand_id": brand.ID})
		if err != nil {
			return fmt.Errorf("type %s: %w", seedTypes[i], err)
		}
		model, err := models.Create(ctx, map[string]any{"name": seedModels[i], "type_id": vt.ID})
		if err != nil {
			return fmt.Errorf("model %s: %w", seedModels[i], err)
		}
		modelIDs[i] = model.ID
	}

	yearIDs := make([]int, len(seedYears))
	for i, y := range seedYears {
		year, err := years.Create(ctx, map[string]any{"year": y})
		if err != nil {
			return fmt.Errorf("year %d: %w", y, err)
		}
		yearIDs[i] = year.ID
	}

	// The second user's rows pair each year with the next model, wrapping around.
	code := 1
	for u, userID := range userIDs {
		for i := range yearIDs {
			_, err := prices.Create(ctx, map[string]any{
				"code":     fmt.Sprintf("CODE%d", code),
				"user_id":  userID,
				"price":    seedPrices[u][i],
				"year_id":  yearIDs[i],
				"model_id": modelIDs[(i+u)%len(modelIDs)],
			})
			if err != nil {
				return fmt.Errorf("pricelist CODE%d: %w", code, err)
			}
			code++
		}
	}
	return nil
}
