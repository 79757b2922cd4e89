package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/logging"
)

func TestMigrations_Paired(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("migration %s is neither up nor down", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestMigrations_CreateEveryTable(t *testing.T) {
	up, err := fs.ReadFile(migrationsFS, "migrations/1_init.up.sql")
	require.NoError(t, err)
	schema := string(up)

	for _, res := range []catalog.Resource{
		catalog.BrandResource,
		catalog.TypeResource,
		catalog.ModelResource,
		catalog.YearResource,
		catalog.PricelistResource,
	} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+res.Table+" (", res.Name)
		for _, col := range res.Columns {
			assert.Contains(t, schema, "    "+col+" ", "%s.%s", res.Table, col)
		}
		for _, ref := range res.References {
			assert.Contains(t, schema, "REFERENCES "+ref.Table+" (id)", "%s.%s", res.Table, ref.Column)
		}
	}

	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+auth.UsersTable+" (")
	for _, col := range auth.UserColumns {
		assert.Contains(t, schema, "    "+col+" ", "users.%s", col)
	}
}

func TestSeedData_Consistent(t *testing.T) {
	assert.Len(t, seedTypes, len(seedBrands))
	assert.Len(t, seedModels, len(seedBrands))
	assert.Len(t, seedYears, len(seedBrands))
	for _, prices := range seedPrices {
		assert.Len(t, prices, len(seedYears))
	}
}

func TestRunMigrations_UnreachableDatabase(t *testing.T) {
	cfg := &config.PoolConfig{Host: "127.0.0.1", Port: 1, User: "u", Password: "p", DBName: "d", SSLMode: "disable"}

	err := RunMigrations(cfg, Up, logging.Discard())
	require.Error(t, err)
	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.MigrationError, appErr.Type)
}
