// Package db provides database connectivity and migration functionality for the catalog API.
// It handles establishing the connection pool, running the embedded schema migrations
// and loading the demo data set.
// This package centralizes database concerns, similar to how a database module (e.g., TypeORMModule)
// would be configured in Nest.js, providing a pool to the rest of the application.
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	// `time` is used for setting timeouts and connection pool configurations.
	"time"

	// `golang-migrate` is a popular library for database migrations in Go.
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	// `iofs` reads migrations from an `embed.FS`, so the binary carries its own schema.
	"github.com/golang-migrate/migrate/v4/source/iofs"
	// `pgxpool` is part of the `jackc/pgx` suite, providing a robust connection pool for PostgreSQL.
	"github.com/jackc/pgx/v5/pgxpool"
	// `lib/pq` registers the "postgres" database/sql driver used by migrate's postgres driver.
	_ "github.com/lib/pq"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Direction selects which way RunMigrations moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// NewPool establishes the pgxpool connection pool used by every service.
// It configures the pool with max connections, connection lifetime and idle
// connection management, and pings the database before returning.
func NewPool(ctx context.Context, cfg *config.PoolConfig) (*pgxpool.Pool, error) {
	// `pgxpool.ParseConfig` parses the DSN string into a `pgxpool.Config` struct.
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error parsing DSN for database %s", cfg.DBName), err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	// Use a context with a timeout for the pool creation process.
	// This prevents indefinite blocking if the database is unreachable.
	createCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(createCtx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error creating pgxpool for database %s", cfg.DBName), err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("error connecting to the database %s with pgxpool", cfg.DBName), err)
	}

	return pool, nil
}

// RunMigrations applies (Up) or reverts (Down) the migrations embedded under migrations/.
// Files follow golang-migrate naming: {version}_{description}.{up|down}.sql.
func RunMigrations(cfg *config.PoolConfig, dir Direction, logger logging.Logger) error {
	ctx := context.Background()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	// golang-migrate's postgres driver works on database/sql, so migrations
	// get their own short-lived connection instead of borrowing from pgxpool.
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return apperror.NewMigrationError("failed to open migration connection", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		return apperror.NewMigrationError("failed to create migration driver", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		conn.Close()
		return apperror.NewMigrationError("failed to create migrator", err)
	}
	// m.Close() returns two errors, one for source and one for database.
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn(ctx, "error closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return apperror.NewMigrationError(fmt.Sprintf("unknown migration direction %q", dir), nil)
	}

	// `migrate.ErrNoChange` is returned if there is nothing to apply, which is not an actual error.
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(ctx, "schema already up to date", "direction", string(dir))
		return nil
	}
	if err != nil {
		return apperror.NewMigrationError(fmt.Sprintf("failed to run migrations %s", dir), err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return apperror.NewMigrationError("failed to read schema version", verr)
	}
	logger.Info(ctx, "migrations applied", "direction", string(dir), "version", version, "dirty", dirty)
	return nil
}
