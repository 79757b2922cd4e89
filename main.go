// This is the main entry point of the car catalog application.
// It's responsible for loading configuration, connecting to the database and
// dispatching to one of the commands: serving the HTTP API, running schema
// migrations or loading the demo data set.
//
// Analogy to Nest.js: This file is similar to `main.ts` in a Nest.js application,
// where the Nest application instance is created, modules are configured,
// middleware is applied, and the application is bootstrapped to listen for requests.
// @title Car Catalog API
// @version 1.0
// @description Vehicle brands, types, models, years and price lists behind JWT authentication.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// `godotenv` loads environment variables from a .env file, useful for development.
	"github.com/joho/godotenv"
	// `urfave/cli` parses the command line into subcommands.
	"github.com/urfave/cli/v2"

	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/db"
	_ "github.com/user/carcatalog-go/docs" // Registers the Swagger document
	"github.com/user/carcatalog-go/logging"
	"github.com/user/carcatalog-go/mail"
)

func main() {
	// Load .env file. In production, variables are usually set directly.
	envErr := godotenv.Load()

	app := &cli.App{
		Name:  "carcatalog",
		Usage: "vehicle catalog REST API",
		Before: func(c *cli.Context) error {
			if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", envErr)
			}
			return nil
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or revert the database schema",
				Subcommands: []*cli.Command{
					{Name: "up", Usage: "apply all pending migrations", Action: migrateAction(db.Up)},
					{Name: "down", Usage: "revert every migration", Action: migrateAction(db.Down)},
				},
			},
			{
				Name:   "seed",
				Usage:  "load the demo data set into an empty database",
				Action: seed,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the application logger.
func setup() (*config.AppConfig, logging.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	return cfg, logger, nil
}

func migrateAction(dir db.Direction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		return db.RunMigrations(cfg.DB, dir, logger)
	}
}

func seed(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	pool, err := db.NewPool(c.Context, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	return db.Seed(c.Context, pool, auth.NewPasswordHasher(cfg.Auth.BcryptCost), logger)
}

func serve(c *cli.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	// Run database migrations so the schema matches this binary.
	if err := db.RunMigrations(cfg.DB, db.Up, logger); err != nil {
		return err
	}

	pool, err := db.NewPool(c.Context, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	// `http.Server` provides more control over server behavior than `http.ListenAndServe`.
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(cfg, pool, mail.New(cfg.Mail, logger), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second, // above the 60s handler timeout
		IdleTimeout:  60 * time.Second,
	}

	// The server is started in a separate goroutine so that this one can
	// listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		logger.Info(c.Context, "server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for SIGINT (Ctrl+C) or SIGTERM, or for the server to fail on its own.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info(c.Context, "server shutting down", "signal", sig.String())
	}

	// Give in-flight requests up to 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info(ctx, "server stopped gracefully")
	return nil
}
