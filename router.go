package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/config"
	"github.com/user/carcatalog-go/httpx"
	"github.com/user/carcatalog-go/logging"
	"github.com/user/carcatalog-go/mail"
	"github.com/user/carcatalog-go/store"
	"github.com/user/carcatalog-go/users"
)

// pinger is the part of *pgxpool.Pool the health check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// database is what the router needs from the pool: queries for the
// services and a ping for /healthz.
type database interface {
	store.DBTX
	pinger
}

// newRouter wires services, handlers and middleware.
// Services are instantiated here and their dependencies (pool, config, mailer)
// are injected. This is manual dependency injection, common in Go; Nest.js
// would use a DI container.
func newRouter(cfg *config.AppConfig, db database, mailer mail.Sender, logger logging.Logger) http.Handler {
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	codec := auth.NewTokenCodec()
	mw := auth.NewMiddleware(codec, cfg.Auth.SecretKey)
	maxLimit := cfg.Query.MaxLimit

	authService := auth.NewAuthService(auth.NewPgUserStore(db), hasher, codec, mailer, cfg.Auth, cfg.Server.BaseURL, logger)
	authHandlers := auth.NewHandlers(authService)

	userService := users.NewUserService(catalog.NewPgService[auth.User](db, users.UserResource, maxLimit), hasher)
	userHandlers := users.NewUserHandlers(userService)

	brands := catalog.NewHandlers[catalog.Brand, catalog.CreateBrandRequest, catalog.UpdateBrandRequest](
		catalog.NewPgService[catalog.Brand](db, catalog.BrandResource, maxLimit))
	types := catalog.NewHandlers[catalog.VehicleType, catalog.CreateTypeRequest, catalog.UpdateTypeRequest](
		catalog.NewPgService[catalog.VehicleType](db, catalog.TypeResource, maxLimit))
	models := catalog.NewHandlers[catalog.Model, catalog.CreateModelRequest, catalog.UpdateModelRequest](
		catalog.NewPgService[catalog.Model](db, catalog.ModelResource, maxLimit))
	years := catalog.NewHandlers[catalog.Year, catalog.CreateYearRequest, catalog.UpdateYearRequest](
		catalog.NewPgService[catalog.Year](db, catalog.YearResource, maxLimit))
	pricelists := catalog.NewHandlers[catalog.Pricelist, catalog.CreatePricelistRequest, catalog.UpdatePricelistRequest](
		catalog.NewPgService[catalog.Pricelist](db, catalog.PricelistResource, maxLimit))

	r := chi.NewRouter()

	// Global middleware. Chi requires all middleware to be registered before any routes.
	r.Use(middleware.RequestID)                 // Add request ID to context
	r.Use(middleware.RealIP)                    // Get real IP from proxy headers
	r.Use(middleware.Logger)                    // Log all requests
	r.Use(httpx.WithLogger(logger))             // 5xx causes reach the application log
	r.Use(httpx.Recoverer)                      // Panics become a 500 envelope
	r.Use(middleware.Timeout(60 * time.Second)) // Timeout long-running requests

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(httpx.NotFound)
	r.MethodNotAllowed(httpx.MethodNotAllowed)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/healthz", handleHealth(db))

	api := func(r chi.Router) {
		r.Route("/auth", authHandlers.Routes)
		r.Route("/user", userHandlers.Routes(mw, authHandlers.HandleMe()))
		r.Route("/brand", brands.Routes(mw))
		r.Route("/type", types.Routes(mw))
		r.Route("/model", models.Routes(mw))
		r.Route("/year", years.Routes(mw))
		r.Route("/pricelist", pricelists.Routes(mw))
	}
	// `/api` is an alias of the current version.
	r.Route("/api/v1", api)
	r.Route("/api", api)

	return r
}

// handleHealth reports whether the database answers.
func handleHealth(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httpx.WriteError(w, r, apperror.NewDatabaseError("database unavailable", err))
			return
		}
		httpx.OK(w, nil)
	}
}
