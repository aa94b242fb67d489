package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/maya-kin/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health                       table availability
//	GET /metrics                      Prometheus metrics
//	GET /api/v1/kin/{kin}             matrix row for a KIN
//	GET /api/v1/birthday              birthday rows for ?month=&day= or ?date=
//	GET /api/v1/calc/{date}           KIN of a date, ?second_half=true for day 29
//	GET /api/v1/tables                loaded tables
//	GET /api/v1/tables/{name}         one table with ?preview=N rows
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		MetricsMiddleware(handlers.metrics),
		CORSMiddleware(),
	))

	// ==========================================================================
	// Public routes
	// ==========================================================================
	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", handlers.metrics.Handler())

	// ==========================================================================
	// Lookup routes (API key when configured)
	// ==========================================================================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg, logger))

		r.Get("/kin/{kin}", handlers.GetKin)
		r.Get("/birthday", handlers.GetBirthday)
		r.Get("/calc/{date}", handlers.GetCalc)
		r.Get("/tables", handlers.ListTables)
		r.Get("/tables/{name}", handlers.GetTable)
	})

	return r
}
