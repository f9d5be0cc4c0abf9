package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/coptic-calendar-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
//	GET    /health
//	GET    /api/v1/coptic/today
//	GET    /api/v1/coptic/date/{date}
//	GET    /api/v1/coptic/range?start=&end=
//	GET    /api/v1/coptic/new-year/{year}
//	GET    /api/v1/coptic/to-civil/{year}/{month}/{day}
//	GET    /api/v1/feasts?month=
//	GET    /api/v1/feasts/calendar.ics?year=
//	GET    /api/v1/admin/feasts          (X-API-Key)
//	POST   /api/v1/admin/feasts          (X-API-Key)
//	DELETE /api/v1/admin/feasts/{id}     (X-API-Key)
func SetupRoutes(h *Handlers, cfg *config.Config, log *slog.Logger, limiter *RateLimiter) http.Handler {
	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(log))
	r.Use(RecoveryMiddleware(log))
	r.Use(CORSMiddleware())
	r.Use(chimw.CleanPath)
	r.Use(chimw.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(api chi.Router) {
		if limiter != nil {
			api.Use(limiter.Middleware())
		}

		api.Route("/coptic", func(c chi.Router) {
			c.Get("/today", h.GetToday)
			c.Get("/date/{date}", h.GetDate)
			c.Get("/range", h.GetRange)
			c.Get("/new-year/{year}", h.GetNewYear)
			c.Get("/to-civil/{year}/{month}/{day}", h.GetToCivil)
		})

		api.Get("/feasts", h.ListFeasts)
		api.Get("/feasts/calendar.ics", h.GetFeastCalendar)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(AuthMiddleware(cfg, log))
			admin.Get("/feasts", h.ListFeastRecords)
			admin.Post("/feasts", h.CreateFeast)
			admin.Delete("/feasts/{id}", h.DeleteFeast)
		})
	})

	return r
}
