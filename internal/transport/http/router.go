package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-gym-api/internal/application/class"
	"github.com/go-gym-api/internal/application/notification"
	"github.com/go-gym-api/internal/config"
	"github.com/go-gym-api/internal/domain"
	"github.com/go-gym-api/internal/transport/http/handler"
	appmiddleware "github.com/go-gym-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds the
// background work of the rate limiter.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	bookingRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.BookingRateLimit), cfg.BookingRateBurst)

	classSvc := class.NewService(class.ServiceDeps{
		ClassRepo:      deps.ClassRepo,
		MembershipRepo: deps.MembershipRepo,
		Now:            deps.Now,
	})
	notifSvc := notification.NewService(notification.ServiceDeps{
		Repo:      deps.NotificationRepo,
		Freshness: cfg.NotificationFreshness,
		Now:       deps.Now,
	})

	healthH := handler.NewHealthHandler()
	classH := handler.NewClassHandler(classSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	staff := appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleTrainer)
	admin := appmiddleware.RequireRole(domain.RoleAdmin)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.Verifier))

			r.Get("/access", classH.Access)
			r.Get("/reservations", classH.MyReservations)

			r.Get("/classes/available", classH.Available)
			r.Get("/classes/{id}", classH.Get)
			r.With(bookingRL.Limit).Post("/classes/{id}/reservations", classH.Book)
			r.With(bookingRL.Limit).Delete("/classes/{id}/reservations", classH.Cancel)

			r.Get("/notifications", notifH.List)

			// Staff routes
			r.Group(func(r chi.Router) {
				r.Use(staff)

				r.Post("/classes", classH.Create)
				r.Put("/classes/{id}", classH.Update)
				r.Delete("/classes/{id}", classH.Delete)
				r.Get("/classes/{id}/reservations", classH.Roster)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(admin)

				r.Post("/notifications", notifH.Create)
				r.Get("/notifications/{id}", notifH.Get)
				r.Put("/notifications/{id}", notifH.Update)
				r.Delete("/notifications/{id}", notifH.Delete)
			})
		})
	})

	return r
}
