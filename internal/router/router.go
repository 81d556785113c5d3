package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinic-admin/internal/config"
	"clinic-admin/internal/handler"
	"clinic-admin/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Profile *handler.ProfileHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh-token", h.Auth.Refresh)
			auth.Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Get("/dashboard/stats", h.Catalog.Stats)
			protected.With(authMiddleware.RequireRoles("admin")).Get("/clinics", h.Catalog.Clinics)
			protected.Get("/patients", h.Catalog.Patients)
			protected.Get("/doctors", h.Catalog.Doctors)
			protected.With(authMiddleware.RequireRoles("admin")).Get("/staff", h.Catalog.Staff)
			protected.Get("/appointments", h.Catalog.Appointments)
			protected.Get("/profile/activity", h.Profile.Activity)
		})
	})

	return r
}
