package http

import (
	"net/http"
	"time"

	"github.com/frontandrew/patrol/internal/delivery/http/middleware"
	"github.com/frontandrew/patrol/internal/domain"
	"github.com/frontandrew/patrol/internal/pkg/config"
	"github.com/frontandrew/patrol/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers - набор обработчиков API
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Catalog   *CatalogHandler
	Violation *ViolationHandler
	Report    *ReportHandler
}

// Router содержит все зависимости для HTTP роутера
type Router struct {
	handlers     Handlers
	tokenService middleware.TokenValidator
	config       *config.Config
	logger       logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	handlers Handlers,
	tokenService middleware.TokenValidator,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		handlers:     handlers,
		tokenService: tokenService,
		config:       config,
		logger:       logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", rt.handlers.Auth.Login)
			r.Post("/refresh", rt.handlers.Auth.Refresh)
			r.Post("/logout", rt.handlers.Auth.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Get("/auth/me", rt.handlers.Auth.GetMe)

			r.Route("/violation-types", func(r chi.Router) {
				r.Get("/", rt.handlers.Catalog.ListTypes)
				r.Get("/{id}", rt.handlers.Catalog.GetType)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Post("/", rt.handlers.Catalog.CreateType)
					r.Put("/{id}", rt.handlers.Catalog.UpdateType)
					r.Delete("/{id}", rt.handlers.Catalog.DeactivateType)
				})
			})

			r.Route("/fines", func(r chi.Router) {
				r.Get("/quote", rt.handlers.Violation.QuoteQuery)
				r.Post("/quote", rt.handlers.Violation.Quote)
			})

			r.Route("/violations", func(r chi.Router) {
				r.Post("/", rt.handlers.Violation.Submit)
				r.Get("/", rt.handlers.Violation.ListViolations)

				r.With(
					middleware.RequireRole(domain.RoleAdmin),
					chiMiddleware.Timeout(10*time.Minute),
				).Post("/recompute", rt.handlers.Violation.Recompute)

				r.Get("/{id}", rt.handlers.Violation.GetViolation)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/reports/summary", rt.handlers.Report.Summary)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", rt.handlers.User.ListUsers)
					r.Post("/", rt.handlers.User.CreateUser)
					r.Patch("/{id}", rt.handlers.User.UpdateUser)
					r.Delete("/{id}", rt.handlers.User.DeactivateUser)
				})
			})
		})
	})

	return r
}
