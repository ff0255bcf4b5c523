package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dom/task-tracker/internal/api/handlers"
	"github.com/dom/task-tracker/internal/api/middleware"
	"github.com/dom/task-tracker/internal/api/response"
	"github.com/dom/task-tracker/internal/config"
	"github.com/dom/task-tracker/internal/domain"
	"github.com/dom/task-tracker/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Can't find "+r.URL.Path+" on this server")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Message(w, http.StatusOK, "API Running")
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, cfg.IsProduction(), services.Auth.RefreshTTL())
	userHandler := handlers.NewUserHandler(services.User)
	taskHandler := handlers.NewTaskHandler(services.Task)

	protect := middleware.Protect(services.Auth)
	adminOnly := middleware.RestrictTo(domain.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/users-auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/refresh", authHandler.Refresh)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(protect)
			r.With(adminOnly).Get("/", userHandler.List)
			r.With(adminOnly).Patch("/role", userHandler.UpdateRole)
			r.Get("/{id}", userHandler.Get)
			r.With(adminOnly).Delete("/{id}", userHandler.Delete)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(protect)
			r.Post("/", taskHandler.Create)
			r.Get("/", taskHandler.List)
			r.Get("/stats", taskHandler.Stats)
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}", taskHandler.Update)
		})
	})

	return r
}
