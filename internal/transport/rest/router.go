package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/recibox/internal/auth"
	"github.com/frahmantamala/recibox/internal/category"
	"github.com/frahmantamala/recibox/internal/dashboard"
	"github.com/frahmantamala/recibox/internal/expense"
	"github.com/frahmantamala/recibox/internal/project"
	"github.com/frahmantamala/recibox/internal/storage"
	"github.com/frahmantamala/recibox/internal/transport/middleware"
	"github.com/frahmantamala/recibox/internal/transport/swagger"
	"github.com/frahmantamala/recibox/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Auth      *auth.Handler
	User      *user.Handler
	Project   *project.Handler
	Expense   *expense.Handler
	Category  *category.Handler
	Dashboard *dashboard.Handler
	Storage   *storage.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, storageRoot string, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, storageRoot)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Receipt files are served outside the API prefix. Objects read like a
	// public bucket; a token, when present, must still verify.
	if handlers.Storage != nil {
		router.Get("/arquivos/*", handlers.Storage.Serve)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
				sr.Post("/logout", handlers.Auth.Logout)
			})

			r.Group(func(pr chi.Router) {
				pr.Use(handlers.Auth.AuthMiddleware)

				if handlers.User != nil {
					pr.Get("/users/me", handlers.User.GetCurrentUser)
				}

				if handlers.Dashboard != nil {
					pr.Get("/dashboard", handlers.Dashboard.GetDashboard)
				}

				if handlers.Category != nil {
					pr.Get("/categories", handlers.Category.GetCategories)
					pr.Get("/categories/{id}", handlers.Category.GetCategory)
				}

				if handlers.Project != nil {
					pr.Route("/projects", func(prr chi.Router) {
						prr.Post("/", handlers.Project.CreateProject)
						prr.Get("/", handlers.Project.ListProjects)
						prr.Get("/active", handlers.Project.ActiveProjects)
						prr.Get("/{id}", handlers.Project.GetProject)
						prr.Put("/{id}", handlers.Project.UpdateProject)
						prr.Delete("/{id}", handlers.Project.DeleteProject)
					})
				}

				if handlers.Expense != nil {
					pr.Route("/expenses", func(er chi.Router) {
						er.Post("/", handlers.Expense.CreateExpense)
						er.Get("/", handlers.Expense.ListExpenses)
						er.Get("/{id}", handlers.Expense.GetExpense)
						er.Put("/{id}", handlers.Expense.UpdateExpense)
						er.Delete("/{id}", handlers.Expense.DeleteExpense)
					})
				}

				if handlers.Storage != nil {
					pr.Route("/files", func(fr chi.Router) {
						fr.Post("/", handlers.Storage.Upload)
						fr.Get("/signed-url", handlers.Storage.SignedURL)
					})
				}
			})
		}
	})
}
