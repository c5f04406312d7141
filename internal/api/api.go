package api

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/moneytrack-io/moneytrack/internal/auth"
	"github.com/moneytrack-io/moneytrack/internal/config"
	"github.com/moneytrack-io/moneytrack/internal/objectives"
	"github.com/moneytrack-io/moneytrack/internal/respond"
	"github.com/moneytrack-io/moneytrack/internal/transactions"
)

// Api owns the HTTP surface: router, middleware and handler wiring.
type Api struct {
	Config config.Config
	Router *chi.Mux
}

// NewApi builds the router with all routes mounted. Collaborators are
// constructed here from the explicit config and database handle so tests
// can run isolated instances with their own secrets and stores.
func NewApi(cfg config.Config, db *sql.DB) *Api {
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())

	authHandler := auth.NewHandler(auth.NewUserStore(db), tokenManager, cfg.Development())
	txHandler := transactions.NewHandler(transactions.NewStore(db), cfg.Development())
	objHandler := objectives.NewHandler(objectives.NewStore(db), cfg.Development())

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(recoverer(cfg.Development()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]string{
				"message":   "MoneyTrack API is running!",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenManager))

			r.Get("/auth/profile", authHandler.Profile)
			r.Get("/auth/verify", authHandler.Verify)

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", txHandler.Create)
				r.Get("/", txHandler.List)
				r.Get("/stats", txHandler.Stats)
				r.Put("/{id}", txHandler.Update)
				r.Delete("/{id}", txHandler.Delete)
			})

			r.Route("/objectives", func(r chi.Router) {
				r.Post("/", objHandler.Create)
				r.Get("/", objHandler.List)
				r.Put("/{id}", objHandler.Update)
				r.Delete("/{id}", objHandler.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond.Error(w, http.StatusNotFound, "Route not found")
	})

	return &Api{Config: cfg, Router: r}
}

// Serve blocks, listening on the configured port.
func (api *Api) Serve() error {
	addr := fmt.Sprintf("0.0.0.0:%d", api.Config.APIPort)
	log.Printf("[API] Starting server on %s", addr)
	return http.ListenAndServe(addr, api.Router)
}

// recoverer converts panics into the generic 500 body, exposing the panic
// value only in development mode.
func recoverer(dev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil && rec != http.ErrAbortHandler {
					log.Printf("[API] panic serving %s %s: %v", r.Method, r.URL.Path, rec)
					if dev {
						respond.JSON(w, http.StatusInternalServerError, map[string]string{
							"message": "Something went wrong!",
							"error":   fmt.Sprintf("%v", rec),
						})
						return
					}
					respond.Error(w, http.StatusInternalServerError, "Something went wrong!")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
