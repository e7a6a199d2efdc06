package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouteOptions carries the optional pieces of the router.
type RouteOptions struct {
	AllowedOrigins []string
	Metrics        http.Handler // served at /metrics when set
}

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, hc *HealthChecker, opts RouteOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Server-Identity", "dmaic-measure-agent")
			next.ServeHTTP(w, req)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/", h.HandleRoot)

	r.Get("/health", hc.HandleHealth)
	r.Get("/health/live", hc.HandleLiveness)
	r.Get("/health/ready", hc.HandleReadiness)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Post("/measure/evaluate", h.HandleEvaluate)

	r.Route("/clients/{clientID}", func(r chi.Router) {
		r.Get("/", h.HandleGetClient)
		r.Put("/", h.HandleUpsertClient)
		r.Post("/targets", h.HandleUpsertTarget)
	})

	return r
}
