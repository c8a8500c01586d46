package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/inventory-simulator/docs"
	"github.com/rogerio-castellano/inventory-simulator/internal/auth"
	"github.com/rogerio-castellano/inventory-simulator/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-simulator/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-simulator/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-simulator/internal/metrics"
)

// Options carries the optional pieces of the HTTP surface. Nil fields switch
// the matching feature off.
type Options struct {
	Tokens         *auth.TokenManager
	Limiter        *rl.Limiter
	Collector      *metrics.Collector
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(mw.Logging)
	if opts.Collector != nil {
		r.Use(opts.Collector.Middleware)
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
		}).Handler)
	}

	r.Get("/health", s.HealthHandler)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.GetProductsHandler)
			r.Post("/", s.CreateProductHandler)
			r.Get("/{id}", s.GetProductByIDHandler)
			r.Put("/{id}", s.UpdateProductHandler)
			r.Delete("/{id}", s.DeleteProductHandler)
			r.Get("/{id}/movements", s.GetMovementsHandler)
			r.Get("/{id}/movements/export", s.ExportMovementsHandler)
		})

		r.Route("/sim", func(r chi.Router) {
			r.Get("/status", s.SimulationStatusHandler)
			r.Group(func(r chi.Router) {
				if opts.Tokens != nil {
					r.Use(mw.RequireBearer(opts.Tokens))
				}
				r.Post("/start", s.StartSimulationHandler)
				r.Post("/stop", s.StopSimulationHandler)
			})
		})

		r.Get("/metrics/dashboard", s.GetDashboardMetricsHandler)
	})

	return r
}
