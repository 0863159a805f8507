// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the router, the HTTP handlers and the request and response
// schemas used for shortening URLs and redirecting short codes.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig holds the values the router needs besides the use case.
type RouterConfig struct {
	// StaticDir is the directory holding index.html and other public assets.
	StaticDir string
	// DatabaseURI is reported by the debug endpoint.
	DatabaseURI string
	// SwaggerFile is the OpenAPI document served under /docs. Swagger routes are skipped when empty.
	SwaggerFile string
	// Registry collects the HTTP metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
func NewRouter(logger *httplog.Logger, urlUseCase urlUseCase, cfg RouterConfig) *chi.Mux {
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer)
	r.Use(newMetrics(cfg.Registry).handler)

	r.Get("/", handleIndex(cfg.StaticDir))
	r.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.StaticDir))))

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	if cfg.SwaggerFile != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, cfg.SwaggerFile)
		})
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", handlePing)
		r.Get("/debug", handleDebug(cfg.DatabaseURI))

		r.Route("/shorturl", func(r chi.Router) {
			h := newURLHandler(urlUseCase, validator.New())

			r.Post("/", h.shortenURL)
			r.Get("/{short}", h.redirect)
		})
	})

	return r
}
