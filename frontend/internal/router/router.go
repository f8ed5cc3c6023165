package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/previewer-dev/previewer/frontend/internal/setup"
	mw "github.com/previewer-dev/previewer/shared/middleware"
	"github.com/previewer-dev/previewer/shared/middleware/metrics"
)

func SetupRouter(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	h := deps.Handler
	security := deps.Public.Security

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	// The page is embedded by the host, only the configured ancestors may frame it.
	r.Use(mw.SecurityHeadersWithCSP(security.HTTPS, mw.FrameAncestorsCSP(security.FrameAncestors)))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		// every mount allocates a session
		r.Use(mw.RateLimit(deps.MountLimiter, mw.GetIP))
		r.Use(deps.Handshake.NeedHandshake())
		r.Get("/preview", h.Mount)
	})

	r.Route("/preview/{session}", func(r chi.Router) {
		r.Get("/", h.Page)
		r.Get("/state", h.State)
		r.Post("/select/{attachmentID}", h.Select)
		r.Get("/content/{handle}", h.Content)
		r.Get("/download", h.Download)
	})

	return r
}
