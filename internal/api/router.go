package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Arbiter/internal/analysis"
	"github.com/MikeSquared-Agency/Arbiter/internal/catalog"
	"github.com/MikeSquared-Agency/Arbiter/internal/store"
)

// NewRouter builds the public API. s may be nil when no company database is
// configured; the company endpoints then answer 503.
func NewRouter(svc *analysis.Service, c *catalog.Catalog, s store.Store, threshold float64, rateLimit int, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(rateLimit))

	cat := NewCatalogHandler(c)
	companies := NewCompaniesHandler(s)
	analyze := NewAnalyzeHandler(svc)
	ahp := NewAHPHandler(c, threshold)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/criteria", cat.Criteria)
		r.Get("/methods", cat.Methods)

		r.Get("/companies", companies.List)
		r.Get("/companies/{id}", companies.Get)

		r.Post("/analyze", analyze.Analyze)
		r.Post("/analyze/compare", analyze.Compare)
		r.Post("/analyze/{method}", analyze.AnalyzeMethod)

		r.Post("/ahp/weights", ahp.Weights)
		r.Post("/ahp/pairwise", ahp.Pairwise)
	})

	return r
}

// NewMetricsRouter serves health and Prometheus metrics. g is normally
// prometheus.DefaultGatherer.
func NewMetricsRouter(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}
