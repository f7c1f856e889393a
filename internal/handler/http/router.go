package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig holds the HTTP-edge settings of the router.
type RouterConfig struct {
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svc *service.StorefrontService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	storefrontHandler := NewStorefrontHandler(svc, logger)
	cartHandler := NewCartHandler(svc, logger)
	wishlistHandler := NewWishlistHandler(svc, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/storefront", func(r chi.Router) {
			r.Get("/", storefrontHandler.GetView)
			r.Get("/facets", storefrontHandler.GetFacets)
			r.Get("/suggest", storefrontHandler.Suggest)
			r.Post("/reload", storefrontHandler.Reload)

			r.Put("/filters", storefrontHandler.SetFilters)
			r.Delete("/filters", storefrontHandler.ClearFilters)
			r.Post("/filters/toggle", storefrontHandler.ToggleFilter)
			r.Put("/filters/price", storefrontHandler.SetPriceRange)

			r.Put("/sort", storefrontHandler.SetSort)
			r.Put("/search", storefrontHandler.SetSearch)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/{productId}/toggle", wishlistHandler.Toggle)
		})
	})

	return r
}
