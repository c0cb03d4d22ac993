package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/vendorscore-backend/api/controllers"
	pocontrollers "github.com/angelmondragon/vendorscore-backend/api/controllers/purchaseorders"
	vendorcontrollers "github.com/angelmondragon/vendorscore-backend/api/controllers/vendors"
	"github.com/angelmondragon/vendorscore-backend/api/middleware"
	"github.com/angelmondragon/vendorscore-backend/internal/performance"
	"github.com/angelmondragon/vendorscore-backend/internal/purchaseorders"
	"github.com/angelmondragon/vendorscore-backend/internal/vendors"
	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
	"github.com/angelmondragon/vendorscore-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	readiness []controllers.ReadinessCheck,
	vendorService vendors.Service,
	orderService purchaseorders.Service,
	performanceService performance.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg, httpMetrics),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// Each route answers with and without the trailing slash.
		handle(r, http.MethodGet, "/purchase_orders", pocontrollers.List(orderService, logg))
		handle(r, http.MethodPost, "/purchase_orders", pocontrollers.Create(orderService, logg))
		handle(r, http.MethodGet, "/purchase_orders/{poID}", pocontrollers.Get(orderService, logg))
		handle(r, http.MethodPut, "/purchase_orders/{poID}", pocontrollers.Update(orderService, logg))
		handle(r, http.MethodDelete, "/purchase_orders/{poID}", pocontrollers.Delete(orderService, logg))
		handle(r, http.MethodPost, "/purchase_orders/{poID}/acknowledge", pocontrollers.Acknowledge(orderService, logg))
		handle(r, http.MethodPost, "/purchase_orders/{poID}/complete", pocontrollers.Complete(orderService, logg))
		handle(r, http.MethodPost, "/purchase_orders/{poID}/cancel", pocontrollers.Cancel(orderService, logg))

		handle(r, http.MethodGet, "/vendors", vendorcontrollers.List(vendorService, logg))
		handle(r, http.MethodPost, "/vendors", vendorcontrollers.Create(vendorService, logg))
		handle(r, http.MethodGet, "/vendors/{vendorID}", vendorcontrollers.Get(vendorService, logg))
		handle(r, http.MethodPut, "/vendors/{vendorID}", vendorcontrollers.Update(vendorService, logg))
		handle(r, http.MethodDelete, "/vendors/{vendorID}", vendorcontrollers.Delete(vendorService, logg))
		handle(r, http.MethodGet, "/vendors/{vendorID}/performance", vendorcontrollers.Performance(performanceService, logg))
		handle(r, http.MethodGet, "/vendors/{vendorID}/pos", vendorcontrollers.PurchaseOrders(orderService, logg))
		handle(r, http.MethodGet, "/vendors/{vendorID}/historical_perf", vendorcontrollers.History(performanceService, logg))
	})

	return r
}

func handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, h)
	r.Method(method, pattern+"/", h)
}
