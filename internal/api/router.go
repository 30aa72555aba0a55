package api

import (
	"collection-engine/internal/api/handler"
	mw "collection-engine/internal/api/middleware"
	"collection-engine/internal/config"
	"collection-engine/internal/domain/assignment"
	"collection-engine/internal/domain/collector"
	"collection-engine/internal/domain/customer"
	"collection-engine/internal/domain/report"
	"collection-engine/internal/importer"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Customers   customer.CustomerService
	Collectors  collector.CollectorService
	Assignments assignment.AssignmentService
	Reports     report.ReportService
	Importer    *importer.ExcelImporter
}

func SetupRouter(svcs Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, svcs, logger)
	setupCustomerRoutes(router, cfg, svcs, logger)
	setupCollectorRoutes(router, cfg, svcs, logger)
	setupReportRoutes(router, cfg, svcs, logger)
	setupImportRoutes(router, cfg, svcs, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, svcs Services, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.AdminLogin)
	})
}

func setupCustomerRoutes(router *chi.Mux, cfg *config.Config, svcs Services, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svcs.Customers, svcs.Assignments, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))

		// Reads are open to both roles; the collector app lists and
		// inspects accounts the same way the back office does.
		r.Get("/", h.ListCustomers)
		r.Get("/{customerID}", h.GetCustomer)

		// Field updates come from whoever is holding the account.
		r.Post("/{customerID}/payments", h.RecordPayment)
		r.Put("/{customerID}/visit", h.RecordVisit)

		// Account lifecycle and assignment are back-office actions.
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(logger, mw.RoleAdmin))
			r.Post("/", h.CreateCustomer)
			r.Put("/{customerID}", h.UpdateCustomer)
			r.Delete("/{customerID}", h.DeleteCustomer)
			r.Put("/{customerID}/assignment", h.UpdateAssignment)
		})
	})
}

func setupCollectorRoutes(router *chi.Mux, cfg *config.Config, svcs Services, logger *slog.Logger) {
	h := handler.NewCollectorHandler(svcs.Collectors, svcs.Customers, svcs.Reports, cfg.Server.Auth, logger)

	router.Route("/collectors", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))

			r.Route("/me", func(r chi.Router) {
				r.Use(mw.RequireRole(logger, mw.RoleCollector))
				r.Get("/dashboard", h.Dashboard)
				r.Get("/customers", h.MyCustomers)
			})

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(logger, mw.RoleAdmin))
				r.Post("/", h.CreateCollector)
				r.Get("/", h.ListCollectors)
				r.Get("/{collectorID}", h.GetCollector)
				r.Delete("/{collectorID}", h.DeleteCollector)
			})
		})
	})
}

func setupReportRoutes(router *chi.Mux, cfg *config.Config, svcs Services, logger *slog.Logger) {
	h := handler.NewReportHandler(svcs.Reports, logger)

	router.Route("/reports", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(logger, mw.RoleAdmin))
		r.Get("/summary", h.GetSummary)
		r.Get("/collectors", h.GetCollectorPerformance)
		r.Get("/areas", h.GetAreaReport)
		r.Get("/promises", h.GetPromiseBuckets)
	})
}

func setupImportRoutes(router *chi.Mux, cfg *config.Config, svcs Services, logger *slog.Logger) {
	h := handler.NewImportHandler(svcs.Importer, logger)

	router.Route("/imports", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Use(mw.RequireRole(logger, mw.RoleAdmin))
		r.Post("/customers", h.ImportCustomers)
	})
}
