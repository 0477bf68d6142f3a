package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jedmarcnocum/spendledger-backend/api/controllers"
	"github.com/jedmarcnocum/spendledger-backend/api/middleware"
	"github.com/jedmarcnocum/spendledger-backend/internal/directory"
	"github.com/jedmarcnocum/spendledger-backend/internal/ingest"
	"github.com/jedmarcnocum/spendledger-backend/pkg/config"
	"github.com/jedmarcnocum/spendledger-backend/pkg/db"
	"github.com/jedmarcnocum/spendledger-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	ingestService ingest.Service,
	directoryService directory.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, logg))
	})
	r.Get("/healthz", controllers.HealthReady(cfg, dbP, logg))

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", controllers.BatchUpload(ingestService, cfg.Upload, logg))
			r.Get("/", controllers.ListBatches(directoryService, logg))
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(directoryService, logg))
			r.Get("/{customerID}/address-changes", controllers.CustomerAddressChanges(directoryService, logg))
		})
	})

	return r
}
