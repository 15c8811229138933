package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assetdesk/assetdesk-backend/api/controllers"
	"github.com/assetdesk/assetdesk-backend/api/middleware"
	"github.com/assetdesk/assetdesk-backend/internal/admingate"
	"github.com/assetdesk/assetdesk-backend/internal/alerts"
	"github.com/assetdesk/assetdesk-backend/internal/assets"
	"github.com/assetdesk/assetdesk-backend/internal/csvio"
	"github.com/assetdesk/assetdesk-backend/internal/ledger"
	"github.com/assetdesk/assetdesk-backend/internal/lifecycle"
	"github.com/assetdesk/assetdesk-backend/internal/qrexport"
	"github.com/assetdesk/assetdesk-backend/internal/reservations"
	"github.com/assetdesk/assetdesk-backend/internal/summary"
	"github.com/assetdesk/assetdesk-backend/internal/users"
	"github.com/assetdesk/assetdesk-backend/pkg/config"
	"github.com/assetdesk/assetdesk-backend/pkg/logger"
)

// Services bundles the wired domain services the router exposes.
type Services struct {
	Assets       assets.Service
	Ledger       ledger.Service
	Lifecycle    lifecycle.Service
	Alerts       alerts.Service
	Importer     *csvio.Importer
	QRExport     qrexport.Service
	Users        users.Service
	Reservations reservations.Service
	AdminGate    admingate.Service
	Summary      summary.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	adminOnly := middleware.AdminAuth(cfg.JWT, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/admin", controllers.AdminLogin(svcs.AdminGate, logg))

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", controllers.AssetList(svcs.Assets, logg))
			r.Post("/", controllers.AssetCreate(svcs.Assets, logg))
			r.With(adminOnly).Post("/bulk", controllers.AssetBulkUpdate(svcs.Assets, logg))
			r.Post("/import", controllers.AssetImport(svcs.Importer, logg))
			r.Get("/export", controllers.AssetExport(svcs.Assets, logg))
			r.Get("/qr-archive", controllers.AssetQRArchive(svcs.Assets, svcs.QRExport, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.AssetGet(svcs.Assets, logg))
				r.Put("/", controllers.AssetUpdate(svcs.Assets, logg))
				r.Post("/borrow", controllers.AssetBorrow(svcs.Lifecycle, logg))
				r.Post("/return", controllers.AssetReturn(svcs.Lifecycle, logg))
				r.Post("/maintenance-log", controllers.AssetMaintenanceLog(svcs.Lifecycle, logg))
				r.Get("/transactions", controllers.AssetTransactionList(svcs.Ledger, logg))
			})
		})

		r.Get("/transactions", controllers.TransactionList(svcs.Ledger, logg))
		r.Get("/alerts", controllers.AlertList(svcs.Alerts, logg))
		r.Get("/summary", controllers.InventorySummary(svcs.Summary, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(svcs.Users, logg))
			r.With(adminOnly).Post("/", controllers.UserCreate(svcs.Users, logg))
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", controllers.ReservationList(svcs.Reservations, logg))
			r.Post("/", controllers.ReservationCreate(svcs.Reservations, logg))
			r.Put("/{id}/status", controllers.ReservationUpdateStatus(svcs.Reservations, logg))
		})
	})

	return r
}
