package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/reports"
	"github.com/tillpoint-erp/tillpoint-erp/internal/assets"
	"github.com/tillpoint-erp/tillpoint-erp/internal/masterdata"
	"github.com/tillpoint-erp/tillpoint-erp/internal/procurement"
	"github.com/tillpoint-erp/tillpoint-erp/internal/sales"
	"github.com/tillpoint-erp/tillpoint-erp/internal/treasury"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	ChartHandler       *chart.Handler
	MasterDataHandler  *masterdata.Handler
	ProcurementHandler *procurement.Handler
	SalesHandler       *sales.Handler
	TreasuryHandler    *treasury.Handler
	AssetsHandler      *assets.Handler
	ReportsHandler     *reports.Handler
}

// NewRouter constructs the chi.Router with the default middleware stack and
// every module mounted under its own prefix.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/accounting", func(r chi.Router) {
		params.ChartHandler.MountRoutes(r)
		params.ReportsHandler.MountRoutes(r)
	})
	r.Route("/masterdata", params.MasterDataHandler.MountRoutes)
	r.Route("/procurement", params.ProcurementHandler.MountRoutes)
	r.Route("/sales", params.SalesHandler.MountRoutes)
	r.Route("/treasury", params.TreasuryHandler.MountRoutes)
	r.Route("/fixed-assets", params.AssetsHandler.MountRoutes)

	return r
}
