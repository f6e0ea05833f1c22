package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/chart"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/reports"
	"github.com/tillpoint-erp/tillpoint-erp/internal/app"
	"github.com/tillpoint-erp/tillpoint-erp/internal/assets"
	"github.com/tillpoint-erp/tillpoint-erp/internal/masterdata"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/cache"
	"github.com/tillpoint-erp/tillpoint-erp/internal/platform/db"
	"github.com/tillpoint-erp/tillpoint-erp/internal/procurement"
	"github.com/tillpoint-erp/tillpoint-erp/internal/sales"
	"github.com/tillpoint-erp/tillpoint-erp/internal/shared"
	"github.com/tillpoint-erp/tillpoint-erp/internal/treasury"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	if err := chart.EnsureSeed(ctx, pool); err != nil {
		logger.Error("seed chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}
	chartRegistry := chart.NewRegistry(chart.NewRepository(pool))
	if err := chartRegistry.Load(ctx); err != nil {
		logger.Error("load chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := shared.NewAuditLogger(pool)
	balanceCache := masterdata.NewBalanceCache(redisClient, cfg.BalanceCacheTTL)

	postingRepo := posting.NewRepository(pool)
	engine := posting.NewEngine(postingRepo, balanceCache, auditLogger, logger)

	masterdataRepo := masterdata.NewRepository(pool)
	masterdataService := masterdata.NewService(masterdataRepo, balanceCache, logger)

	procurementService := procurement.NewService(chartRegistry, engine)
	salesService := sales.NewService(chartRegistry, engine)
	treasuryService := treasury.NewService(chartRegistry, engine)

	assetsRepo := assets.NewRepository(pool)
	assetsService := assets.NewService(assetsRepo, chartRegistry, engine)

	reportsService := reports.NewService(reports.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		ChartHandler:       chart.NewHandler(logger, chartRegistry),
		MasterDataHandler:  masterdata.NewHandler(logger, masterdataService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		SalesHandler:       sales.NewHandler(logger, salesService),
		TreasuryHandler:    treasury.NewHandler(logger, treasuryService),
		AssetsHandler:      assets.NewHandler(logger, assetsService),
		ReportsHandler:     reports.NewHandler(logger, reportsService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
