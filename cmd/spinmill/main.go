package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/spinmill-erp/spinmill-erp/internal/app"
	"github.com/spinmill-erp/spinmill-erp/internal/invoice"
	"github.com/spinmill-erp/spinmill-erp/internal/masterdata"
	"github.com/spinmill-erp/spinmill-erp/internal/orders"
	"github.com/spinmill-erp/spinmill-erp/internal/platform/cache"
	"github.com/spinmill-erp/spinmill-erp/internal/platform/db"
	"github.com/spinmill-erp/spinmill-erp/internal/production"
	"github.com/spinmill-erp/spinmill-erp/internal/report"
	"github.com/spinmill-erp/spinmill-erp/internal/shared"
	"github.com/spinmill-erp/spinmill-erp/internal/stock"
	"github.com/spinmill-erp/spinmill-erp/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports uncached", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	approvalRecorder := shared.NewApprovalRecorder(pool, logger)
	idempotencyStore := shared.NewIdempotencyStore(pool)

	stockRepo := stock.NewRepository(pool)
	stockLedger := stock.NewLedger(stockRepo, stock.ServiceConfig{AllowNegativeStock: cfg.StockAllowNegative})
	stockHandler := stock.NewHandler(logger, stockLedger)

	invoiceRepo := invoice.NewRepository(pool)
	invoiceService := invoice.NewService(invoiceRepo, approvalRecorder, logger,
		invoice.ServiceConfig{AllowNegativeStock: cfg.StockAllowNegative})
	invoiceHandler := invoice.NewHandler(logger, invoiceService, idempotencyStore)

	productionRepo := production.NewRepository(pool)
	productionService := production.NewService(productionRepo)
	productionHandler := production.NewHandler(logger, productionService)

	ordersRepo := orders.NewRepository(pool)
	ordersService := orders.NewService(ordersRepo)
	ordersHandler := orders.NewHandler(logger, ordersService)

	masterRegistry := masterdata.NewRegistry(pool)
	masterHandler := masterdata.NewHandler(logger, masterRegistry)

	reportRepo := report.NewRepository(pool)
	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := report.NewService(reportRepo, reportCache)
	reportHandler := report.NewHandler(logger, reportService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		InvoiceHandler:    invoiceHandler,
		ProductionHandler: productionHandler,
		StockHandler:      stockHandler,
		OrdersHandler:     ordersHandler,
		MasterDataHandler: masterHandler,
		ReportHandler:     reportHandler,
		JobHandler:        jobHandler,
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
