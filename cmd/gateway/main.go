package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/po-mobile/po-gateway/internal/app"
	"github.com/po-mobile/po-gateway/internal/auth"
	"github.com/po-mobile/po-gateway/internal/observability"
	"github.com/po-mobile/po-gateway/internal/odata"
	"github.com/po-mobile/po-gateway/internal/platform/cache"
	"github.com/po-mobile/po-gateway/internal/po"
	"github.com/po-mobile/po-gateway/internal/sapfmt"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var responseCache *cache.Cache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			responseCache = cache.NewCache(redisClient, cfg.CacheTTL)
		}
	}

	client, err := odata.NewClient(odata.ClientConfig{
		BaseURL:   cfg.SAPBaseURL,
		SAPClient: cfg.SAPClient,
		Credentials: odata.Credentials{
			Username: cfg.SAPUsername,
			Password: cfg.SAPPassword,
		},
		Timeout:  cfg.SAPTimeout,
		Logger:   logger,
		Recorder: metrics,
	})
	if err != nil {
		logger.Error("build odata client", slog.Any("error", err))
		os.Exit(1)
	}

	formatter := sapfmt.New(cfg.DisplayLocale, cfg.DisplayDateLayout)

	poService := po.NewService(client, responseCache, formatter, po.Resources{
		Header:          cfg.POResource,
		History:         cfg.HistoryResource,
		HistoryKey:      cfg.HistoryKey,
		GoodsReceipt:    cfg.GoodsReceiptResource,
		GoodsReceiptKey: cfg.GoodsReceiptKey,
		Invoice:         cfg.InvoiceResource,
		InvoiceKey:      cfg.InvoiceKey,
	}, logger)
	poHandler := po.NewHandler(logger, poService)

	authService := auth.NewService(client, cfg.POResource, logger)
	authHandler := auth.NewHandler(logger, authService)

	router := app.NewRouter(app.RouterParams{
		Logger:      logger,
		Config:      cfg,
		AuthHandler: authHandler,
		POHandler:   poHandler,
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("sap_host", hostOnly(cfg.SAPBaseURL)))
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

// hostOnly strips path and credentials from a URL for startup logging.
func hostOnly(raw string) string {
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		return raw[:i]
	}
	return raw
}
