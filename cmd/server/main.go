package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	webAdapter "resale-ledger/internal/adapters/web"
	"resale-ledger/internal/bootstrap"
	"resale-ledger/internal/config"
	"resale-ledger/internal/logging"
	"resale-ledger/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer closeStore()

	m := metrics.New()
	svc := bootstrap.NewAppService(cfg, store, m, logger)

	handler := webAdapter.NewHandler(ctx, svc, webAdapter.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		SessionSecret:  cfg.Auth.SessionSecret,
		SellerTokenTTL: cfg.SellerTTL(),
		SessionTTL:     cfg.StorefrontTTL(),
		AllowedOrigins: cfg.Origins(),
		CookieSecure:   cfg.Server.CookieSecure,
		Logger:         logger,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
