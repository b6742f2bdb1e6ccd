package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"burger-storefront/config"
	httpapi "burger-storefront/internal/api/http"
	"burger-storefront/internal/logging"
	"burger-storefront/internal/metrics"
	"burger-storefront/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	publicURL := flag.String("public-url", "http://localhost:8080", "base URL encoded into order QR codes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info", "text").WithError(err).Fatal("failed to load config")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	backend := httpapi.NewBackend(cfg.JWTSecret, cfg.AccessTokenTTL, nil)
	hub := httpapi.NewFeedHub(backend, logger)
	handler := httpapi.NewHandler(backend, hub, store.DefaultQRGenerator{BaseURL: *publicURL}, logger)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpapi.NewRouter(handler, registry, m.Middleware),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("shutdown did not complete")
		}
	}()

	logger.WithField("addr", cfg.ListenAddr).Info("stub API starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server failed")
	}
	logger.Info("stub API stopped")
}
