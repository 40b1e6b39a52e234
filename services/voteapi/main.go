package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"votenow/gateway/middleware"
	"votenow/observability/logging"
	"votenow/observability/otel"
	"votenow/registry"
	"votenow/services/voteapi/config"
	"votenow/services/voteapi/server"
	"votenow/snapshot"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "services/voteapi/config.yaml", "path to configuration file")
	flag.Parse()

	env := os.Getenv("VOTENOW_ENV")
	if env == "" {
		env = "development"
	}
	logger := logging.Setup("voteapi", env)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := otel.Init(ctx, otel.Config{
		ServiceName: "voteapi",
		Environment: env,
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Insecure:    os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
		Headers:     otel.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		Metrics:     true,
		Traces:      true,
	})
	if err != nil {
		logger.Error("failed to initialise telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	reg, err := registry.Load(cfg.RegistryPath)
	if err != nil {
		logger.Error("failed to load dao registry", "error", err)
		os.Exit(1)
	}

	ledger, err := server.OpenLedger(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open reward ledger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Warn("ledger close failed", "error", err)
		}
	}()

	hub := snapshot.New(cfg.HubURL, cfg.SequencerURL, logger)
	analyzer := server.NewAnalyzer(cfg.AI, logger)

	obs := middleware.NewObservability(middleware.ObservabilityConfig{
		ServiceName:   "voteapi",
		MetricsPrefix: "voteapi",
		LogRequests:   env != "production",
		Enabled:       true,
	}, logger)
	limiter := middleware.NewRateLimiter(map[string]middleware.RateLimit{
		"voteapi": {RequestsPerMinute: cfg.RateLimit, Burst: 30},
	}, logger)

	api := server.New(cfg, reg, hub, ledger, analyzer, logger)
	handler := otelhttp.NewHandler(api.Handler(obs, limiter), "voteapi")

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("voteapi listening",
			"address", cfg.ListenAddress,
			"hub", cfg.HubURL,
			"daos", len(reg.All()))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", "error", err)
	}
}
