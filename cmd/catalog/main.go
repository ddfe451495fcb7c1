package main

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductsAPI/internal/catalog"
	"ProductsAPI/internal/config"
	"ProductsAPI/pkg/kit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(catalog.ServiceName, cfg.Log.Level)
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := catalog.NewServer(catalog.NewStore(), logger)

	deps := catalog.HTTPDeps{
		Log:            logger,
		Service:        catalog.ServiceName,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = kit.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.TrustProxy)
	}

	opts := kit.ServerOptions{
		ReadHeaderTimeout: cfg.Server.Timeout.ReadHeader,
		ShutdownTimeout:   cfg.Shutdown.Timeout,
	}
	if err := kit.RunHTTPServer(context.Background(), cfg.Addr(), catalog.NewHandler(s, deps), opts, logger); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
	logger.Info("http server stopped")
}
