// Command api runs the HTTP API server for pair comparisons.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/finops-claw-gang/pairdiff/internal/api"
	"github.com/finops-claw-gang/pairdiff/internal/config"
	"github.com/finops-claw-gang/pairdiff/internal/connectors"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(cfg.LogLevel)
	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, "pairdiff-api")
		if err != nil {
			logger.Error("otel init failed", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	var (
		metrics        *observability.Metrics
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		handler, shutdown, err := observability.InitMeterProvider("pairdiff-api")
		if err != nil {
			logger.Error("metrics init failed", "error", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
		if metrics, err = observability.NewMetrics(); err != nil {
			logger.Error("metrics init failed", "error", err)
			os.Exit(1)
		}
		metricsHandler = handler
	}

	opts := api.Options{
		Orchestrator:   connectors.NewOrchestrator(cfg, metrics, logger),
		MetricsHandler: metricsHandler,
		CORSOrigins:    cfg.CORSOrigins,
		OIDC: api.OIDCConfig{
			IssuerURL: cfg.OIDCIssuer,
			Audience:  cfg.OIDCAudience,
			Enabled:   cfg.OIDCEnabled(),
		},
		DefaultLimit:     cfg.Limit,
		DefaultBatchSize: cfg.BatchSize,
	}

	c, err := connectors.DialTemporal(cfg, logger)
	if err != nil {
		logger.Warn("temporal unavailable, workflow routes disabled", "error", err)
	} else {
		defer c.Close()
		opts.Querier = querier.New(c)
	}

	srv, err := api.New(ctx, opts)
	if err != nil {
		logger.Error("api init failed", "error", err)
		os.Exit(1)
	}

	var handler http.Handler = srv
	if cfg.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "pairdiff-api")
	}

	addr := ":" + cfg.APIPort
	logger.Info("starting API server", "addr", addr, "oidc_enabled", opts.OIDC.Enabled, "workflows", opts.Querier != nil)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
