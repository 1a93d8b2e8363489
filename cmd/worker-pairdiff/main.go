// Command worker-pairdiff runs the Temporal worker that executes comparison
// workflows one chunk activity at a time.
package main

import (
	"context"
	"log"

	"go.temporal.io/sdk/worker"

	"github.com/finops-claw-gang/pairdiff/internal/config"
	"github.com/finops-claw-gang/pairdiff/internal/connectors"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/activities"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/versioning"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := observability.InitLogger(cfg.LogLevel)
	ctx := context.Background()

	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, "pairdiff-worker")
		if err != nil {
			log.Fatalf("otel: %v", err)
		}
		defer shutdown(ctx)
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		if metrics, err = observability.NewMetrics(); err != nil {
			log.Fatalf("metrics: %v", err)
		}
	}

	sinks, err := connectors.ReportSinks(ctx, cfg)
	if err != nil {
		log.Fatalf("report sinks: %v", err)
	}

	c, err := connectors.DialTemporal(cfg, logger)
	if err != nil {
		log.Fatalf("unable to create Temporal client: %v", err)
	}
	defer c.Close()

	acts := &activities.Activities{
		Orchestrator: connectors.NewOrchestrator(cfg, metrics, logger),
		Sinks:        sinks,
	}

	w := worker.New(c, versioning.QueueCompare, worker.Options{})
	w.RegisterWorkflow(workflows.ComparisonWorkflow)
	w.RegisterActivity(acts)

	logger.Info("starting worker", "queue", versioning.QueueCompare, "sinks", len(sinks))
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
}
