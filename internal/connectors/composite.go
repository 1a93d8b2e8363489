// Package connectors composes the fetch, compare and report components into
// the pipelines that the binaries run.
package connectors

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/client"

	"github.com/finops-claw-gang/pairdiff/internal/batch"
	"github.com/finops-claw-gang/pairdiff/internal/comparator"
	"github.com/finops-claw-gang/pairdiff/internal/config"
	awsauth "github.com/finops-claw-gang/pairdiff/internal/connectors/aws"
	"github.com/finops-claw-gang/pairdiff/internal/connectors/aws/cloudwatch"
	"github.com/finops-claw-gang/pairdiff/internal/fetcher"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/ratelimit"
	"github.com/finops-claw-gang/pairdiff/internal/report"
	"github.com/finops-claw-gang/pairdiff/internal/runner"
)

// NewOrchestrator wires fetcher -> comparator -> runner -> batch orchestrator
// from cfg. metrics may be nil.
func NewOrchestrator(cfg config.Config, metrics *observability.Metrics, logger *slog.Logger) *batch.Orchestrator {
	f := fetcher.New(fetcher.Options{
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Limiter:      ratelimit.NewHostLimiter(cfg.HostRPS, cfg.HostBurst),
		Metrics:      metrics,
		Tracing:      cfg.OTelEnabled,
		Logger:       logger,
	})
	return newOrchestrator(f, metrics, logger)
}

func newOrchestrator(f comparator.Fetcher, metrics *observability.Metrics, logger *slog.Logger) *batch.Orchestrator {
	cmp := comparator.New(f, logger)
	run := runner.New(cmp, logger)
	var rec batch.Recorder
	if metrics != nil {
		rec = metrics
	}
	return batch.New(run, rec, logger)
}

// ReportSinks returns the file sink for cfg.Output, plus a CloudWatch sink
// when a namespace is configured. An empty Output skips the file sink.
func ReportSinks(ctx context.Context, cfg config.Config) ([]report.Sink, error) {
	var sinks []report.Sink
	if cfg.Output != "" {
		sinks = append(sinks, report.FileSink{Path: cfg.Output})
	}
	if cfg.CloudWatchNamespace == "" {
		return sinks, nil
	}
	awsCfg, err := awsauth.NewAWSConfig(ctx, cfg.AWSRegion, cfg.AWSProfile, cfg.AWSRoleARN)
	if err != nil {
		return nil, fmt.Errorf("connectors: cloudwatch sink: %w", err)
	}
	return append(sinks, cloudwatch.New(awsCfg, cfg.CloudWatchNamespace)), nil
}

// DialTemporal connects to the Temporal frontend named in cfg.
func DialTemporal(cfg config.Config, logger *slog.Logger) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    observability.NewTemporalSlogAdapter(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("connectors: temporal dial %s: %w", cfg.TemporalAddress, err)
	}
	return c, nil
}
