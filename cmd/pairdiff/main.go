// Command pairdiff compares JSON documents fetched from paired URL lists.
//
// Usage:
//
//	pairdiff run    --file-a A.csv --file-b B.csv [--column url] [--out path] [--limit N] [--batch-size N]
//	pairdiff diff   a.json b.json
//	pairdiff start  --file-a A.csv --file-b B.csv [--limit N] [--batch-size N]
//	pairdiff status --workflow-id WID
//
// run exits 0 on completion, 1 when the run fails and 2 on a configuration
// error. diff exits 0 when the documents are equal, 1 when they differ and
// 2 on error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/finops-claw-gang/pairdiff/internal/config"
	"github.com/finops-claw-gang/pairdiff/internal/connectors"
	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/engine"
	"github.com/finops-claw-gang/pairdiff/internal/jsondiff"
	"github.com/finops-claw-gang/pairdiff/internal/observability"
	"github.com/finops-claw-gang/pairdiff/internal/report"
	"github.com/finops-claw-gang/pairdiff/internal/source"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/querier"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := dispatch(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func dispatch(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		return usage(stderr)
	}
	switch args[0] {
	case "run":
		return cmdRun(ctx, args[1:], stdout, stderr)
	case "diff":
		return cmdDiff(args[1:], stdout, stderr)
	case "start":
		return cmdStart(ctx, args[1:], stdout, stderr)
	case "status":
		return cmdStatus(ctx, args[1:], stdout, stderr)
	default:
		return usage(stderr)
	}
}

func usage(stderr io.Writer) int {
	fmt.Fprintln(stderr, "usage: pairdiff <run|diff|start|status> [flags]")
	return exitConfig
}

// runFlags binds the flags shared by run and start, defaulting to cfg.
func runFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.FileA, "file-a", cfg.FileA, "CSV file holding the first URL list")
	fs.StringVar(&cfg.FileB, "file-b", cfg.FileB, "CSV file holding the second URL list")
	fs.StringVar(&cfg.URLColumn, "column", cfg.URLColumn, "CSV column holding the URLs")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of rows read from each list")
	fs.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "pairs compared concurrently per chunk")
}

// loadRun resolves env config, applies flag overrides and reads both URL
// lists. Any failure is a configuration error.
func loadRun(name string, args []string, stderr io.Writer, extra func(*flag.FlagSet, *config.Config)) (config.Config, []string, []string, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	runFlags(fs, &cfg)
	if extra != nil {
		extra(fs, &cfg)
	}
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, nil, err
	}
	if cfg.FileA == "" || cfg.FileB == "" {
		return config.Config{}, nil, nil, errors.New("--file-a and --file-b are required")
	}

	urlsA, err := source.ReadURLsFile(cfg.FileA, cfg.URLColumn, cfg.Limit)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	urlsB, err := source.ReadURLsFile(cfg.FileB, cfg.URLColumn, cfg.Limit)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, urlsA, urlsB, nil
}

func cmdRun(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var verbose bool
	cfg, urlsA, urlsB, err := loadRun("run", args, stderr, func(fs *flag.FlagSet, cfg *config.Config) {
		fs.StringVar(&cfg.Output, "out", cfg.Output, "report file path")
		fs.BoolVar(&verbose, "verbose", false, "print the full report to stdout")
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	logger := observability.InitLoggerTo(stderr, cfg.LogLevel)
	if cfg.OTelEnabled {
		shutdown, err := observability.InitTracer(ctx, "pairdiff-cli")
		if err != nil {
			logger.Warn("otel init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	sinks, err := connectors.ReportSinks(ctx, cfg)
	if err != nil {
		logger.Error("report sinks", "error", err)
		return exitConfig
	}
	if verbose {
		sinks = append(sinks, report.WriterSink{W: stdout})
	}

	eng := engine.New(
		connectors.NewOrchestrator(cfg, nil, logger),
		engine.Config{Limit: cfg.Limit, BatchSize: cfg.BatchSize},
		sinks...,
	)
	result, err := eng.Run(ctx, urlsA, urlsB)
	return runExitCode(result, err, stdout, logger, cfg.Output)
}

// runExitCode prints the run summary and maps the engine error onto the
// exit code contract. A report sink failure still prints the counters.
func runExitCode(result domain.RunResult, err error, stdout io.Writer, logger *slog.Logger, output string) int {
	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		logger.Error("run rejected", "error", cfgErr.Message)
		return exitConfig
	case err != nil && result.Counters.Total() == 0:
		logger.Error("run failed", "error", err)
		return exitFailed
	}

	fmt.Fprintf(stdout, "compared %d pairs: %s\n", result.Counters.Total(), result.Counters)
	if err != nil {
		logger.Error("report not written", "error", err)
		return exitFailed
	}
	if output != "" {
		fmt.Fprintf(stdout, "report written to %s\n", output)
	}
	return exitOK
}

func cmdDiff(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return exitConfig
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: pairdiff diff <a.json> <b.json>")
		return exitConfig
	}

	a, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	b, err := os.ReadFile(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}

	entries, err := jsondiff.DiffJSON(a, b)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	if len(entries) == 0 {
		fmt.Fprintln(stdout, "documents are equal")
		return exitOK
	}
	fmt.Fprintln(stdout, jsondiff.Render(entries))
	return exitFailed
}

func cmdStart(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, urlsA, urlsB, err := loadRun("start", args, stderr, nil)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	logger := observability.InitLoggerTo(stderr, cfg.LogLevel)

	c, err := connectors.DialTemporal(cfg, logger)
	if err != nil {
		logger.Error("temporal dial", "error", err)
		return exitFailed
	}
	defer c.Close()

	wfID, err := querier.New(c).StartComparison(ctx, workflows.ComparisonInput{
		URLsA:       urlsA,
		URLsB:       urlsB,
		Limit:       cfg.Limit,
		BatchSize:   cfg.BatchSize,
		WriteReport: true,
	})
	if err != nil {
		logger.Error("failed to start workflow", "error", err)
		return exitFailed
	}
	fmt.Fprintf(stdout, "started workflow %s\n", wfID)
	return exitOK
}

func cmdStatus(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(stderr)
	wfID := fs.String("workflow-id", "", "workflow ID (required)")
	if err := fs.Parse(args); err != nil {
		return exitConfig
	}
	if *wfID == "" {
		fs.Usage()
		return exitConfig
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitConfig
	}
	logger := observability.InitLoggerTo(stderr, cfg.LogLevel)

	c, err := connectors.DialTemporal(cfg, logger)
	if err != nil {
		logger.Error("temporal dial", "error", err)
		return exitFailed
	}
	defer c.Close()

	state, err := querier.New(c).GetComparison(ctx, *wfID)
	if err != nil {
		logger.Error("failed to read workflow", "error", err)
		return exitFailed
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		logger.Error("failed to marshal status", "error", err)
		return exitFailed
	}
	fmt.Fprintln(stdout, string(data))
	return exitOK
}
