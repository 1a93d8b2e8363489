// Package engine is the entry point of a comparison run: it validates the
// inputs, pairs the URL lists, runs the batches and hands the result to the
// report sinks.
package engine

import (
	"context"
	"fmt"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/report"
)

// Config holds the settings of one run.
type Config struct {
	Limit     int
	BatchSize int
}

// Runner processes validated pairs. batch.Orchestrator implements it.
type Runner interface {
	Run(ctx context.Context, pairs []domain.URLPair, batchSize int) (domain.RunResult, error)
}

// Engine ties pairing, batching and reporting together.
type Engine struct {
	runner Runner
	cfg    Config
	sinks  []report.Sink
}

// New creates an Engine. Sinks receive the result in the order given.
func New(r Runner, cfg Config, sinks ...report.Sink) *Engine {
	return &Engine{runner: r, cfg: cfg, sinks: sinks}
}

// Run compares urlsA[i] with urlsB[i] for every i below the limit. A
// ConfigError is returned before any fetch when the settings are invalid or
// the truncated lists differ in length. A sink failure is returned together
// with the completed result.
func (e *Engine) Run(ctx context.Context, urlsA, urlsB []string) (domain.RunResult, error) {
	if err := domain.ValidateRunSettings(e.cfg.Limit, e.cfg.BatchSize); err != nil {
		return domain.RunResult{}, err
	}

	pairs, err := domain.BuildPairs(urlsA, urlsB, e.cfg.Limit)
	if err != nil {
		return domain.RunResult{}, err
	}

	result, err := e.runner.Run(ctx, pairs, e.cfg.BatchSize)
	if err != nil {
		return domain.RunResult{}, err
	}

	for _, s := range e.sinks {
		if err := s.WriteReport(ctx, result); err != nil {
			return result, fmt.Errorf("engine: write report: %w", err)
		}
	}
	return result, nil
}
