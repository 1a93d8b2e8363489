// Package batch drives a comparison run: pairs are split into chunks that run
// strictly one after another, with every pair inside a chunk in flight at once.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// Dispatcher resolves one pair. It must always return an Outcome.
type Dispatcher interface {
	RunIsolated(ctx context.Context, pair domain.URLPair) domain.Outcome
}

// Recorder observes outcomes and chunk timings. observability.Metrics
// implements it.
type Recorder interface {
	RecordOutcome(ctx context.Context, o domain.Outcome)
	RecordChunk(ctx context.Context, size int, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(context.Context, domain.Outcome)    {}
func (nopRecorder) RecordChunk(context.Context, int, time.Duration) {}

// Orchestrator runs pairs chunk by chunk and aggregates their outcomes.
type Orchestrator struct {
	dispatcher Dispatcher
	recorder   Recorder
	logger     *slog.Logger

	// OnChunk, when set, is called after each chunk has fully resolved with
	// the number of chunks done, the chunk total and the counters so far.
	OnChunk func(done, total int, counters domain.Counters)
}

// New creates an Orchestrator. A nil recorder records nothing and a nil
// logger falls back to slog.Default().
func New(d Dispatcher, rec Recorder, logger *slog.Logger) *Orchestrator {
	if rec == nil {
		rec = nopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{dispatcher: d, recorder: rec, logger: logger}
}

// Chunk splits pairs into consecutive slices of at most size elements. The
// last chunk may be shorter. size must be positive.
func Chunk(pairs []domain.URLPair, size int) [][]domain.URLPair {
	if size <= 0 || len(pairs) == 0 {
		return nil
	}
	chunks := make([][]domain.URLPair, 0, (len(pairs)+size-1)/size)
	for start := 0; start < len(pairs); start += size {
		end := min(start+size, len(pairs))
		chunks = append(chunks, pairs[start:end])
	}
	return chunks
}

// Run processes pairs in chunks of batchSize. Chunks never overlap: the next
// one is dispatched only after every pair of the current one has resolved.
// Counters and lines are updated in resolution order.
func (o *Orchestrator) Run(ctx context.Context, pairs []domain.URLPair, batchSize int) (domain.RunResult, error) {
	if batchSize <= 0 {
		return domain.RunResult{}, domain.NewConfigError("batch size must be positive, got %d", batchSize)
	}

	result := domain.RunResult{Lines: []string{}}
	chunks := Chunk(pairs, batchSize)

	o.logger.Info("comparison run started", "pairs", len(pairs), "batch_size", batchSize, "chunks", len(chunks))

	for i, chunk := range chunks {
		start := time.Now()
		o.dispatch(ctx, chunk, func(out domain.Outcome) {
			result.Record(out)
		})
		elapsed := time.Since(start)

		o.recorder.RecordChunk(ctx, len(chunk), elapsed)
		o.logger.Info("chunk resolved",
			"chunk", i+1,
			"of", len(chunks),
			"size", len(chunk),
			"equal", result.Counters.Equal,
			"not_equal", result.Counters.NotEqual,
			"errors", result.Counters.Errors,
			"duration_ms", elapsed.Milliseconds(),
		)
		if o.OnChunk != nil {
			o.OnChunk(i+1, len(chunks), result.Counters)
		}
	}

	o.logger.Info("comparison run finished",
		"pairs", result.Counters.Total(),
		"equal", result.Counters.Equal,
		"not_equal", result.Counters.NotEqual,
		"errors", result.Counters.Errors,
	)
	return result, nil
}

// RunChunk resolves every pair of one chunk concurrently and returns the
// outcomes in resolution order.
func (o *Orchestrator) RunChunk(ctx context.Context, chunk []domain.URLPair) []domain.Outcome {
	start := time.Now()
	outcomes := make([]domain.Outcome, 0, len(chunk))
	o.dispatch(ctx, chunk, func(out domain.Outcome) {
		outcomes = append(outcomes, out)
	})
	o.recorder.RecordChunk(ctx, len(chunk), time.Since(start))
	return outcomes
}

// dispatch runs one chunk and blocks until it is fully resolved. record is
// called once per outcome while holding the chunk's mutex.
func (o *Orchestrator) dispatch(ctx context.Context, chunk []domain.URLPair, record func(domain.Outcome)) {
	if len(chunk) == 0 {
		return
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(len(chunk))

	for _, pair := range chunk {
		g.Go(func() error {
			out := o.dispatcher.RunIsolated(ctx, pair)

			mu.Lock()
			defer mu.Unlock()
			record(out)
			o.recorder.RecordOutcome(ctx, out)
			return nil
		})
	}
	_ = g.Wait()
}
