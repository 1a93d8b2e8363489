// Package workflows defines the Temporal workflow functions.
package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/finops-claw-gang/pairdiff/internal/batch"
	"github.com/finops-claw-gang/pairdiff/internal/comparator"
	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/activities"
)

// QueryNameProgress is the Temporal Query handler name for run progress.
const QueryNameProgress = "progress"

// ErrTypeConfig is the application error type of a rejected run.
const ErrTypeConfig = "ConfigError"

// DefaultChunkTimeout bounds one CompareChunk activity.
const DefaultChunkTimeout = 10 * time.Minute

// ComparisonInput is the input to the comparison workflow.
type ComparisonInput struct {
	URLsA        []string      `json:"urls_a"`
	URLsB        []string      `json:"urls_b"`
	Limit        int           `json:"limit"`
	BatchSize    int           `json:"batch_size"`
	WriteReport  bool          `json:"write_report"`
	ChunkTimeout time.Duration `json:"chunk_timeout,omitempty"`
}

// Progress is what the progress query reports while a run is in flight.
type Progress struct {
	ChunksDone  int             `json:"chunks_done"`
	ChunksTotal int             `json:"chunks_total"`
	Counters    domain.Counters `json:"counters"`
}

// ComparisonResult is the output of the comparison workflow. A report sink
// failure does not fail the run; it is carried in ReportError.
//
// Result holds every report line, so the whole report must fit in one
// Temporal payload (2 MB by default). Runs whose reports outgrow that belong
// on the synchronous CLI or API path, or need a smaller limit per workflow.
type ComparisonResult struct {
	Result      domain.RunResult `json:"result"`
	ReportError string           `json:"report_error,omitempty"`
}

// ComparisonWorkflow runs a batched comparison durably. Chunks execute as
// separate CompareChunk activities strictly one after another, so a worker
// restart resumes at the first unfinished chunk. Activities are never
// retried: a failed chunk resolves each of its pairs as a failed comparison.
func ComparisonWorkflow(ctx workflow.Context, input ComparisonInput) (ComparisonResult, error) {
	logger := workflow.GetLogger(ctx)

	if err := domain.ValidateRunSettings(input.Limit, input.BatchSize); err != nil {
		return ComparisonResult{}, configError(err)
	}
	pairs, err := domain.BuildPairs(input.URLsA, input.URLsB, input.Limit)
	if err != nil {
		return ComparisonResult{}, configError(err)
	}

	chunks := batch.Chunk(pairs, input.BatchSize)
	result := domain.RunResult{Lines: []string{}}
	progress := Progress{ChunksTotal: len(chunks)}

	if err := workflow.SetQueryHandler(ctx, QueryNameProgress, func() (Progress, error) {
		return progress, nil
	}); err != nil {
		return ComparisonResult{}, fmt.Errorf("register progress query: %w", err)
	}

	timeout := input.ChunkTimeout
	if timeout <= 0 {
		timeout = DefaultChunkTimeout
	}
	actCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	logger.Info("comparison started", "pairs", len(pairs), "chunks", len(chunks), "batch_size", input.BatchSize)

	for i, chunk := range chunks {
		var out activities.CompareChunkOutput
		err := workflow.ExecuteActivity(actCtx, "CompareChunk", activities.CompareChunkInput{
			Chunk: i + 1,
			Pairs: chunk,
		}).Get(ctx, &out)
		if err != nil {
			logger.Warn("chunk failed", "chunk", i+1, "error", err)
			out.Outcomes = failChunk(chunk, err)
		}

		for _, o := range out.Outcomes {
			result.Record(o)
		}
		progress.ChunksDone = i + 1
		progress.Counters = result.Counters
		logger.Info("chunk resolved", "chunk", i+1, "of", len(chunks), "counters", result.Counters.String())
	}

	res := ComparisonResult{Result: result}
	if input.WriteReport {
		err := workflow.ExecuteActivity(actCtx, "WriteReport", activities.WriteReportInput{
			WorkflowID: workflow.GetInfo(ctx).WorkflowExecution.ID,
			Result:     result,
		}).Get(ctx, nil)
		if err != nil {
			logger.Warn("report failed", "error", err)
			res.ReportError = err.Error()
		}
	}

	logger.Info("comparison finished", "counters", result.Counters.String())
	return res, nil
}

func configError(err error) error {
	var cfgErr *domain.ConfigError
	if errors.As(err, &cfgErr) {
		return temporal.NewNonRetryableApplicationError(cfgErr.Message, ErrTypeConfig, err)
	}
	return err
}

func failChunk(chunk []domain.URLPair, err error) []domain.Outcome {
	out := make([]domain.Outcome, len(chunk))
	for i, pair := range chunk {
		out[i] = comparator.Failed(pair, fmt.Sprintf("chunk activity failed: %v", err))
	}
	return out
}
