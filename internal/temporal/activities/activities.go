package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/report"
)

// ChunkRunner resolves one chunk of pairs. batch.Orchestrator implements it.
type ChunkRunner interface {
	RunChunk(ctx context.Context, chunk []domain.URLPair) []domain.Outcome
}

// Activities holds the dependencies for all Temporal activities.
// Each method is registered as a Temporal activity.
type Activities struct {
	Orchestrator ChunkRunner
	Sinks        []report.Sink
}

// CompareChunk resolves every pair of the chunk concurrently. Diff entries
// are dropped from the returned outcomes; the rendered Message already
// carries them and the payload must stay under Temporal's size limit.
func (a *Activities) CompareChunk(ctx context.Context, in CompareChunkInput) (CompareChunkOutput, error) {
	if a.Orchestrator == nil {
		return CompareChunkOutput{}, fmt.Errorf("compare chunk activity: orchestrator not configured")
	}
	activity.GetLogger(ctx).Info("comparing chunk", "chunk", in.Chunk, "pairs", len(in.Pairs))

	outcomes := a.Orchestrator.RunChunk(ctx, in.Pairs)
	for i := range outcomes {
		outcomes[i].Classification.Diff = nil
	}
	return CompareChunkOutput{Outcomes: outcomes}, nil
}

// WriteReport hands the finished run to every configured sink. Run-scoped
// sinks are tagged with the workflow ID.
func (a *Activities) WriteReport(ctx context.Context, in WriteReportInput) error {
	sinks := make(report.Multi, len(a.Sinks))
	for i, s := range a.Sinks {
		sinks[i] = report.ForRun(s, in.WorkflowID)
	}
	if err := sinks.WriteReport(ctx, in.Result); err != nil {
		return fmt.Errorf("write report activity: %w", err)
	}
	return nil
}
