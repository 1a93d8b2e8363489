package querier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/finops-claw-gang/pairdiff/internal/temporal/versioning"
	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

// TemporalQuerier implements ComparisonQuerier using a Temporal client.
type TemporalQuerier struct {
	client    client.Client
	taskQueue string
}

// New creates a TemporalQuerier that starts workflows on the comparison queue.
func New(c client.Client) *TemporalQuerier {
	return &TemporalQuerier{client: c, taskQueue: versioning.QueueCompare}
}

// StartComparison starts a comparison workflow and returns its ID.
func (q *TemporalQuerier) StartComparison(ctx context.Context, input workflows.ComparisonInput) (string, error) {
	run, err := q.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        versioning.WorkflowIDPrefix + uuid.NewString(),
		TaskQueue: q.taskQueue,
	}, workflows.ComparisonWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("start comparison: %w", err)
	}
	return run.GetID(), nil
}

// GetComparison returns the current state of a comparison workflow.
// For completed workflows, extracts the result directly.
// For running workflows, uses the progress Query handler.
func (q *TemporalQuerier) GetComparison(ctx context.Context, workflowID string) (*ComparisonState, error) {
	desc, err := q.client.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return nil, fmt.Errorf("describe workflow: %w", err)
	}

	info := desc.WorkflowExecutionInfo
	state := &ComparisonState{
		WorkflowID: workflowID,
		Status:     info.GetStatus().String(),
	}
	if info.GetStartTime() != nil {
		state.StartTime = info.GetStartTime().AsTime()
	}
	if info.GetCloseTime() != nil {
		state.CloseTime = info.GetCloseTime().AsTime()
	}

	switch info.GetStatus() {
	case enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		run := q.client.GetWorkflow(ctx, workflowID, "")
		var result workflows.ComparisonResult
		if err := run.Get(ctx, &result); err != nil {
			return nil, fmt.Errorf("get workflow result: %w", err)
		}
		state.Result = &result
		return state, nil

	case enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING:
		resp, err := q.client.QueryWorkflow(ctx, workflowID, "", workflows.QueryNameProgress)
		if err != nil {
			return nil, fmt.Errorf("query workflow progress: %w", err)
		}
		var progress workflows.Progress
		if err := resp.Get(&progress); err != nil {
			return nil, fmt.Errorf("decode query result: %w", err)
		}
		state.Progress = &progress
		return state, nil
	}

	return nil, fmt.Errorf("workflow %s has status %s, cannot read state", workflowID, info.GetStatus())
}
