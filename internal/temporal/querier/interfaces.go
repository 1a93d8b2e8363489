package querier

import (
	"context"

	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

// ComparisonQuerier starts durable comparisons and reads their state.
// Used by the HTTP API, the CLI and the MCP server.
type ComparisonQuerier interface {
	StartComparison(ctx context.Context, input workflows.ComparisonInput) (string, error)
	GetComparison(ctx context.Context, workflowID string) (*ComparisonState, error)
}
