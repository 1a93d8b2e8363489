// Package querier starts comparison workflows and reads their state.
package querier

import (
	"time"

	"github.com/finops-claw-gang/pairdiff/internal/temporal/workflows"
)

// ComparisonState is a snapshot of one comparison workflow. Progress is set
// while the run is in flight, Result once it has completed.
type ComparisonState struct {
	WorkflowID string                      `json:"workflow_id"`
	Status     string                      `json:"status"`
	StartTime  time.Time                   `json:"start_time"`
	CloseTime  time.Time                   `json:"close_time,omitempty"`
	Progress   *workflows.Progress         `json:"progress,omitempty"`
	Result     *workflows.ComparisonResult `json:"result,omitempty"`
}
