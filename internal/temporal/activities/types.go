// Package activities defines the Temporal activity I/O structs and the
// Activities implementation that bridges Temporal's serialization boundary
// to the comparison packages in internal/.
package activities

import "github.com/finops-claw-gang/pairdiff/internal/domain"

// CompareChunkInput is one chunk of pairs to resolve.
type CompareChunkInput struct {
	Chunk int              `json:"chunk"`
	Pairs []domain.URLPair `json:"pairs"`
}

// CompareChunkOutput holds one outcome per input pair, in resolution order.
// Classification.Diff is always empty here; see Activities.CompareChunk.
type CompareChunkOutput struct {
	Outcomes []domain.Outcome `json:"outcomes"`
}

// WriteReportInput is the finished run handed to the report sinks.
type WriteReportInput struct {
	WorkflowID string           `json:"workflow_id"`
	Result     domain.RunResult `json:"result"`
}
