// Package versioning defines workflow versions and task queue names.
package versioning

const (
	// Workflow versions for determinism tracking.
	ComparisonV1 = "comparison-v1"

	// QueueCompare is the task queue served by the comparison worker.
	QueueCompare = "pairdiff-compare"

	// WorkflowIDPrefix prefixes generated comparison workflow IDs.
	WorkflowIDPrefix = "pairdiff-"
)
