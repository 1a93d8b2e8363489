package domain

import "fmt"

// ConfigError is a fatal configuration precondition failure. A run that hits
// one aborts before any fetch is made.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return &ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidateRunSettings checks the limit and batch size of a run.
func ValidateRunSettings(limit, batchSize int) error {
	if limit <= 0 {
		return NewConfigError("limit must be positive, got %d", limit)
	}
	if batchSize <= 0 {
		return NewConfigError("batch size must be positive, got %d", batchSize)
	}
	return nil
}

// BuildPairs truncates both lists to limit and zips them by position.
// Truncation is symmetric and happens before the length check, so two lists
// of different length still pair up when both reach limit.
func BuildPairs(urlsA, urlsB []string, limit int) ([]URLPair, error) {
	if limit <= 0 {
		return nil, NewConfigError("limit must be positive, got %d", limit)
	}
	urlsA = truncate(urlsA, limit)
	urlsB = truncate(urlsB, limit)

	if len(urlsA) != len(urlsB) {
		return nil, NewConfigError("input lists must have the same number of rows: A=%d B=%d", len(urlsA), len(urlsB))
	}

	pairs := make([]URLPair, len(urlsA))
	for i := range urlsA {
		pairs[i] = URLPair{Index: i, URLA: urlsA[i], URLB: urlsB[i]}
	}
	return pairs, nil
}

func truncate(urls []string, limit int) []string {
	if len(urls) > limit {
		return urls[:limit]
	}
	return urls
}
