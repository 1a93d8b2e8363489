// Package runner executes one pair comparison in an isolated goroutine so a
// crashing task can never take down the run or leave a pair unresolved.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/finops-claw-gang/pairdiff/internal/comparator"
	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// PairComparer classifies one URL pair.
type PairComparer interface {
	Compare(ctx context.Context, pair domain.URLPair) domain.Outcome
}

// Runner wraps a PairComparer with fault isolation.
type Runner struct {
	cmp    PairComparer
	logger *slog.Logger
}

// New creates a Runner. A nil logger falls back to slog.Default().
func New(cmp PairComparer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cmp: cmp, logger: logger}
}

// RunIsolated runs the comparison in its own goroutine and waits for it.
// A panic or runtime.Goexit inside the task resolves the pair as a crashed
// ComparisonFailed outcome.
func (r *Runner) RunIsolated(ctx context.Context, pair domain.URLPair) domain.Outcome {
	result := make(chan domain.Outcome, 1)

	go func() {
		sent := false
		defer func() {
			if sent {
				return
			}
			rec := recover()
			reason := "task exited without a result"
			if rec != nil {
				reason = fmt.Sprintf("task crashed: %v", rec)
			}
			r.logger.Error("comparison task crashed",
				"index", pair.Index,
				"url_a", pair.URLA,
				"url_b", pair.URLB,
				"panic", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
			)
			out := comparator.Failed(pair, reason)
			out.Crashed = true
			result <- out
		}()

		out := r.cmp.Compare(ctx, pair)
		sent = true
		result <- out
	}()

	return <-result
}
