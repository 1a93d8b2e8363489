// Package comparator fetches both sides of a URL pair and classifies the result.
package comparator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/fetcher"
	"github.com/finops-claw-gang/pairdiff/internal/jsondiff"
)

// Fetcher retrieves one JSON document and reports every failure through the
// result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetcher.FetchResult
}

// Comparator compares the documents behind a URL pair.
type Comparator struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// New creates a Comparator. A nil logger falls back to slog.Default().
func New(f Fetcher, logger *slog.Logger) *Comparator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparator{fetcher: f, logger: logger}
}

// Compare fetches both URLs concurrently and diffs the documents. Fetch
// failures become a ComparisonFailed classification. A panic inside either
// fetch is re-raised on the calling goroutine once both fetches are done, so
// the runner that called Compare can contain it.
func (c *Comparator) Compare(ctx context.Context, pair domain.URLPair) domain.Outcome {
	var (
		resA, resB     fetcher.FetchResult
		panicA, panicB any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer capturePanic(&panicA)
		resA = c.fetcher.Fetch(gctx, pair.URLA)
		return nil
	})
	g.Go(func() error {
		defer capturePanic(&panicB)
		resB = c.fetcher.Fetch(gctx, pair.URLB)
		return nil
	})
	_ = g.Wait()

	if panicA != nil {
		panic(fmt.Sprintf("fetch %s: %v", pair.URLA, panicA))
	}
	if panicB != nil {
		panic(fmt.Sprintf("fetch %s: %v", pair.URLB, panicB))
	}

	if !resA.OK || !resB.OK {
		reason := failureReason(resA, resB)
		c.logger.Warn("comparison failed",
			"index", pair.Index,
			"url_a", pair.URLA,
			"url_b", pair.URLB,
			"reason", reason,
		)
		return Failed(pair, reason)
	}

	entries := jsondiff.Diff(resA.Document, resB.Document)
	if len(entries) == 0 {
		return domain.Outcome{
			Pair:           pair,
			Classification: domain.Equal(),
			Message:        fmt.Sprintf("%s equals %s", pair.URLA, pair.URLB),
		}
	}
	return domain.Outcome{
		Pair:           pair,
		Classification: domain.NotEqual(entries),
		Message:        fmt.Sprintf("%s not equals %s\n%s", pair.URLA, pair.URLB, jsondiff.Render(entries)),
	}
}

// Failed builds the outcome of a pair that could not be compared.
func Failed(pair domain.URLPair, reason string) domain.Outcome {
	return domain.Outcome{
		Pair:           pair,
		Classification: domain.ComparisonFailed(reason),
		Message:        fmt.Sprintf("Comparison failed for %s and %s", pair.URLA, pair.URLB),
	}
}

func capturePanic(dst *any) {
	if r := recover(); r != nil {
		*dst = r
	}
}

func failureReason(a, b fetcher.FetchResult) string {
	var parts []string
	if !a.OK {
		parts = append(parts, "first fetch failed: "+a.Err)
	}
	if !b.OK {
		parts = append(parts, "second fetch failed: "+b.Err)
	}
	return strings.Join(parts, "; ")
}
