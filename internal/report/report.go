// Package report renders a finished comparison run and delivers it to sinks.
package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// Sink receives the result of a completed run.
type Sink interface {
	WriteReport(ctx context.Context, result domain.RunResult) error
}

// RunScoped is implemented by sinks that tag each report with a run
// identifier, such as a workflow ID.
type RunScoped interface {
	ForRun(runID string) Sink
}

// ForRun returns s bound to runID when s is RunScoped, and s otherwise.
func ForRun(s Sink, runID string) Sink {
	if rs, ok := s.(RunScoped); ok && runID != "" {
		return rs.ForRun(runID)
	}
	return s
}

// Format renders the counters header followed by one block per outcome.
func Format(result domain.RunResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Equal: %d\nNot Equal: %d\nErrors: %d\n\n",
		result.Counters.Equal, result.Counters.NotEqual, result.Counters.Errors)
	b.WriteString(strings.Join(result.Lines, "\n\n"))
	return b.String()
}

// FileSink writes the formatted report to Path, creating parent directories.
type FileSink struct {
	Path string
}

func (s FileSink) WriteReport(_ context.Context, result domain.RunResult) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: create directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, []byte(Format(result)), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", s.Path, err)
	}
	return nil
}

// WriterSink writes the formatted report to W.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) WriteReport(_ context.Context, result domain.RunResult) error {
	if _, err := io.WriteString(s.W, Format(result)+"\n"); err != nil {
		return fmt.Errorf("report: write: %w", err)
	}
	return nil
}

// Multi fans a report out to every sink in order. All sinks are attempted;
// their errors are joined.
type Multi []Sink

func (m Multi) WriteReport(ctx context.Context, result domain.RunResult) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteReport(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
