package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

// Metrics holds OTel metric instruments for comparison runs. A nil *Metrics
// records nothing, so components can take one optionally.
type Metrics struct {
	PairsCompared metric.Int64Counter
	FetchDuration metric.Float64Histogram
	ChunkDuration metric.Float64Histogram
	TaskCrashes   metric.Int64Counter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	return NewMetricsFromMeter(otel.Meter("pairdiff"))
}

// NewMetricsFromMeter creates the instruments on an explicit meter.
func NewMetricsFromMeter(meter metric.Meter) (*Metrics, error) {
	pairsCompared, err := meter.Int64Counter("pairdiff.pairs.compared",
		metric.WithDescription("Number of URL pairs compared, by verdict"),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram("pairdiff.fetch.duration_seconds",
		metric.WithDescription("Time to fetch and parse one document"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	chunkDuration, err := meter.Float64Histogram("pairdiff.chunk.duration_seconds",
		metric.WithDescription("Time for one chunk of pairs to fully resolve"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	taskCrashes, err := meter.Int64Counter("pairdiff.task.crashes",
		metric.WithDescription("Comparison tasks that terminated abnormally"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PairsCompared: pairsCompared,
		FetchDuration: fetchDuration,
		ChunkDuration: chunkDuration,
		TaskCrashes:   taskCrashes,
	}, nil
}

// RecordOutcome records one resolved pair.
func (m *Metrics) RecordOutcome(ctx context.Context, o domain.Outcome) {
	if m == nil {
		return
	}
	m.PairsCompared.Add(ctx, 1,
		metric.WithAttributes(attribute.String("verdict", string(o.Classification.Verdict))),
	)
	if o.Crashed {
		m.TaskCrashes.Add(ctx, 1)
	}
}

// RecordFetch records the latency of one fetch.
func (m *Metrics) RecordFetch(ctx context.Context, d time.Duration, ok bool) {
	if m == nil {
		return
	}
	m.FetchDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.Bool("ok", ok)),
	)
}

// RecordChunk records how long a chunk took to resolve.
func (m *Metrics) RecordChunk(ctx context.Context, size int, d time.Duration) {
	if m == nil {
		return
	}
	m.ChunkDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.Int("size", size)),
	)
}
