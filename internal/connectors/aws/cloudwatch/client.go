// Package cloudwatch publishes comparison run counters as CloudWatch metrics.
package cloudwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/google/uuid"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
	"github.com/finops-claw-gang/pairdiff/internal/report"
)

// API is the subset of the CloudWatch client used by this package.
type API interface {
	PutMetricData(ctx context.Context, params *cw.PutMetricDataInput, optFns ...func(*cw.Options)) (*cw.PutMetricDataOutput, error)
}

var _ report.RunScoped = (*Sink)(nil)

// Sink publishes the counters of each finished run under a namespace.
// Each report carries a Run dimension so separate runs stay apart.
type Sink struct {
	api       API
	namespace string
	runID     string
	now       func() time.Time
}

// New creates a CloudWatch sink from an AWS config.
func New(cfg aws.Config, namespace string) *Sink {
	return NewFromAPI(cw.NewFromConfig(cfg), namespace)
}

// NewFromAPI creates a Sink from an explicit API implementation (for testing).
func NewFromAPI(api API, namespace string) *Sink {
	return &Sink{
		api:       api,
		namespace: namespace,
		runID:     uuid.NewString(),
		now:       time.Now,
	}
}

// WithRunID overrides the generated run identifier, e.g. with a workflow ID.
func (s *Sink) WithRunID(id string) *Sink {
	cp := *s
	cp.runID = id
	return &cp
}

// ForRun implements report.RunScoped.
func (s *Sink) ForRun(runID string) report.Sink {
	return s.WithRunID(runID)
}

// RunID returns the value of the Run dimension.
func (s *Sink) RunID() string { return s.runID }

// WriteReport publishes Equal, NotEqual, Errors and Total.
func (s *Sink) WriteReport(ctx context.Context, result domain.RunResult) error {
	ts := aws.Time(s.now().UTC())
	dims := []cwtypes.Dimension{
		{Name: aws.String("Run"), Value: aws.String(s.runID)},
	}

	datum := func(name string, v int) cwtypes.MetricDatum {
		return cwtypes.MetricDatum{
			MetricName: aws.String(name),
			Value:      aws.Float64(float64(v)),
			Unit:       cwtypes.StandardUnitCount,
			Timestamp:  ts,
			Dimensions: dims,
		}
	}

	c := result.Counters
	_, err := s.api.PutMetricData(ctx, &cw.PutMetricDataInput{
		Namespace: aws.String(s.namespace),
		MetricData: []cwtypes.MetricDatum{
			datum("Equal", c.Equal),
			datum("NotEqual", c.NotEqual),
			datum("Errors", c.Errors),
			datum("Total", c.Total()),
		},
	})
	if err != nil {
		return fmt.Errorf("cloudwatch: put metric data: %w", err)
	}
	return nil
}
