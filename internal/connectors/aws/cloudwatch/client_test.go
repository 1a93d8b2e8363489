package cloudwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/pairdiff/internal/domain"
)

type mockCWAPI struct {
	calls []*cw.PutMetricDataInput
	err   error
}

func (m *mockCWAPI) PutMetricData(_ context.Context, in *cw.PutMetricDataInput, _ ...func(*cw.Options)) (*cw.PutMetricDataOutput, error) {
	m.calls = append(m.calls, in)
	if m.err != nil {
		return nil, m.err
	}
	return &cw.PutMetricDataOutput{}, nil
}

func TestWriteReport(t *testing.T) {
	mock := &mockCWAPI{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sink := NewFromAPI(mock, "PairDiff").WithRunID("run-42")
	sink.now = func() time.Time { return fixed }

	err := sink.WriteReport(context.Background(), domain.RunResult{
		Counters: domain.Counters{Equal: 7, NotEqual: 2, Errors: 1},
	})
	require.NoError(t, err)
	require.Len(t, mock.calls, 1)

	in := mock.calls[0]
	assert.Equal(t, "PairDiff", aws.ToString(in.Namespace))

	got := map[string]float64{}
	for _, d := range in.MetricData {
		got[aws.ToString(d.MetricName)] = aws.ToFloat64(d.Value)
		require.Len(t, d.Dimensions, 1)
		assert.Equal(t, "Run", aws.ToString(d.Dimensions[0].Name))
		assert.Equal(t, "run-42", aws.ToString(d.Dimensions[0].Value))
		assert.Equal(t, fixed, aws.ToTime(d.Timestamp))
	}
	assert.Equal(t, map[string]float64{"Equal": 7, "NotEqual": 2, "Errors": 1, "Total": 10}, got)
}

func TestWriteReport_Error(t *testing.T) {
	mock := &mockCWAPI{err: errors.New("throttled")}
	err := NewFromAPI(mock, "PairDiff").WriteReport(context.Background(), domain.RunResult{})
	assert.ErrorContains(t, err, "cloudwatch: put metric data: throttled")
}

func TestRunID(t *testing.T) {
	a := NewFromAPI(&mockCWAPI{}, "ns")
	b := NewFromAPI(&mockCWAPI{}, "ns")
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
	assert.Equal(t, "wf-1", a.WithRunID("wf-1").RunID())
	assert.NotEqual(t, "wf-1", a.RunID(), "WithRunID returns a copy")
}

func TestForRun(t *testing.T) {
	mock := &mockCWAPI{}
	scoped := NewFromAPI(mock, "ns").ForRun("pairdiff-wf")

	require.NoError(t, scoped.WriteReport(context.Background(), domain.RunResult{}))
	require.Len(t, mock.calls, 1)
	assert.Equal(t, "pairdiff-wf", aws.ToString(mock.calls[0].MetricData[0].Dimensions[0].Value))
}
