package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

func TestCoreMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewCoreMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenant := uuid.New()
	m.RecordNumberIssued(ctx, tenant, "invoice", time.Millisecond)
	m.RecordNumberIssued(ctx, tenant, "invoice", 2*time.Millisecond)
	m.RecordLockedRejection(ctx, tenant, "invoice")
	m.RecordSoftDelete(ctx, tenant, "party")
	m.RecordHardDelete(ctx, tenant, "party")
	m.RecordInvalidTransition(ctx, "deal", "invoiced", "lead")
	m.RecordCommission(ctx, tenant)

	sums := collectSums(t, reader)
	assert.Equal(t, int64(2), sums["erp_document_numbers_issued_total"])
	assert.Equal(t, int64(1), sums["erp_sequence_locked_rejections_total"])
	assert.Equal(t, int64(1), sums["erp_soft_deletes_total"])
	assert.Equal(t, int64(1), sums["erp_hard_deletes_total"])
	assert.Equal(t, int64(1), sums["erp_invalid_transitions_total"])
	assert.Equal(t, int64(1), sums["erp_commissions_calculated_total"])
}

func TestCoreMetrics_NilIsNoop(t *testing.T) {
	var m *CoreMetrics
	assert.NotPanics(t, func() {
		m.RecordNumberIssued(context.Background(), uuid.New(), "invoice", time.Second)
		m.RecordSoftDelete(context.Background(), uuid.New(), "deal")
		m.RecordInvalidTransition(context.Background(), "grn", "sent", "sent")
	})
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", samplerFor(1).Description())
	assert.Equal(t, "AlwaysOffSampler", samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}
