package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfileTypesFor(t *testing.T) {
	types, err := ProfileTypesFor([]string{"cpu", " Inuse_Space ", "mutex"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, types)

	_, err = ProfileTypesFor([]string{"heap"})
	assert.ErrorContains(t, err, `unknown profile type "heap"`)
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled profiler stops cleanly", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires a server address", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "erp"}, zap.NewNop())
		assert.ErrorContains(t, err, "server address")
	})

	t.Run("rejects unknown profile types", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://localhost:4040",
			ApplicationName: "erp",
			ProfileTypes:    []string{"cpu", "disk"},
		}, zap.NewNop())
		assert.ErrorContains(t, err, "disk")
	})
}

func TestWithProfilingLabels(t *testing.T) {
	labels := map[string]string{
		ProfilingLabelRoute:    "/api/v1/sequences/:type/next",
		ProfilingLabelTenantID: "acme",
		"user_id":              "u-1",
		ProfilingLabelModule:   "",
	}

	var ran bool
	WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		ran = true
		route, ok := pprof.Label(ctx, ProfilingLabelRoute)
		assert.True(t, ok)
		assert.Equal(t, "/api/v1/sequences/:type/next", route)

		_, ok = pprof.Label(ctx, "user_id")
		assert.False(t, ok)
		_, ok = pprof.Label(ctx, ProfilingLabelModule)
		assert.False(t, ok)
	})
	assert.True(t, ran)
	assert.Equal(t, "u-1", labels["user_id"])
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Document-Type": "invoice",
		"module":        strings.Repeat("x", MaxLabelValueLength+10),
		"request_id":    "r-1",
		"customer":      "c-1",
	})
	require.Len(t, pairs, 4)
	assert.Equal(t, "document_type", pairs[0])
	assert.Equal(t, "invoice", pairs[1])
	assert.Equal(t, "module", pairs[2])
	assert.Len(t, pairs[3], MaxLabelValueLength)
}
