package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/linesift/linesift/internal/observability"
	"github.com/linesift/linesift/pkg/linediff"
)

func setupTestMeter(t *testing.T) (*observability.DiffMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	dm, err := observability.NewDiffMetrics(mp.Meter("test"))
	require.NoError(t, err)

	return dm, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumCounter(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	total := int64(0)
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestDiffMetrics_RecordDiff(t *testing.T) {
	t.Parallel()

	dm, reader := setupTestMeter(t)
	ctx := context.Background()

	result := &linediff.Result{
		Stats: linediff.Statistics{
			Added:       2,
			Removed:     1,
			Moved:       3,
			Unchanged:   4,
			CacheHits:   7,
			CacheMisses: 5,
		},
		Detection: linediff.Detection{Ran: true},
	}

	dm.RecordDiff(ctx, result, 50*time.Millisecond)

	rm := collectMetrics(t, reader)

	diffs := findMetric(rm, "linesift.diffs.total")
	require.NotNil(t, diffs)
	assert.Equal(t, int64(1), sumCounter(t, diffs))

	lines := findMetric(rm, "linesift.lines.classified.total")
	require.NotNil(t, lines)
	assert.Equal(t, int64(10), sumCounter(t, lines))

	moves := findMetric(rm, "linesift.moves.detected.total")
	require.NotNil(t, moves)
	assert.Equal(t, int64(3), sumCounter(t, moves))

	lookups := findMetric(rm, "linesift.cache.lookups.total")
	require.NotNil(t, lookups)
	assert.Equal(t, int64(12), sumCounter(t, lookups))

	outcomes := findMetric(rm, "linesift.detector.outcomes.total")
	require.NotNil(t, outcomes)
	assert.Equal(t, int64(1), sumCounter(t, outcomes))

	duration := findMetric(rm, "linesift.diff.duration.seconds")
	require.NotNil(t, duration)
}

func TestDiffMetrics_RecordError(t *testing.T) {
	t.Parallel()

	dm, reader := setupTestMeter(t)

	dm.RecordError(context.Background(), time.Millisecond)

	rm := collectMetrics(t, reader)

	diffs := findMetric(rm, "linesift.diffs.total")
	require.NotNil(t, diffs)
	assert.Equal(t, int64(1), sumCounter(t, diffs))
}

func TestNewPrometheusExporter(t *testing.T) {
	t.Parallel()

	exporter, err := observability.NewPrometheusExporter()

	require.NoError(t, err)
	assert.NotNil(t, exporter.Meter)
	assert.NotNil(t, exporter.Handler)

	_, err = observability.NewDiffMetrics(exporter.Meter)
	require.NoError(t, err)
}

func TestNewLogger_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := observability.NewLogger(&buf, slog.LevelInfo, true)
	logger.Info("classified", slog.Int("lines", 3))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "linesift", record["service"])
	assert.Equal(t, "classified", record["msg"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := observability.NewLogger(&buf, slog.LevelWarn, false)
	logger.Info("suppressed")

	assert.Empty(t, buf.String())
}
