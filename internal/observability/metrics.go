// Package observability provides the OpenTelemetry metric instruments and
// structured logging setup shared by the linesift entry points.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linesift/linesift/pkg/linediff"
)

const (
	metricDiffsTotal       = "linesift.diffs.total"
	metricDiffDuration     = "linesift.diff.duration.seconds"
	metricLinesClassified  = "linesift.lines.classified.total"
	metricMovesDetected    = "linesift.moves.detected.total"
	metricCacheLookups     = "linesift.cache.lookups.total"
	metricDetectorOutcomes = "linesift.detector.outcomes.total"

	attrStatus  = "status"
	attrResult  = "result"
	attrOutcome = "outcome"

	statusOK    = "ok"
	statusError = "error"

	resultHit  = "hit"
	resultMiss = "miss"
)

// durationBucketBoundaries covers 1ms to 30s: single-file diffs are usually
// sub-millisecond, degenerate giant documents can take seconds.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// DiffMetrics holds the OTel instruments for diff invocations.
type DiffMetrics struct {
	diffsTotal       metric.Int64Counter
	diffDuration     metric.Float64Histogram
	linesClassified  metric.Int64Counter
	movesDetected    metric.Int64Counter
	cacheLookups     metric.Int64Counter
	detectorOutcomes metric.Int64Counter
}

// NewDiffMetrics creates the diff instruments from the given meter.
func NewDiffMetrics(mt metric.Meter) (*DiffMetrics, error) {
	b := newMetricBuilder(mt)

	dm := &DiffMetrics{
		diffsTotal:       b.counter(metricDiffsTotal, "Total number of diff invocations", "{diff}"),
		diffDuration:     b.histogram(metricDiffDuration, "Diff invocation duration in seconds", "s", durationBucketBoundaries...),
		linesClassified:  b.counter(metricLinesClassified, "Total number of classified lines", "{line}"),
		movesDetected:    b.counter(metricMovesDetected, "Total number of detected line moves", "{move}"),
		cacheLookups:     b.counter(metricCacheLookups, "Total number of hash cache lookups", "{lookup}"),
		detectorOutcomes: b.counter(metricDetectorOutcomes, "Move-detection outcomes by kind", "{outcome}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return dm, nil
}

// RecordError counts one failed diff invocation.
func (dm *DiffMetrics) RecordError(ctx context.Context, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, statusError))

	dm.diffsTotal.Add(ctx, 1, attrs)
	dm.diffDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDiff counts one completed diff invocation and its per-line detail.
func (dm *DiffMetrics) RecordDiff(ctx context.Context, result *linediff.Result, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, statusOK))

	dm.diffsTotal.Add(ctx, 1, attrs)
	dm.diffDuration.Record(ctx, duration.Seconds(), attrs)
	dm.linesClassified.Add(ctx, int64(result.Stats.Total()))
	dm.movesDetected.Add(ctx, int64(result.Stats.Moved))

	dm.cacheLookups.Add(ctx, result.Stats.CacheHits,
		metric.WithAttributes(attribute.String(attrResult, resultHit)))
	dm.cacheLookups.Add(ctx, result.Stats.CacheMisses,
		metric.WithAttributes(attribute.String(attrResult, resultMiss)))

	dm.detectorOutcomes.Add(ctx, 1,
		metric.WithAttributes(attribute.String(attrOutcome, detectorOutcome(result.Detection))))
}

// detectorOutcome maps a detection result onto its metric label.
func detectorOutcome(det linediff.Detection) string {
	switch {
	case det.Partial:
		return "partial"
	case det.Skipped:
		return "skipped"
	case det.Ran:
		return "ran"
	default:
		return "none"
	}
}
