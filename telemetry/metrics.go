// Copyright © 2024 The ELPS authors

package telemetry

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Metrics records validation counters and latencies through OpenCensus,
// grounded on the ocAnnotator span/attribute pattern but aimed at
// aggregate stats (diagnostics emitted, validate duration) rather than
// per-call tracing, which the Tracer already covers.
var (
	keyScope = tag.MustNewKey("scope")

	measureDiagnostics = stats.Int64("bsc/diagnostics_emitted", "diagnostics emitted by a validate pass", stats.UnitDimensionless)
	measureValidateMs  = stats.Float64("bsc/validate_latency_ms", "wall-clock time of a validate pass", stats.UnitMilliseconds)

	viewDiagnostics = &view.View{
		Name:        "bsc/diagnostics_emitted",
		Measure:     measureDiagnostics,
		Description: "count of diagnostics emitted per scope validate pass",
		TagKeys:     []tag.Key{keyScope},
		Aggregation: view.Sum(),
	}
	viewValidateLatency = &view.View{
		Name:        "bsc/validate_latency_ms",
		Measure:     measureValidateMs,
		Description: "distribution of validate pass durations",
		TagKeys:     []tag.Key{keyScope},
		Aggregation: view.Distribution(0, 1, 5, 10, 25, 50, 100, 250, 500, 1000),
	}
)

// RegisterViews registers the package's OpenCensus views. Call once at
// process startup before any RecordValidate call.
func RegisterViews() error {
	return view.Register(viewDiagnostics, viewValidateLatency)
}

// RecordValidate records the outcome of one scope validate pass.
func RecordValidate(ctx context.Context, scopeName string, diagnosticCount int, latencyMs float64) {
	ctx, err := tag.New(ctx, tag.Insert(keyScope, scopeName))
	if err != nil {
		return
	}
	stats.Record(ctx, measureDiagnostics.M(int64(diagnosticCount)), measureValidateMs.M(latencyMs))
}
