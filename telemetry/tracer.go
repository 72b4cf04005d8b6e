// Copyright © 2024 The ELPS authors

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans named after the validation phase being timed,
// following the Start()-returns-closer pattern used across the
// profiler annotators this package is grounded on: a caller opens a
// span and defers the returned closer rather than threading an
// explicit End() call through every call site.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer backed by the global OpenTelemetry tracer
// provider under the given instrumentation name.
func NewTracer(instrumentationName string) *Tracer {
	return &Tracer{tracer: otel.GetTracerProvider().Tracer(instrumentationName)}
}

// StartValidate opens a span for validating the named scope and
// returns a closer that ends it.
func (t *Tracer) StartValidate(ctx context.Context, scopeName string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "scope.validate")
	span.SetAttributes(attribute.String("scope.name", scopeName))
	return ctx, func() { span.End() }
}

// StartLoad opens a span for a workspace load/scan pass.
func (t *Tracer) StartLoad(ctx context.Context, root string) (context.Context, func()) {
	ctx, span := t.tracer.Start(ctx, "workspace.load")
	span.SetAttributes(attribute.String("workspace.root", root))
	return ctx, func() { span.End() }
}
