// Package telemetry wraps the OpenTelemetry global tracer around the
// engine's per-cycle entry points.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rwortham/instinct/internal/domain"
)

// Tracer starts one span per engine cycle call. With no SDK configured,
// otel's global tracer is a no-op, so a process that never wires a
// TracerProvider pays nothing beyond the interface call.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer drawing from otel's global TracerProvider
// under the given instrumentation name.
func NewTracer(name string) *Tracer {
	return &Tracer{tracer: otel.Tracer(name)}
}

// TraceRunPlan wraps a single RunPlan call in a span carrying the
// resulting return code and the driveID the caller passes in, recorded as
// given; it does not look up which Drive the cycle dispatched.
func (t *Tracer) TraceRunPlan(ctx context.Context, driveID domain.ElementID, run func() domain.ReturnCode) domain.ReturnCode {
	ctx, span := t.tracer.Start(ctx, "RunPlan")
	defer span.End()

	result := run()

	span.SetAttributes(
		attribute.Int("return_code", int(result.Code())),
		attribute.Int64("drive_id", int64(driveID)),
	)
	if result.Code() == domain.Error {
		span.SetStatus(codes.Error, "structural fault")
	}
	_ = ctx
	return result
}

// TraceProcessTimers wraps a single ProcessTimers call in a span carrying
// the elapsed tick count passed to it.
func (t *Tracer) TraceProcessTimers(ctx context.Context, elapsedTicks uint16, run func()) {
	_, span := t.tracer.Start(ctx, "ProcessTimers")
	defer span.End()

	span.SetAttributes(attribute.Int("elapsed_ticks", int(elapsedTicks)))
	run()
}
