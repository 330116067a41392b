package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/mediar-ai/deskflow"

// StartSpan opens a span on the global tracer provider. This module
// installs no tracer provider or OTLP exporter (Config.OTELEndpoint is not
// read), so by default this is a near-zero-cost no-op, matching the spec's treatment of telemetry sinks
// as out of scope while still instrumenting the code paths that matter.
func StartSpan(ctx context.Context, name string, attrs ...trace.SpanStartEventOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}

// EndWithError records err on the span (if non-nil) before ending it.
func EndWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
