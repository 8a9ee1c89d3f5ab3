package tracing

import (
	"go.opentelemetry.io/otel"
	codes "go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans emitted by the global fallback tracer.
const tracerName = "zipline"

// GetTracer returns a tracer from the globally configured OpenTelemetry
// provider, falling back to a NoOp tracer if none is set. Prefer injecting
// an explicit tracing.TracerProvider over relying on this global.
func GetTracer() oteltrace.Tracer {
	return otel.Tracer(tracerName)
}

// RecordErrorWithContext records err on span and marks it as failed. It is a
// no-op if err or span is nil, or the span is not recording.
func RecordErrorWithContext(span oteltrace.Span, err error) {
	if err == nil || span == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err, oteltrace.WithStackTrace(true))
	span.SetStatus(codes.Error, err.Error())
}
