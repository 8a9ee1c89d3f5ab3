// Package tracing defines the public surface for accessing the host's tracer provider.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TracerProvider allows consumers to integrate the host's tracing with
// their own OpenTelemetry setup, or substitute a custom implementation.
type TracerProvider interface {
	GetTracer(name string, opts ...trace.TracerOption) trace.Tracer
	Shutdown(ctx context.Context) error
}
