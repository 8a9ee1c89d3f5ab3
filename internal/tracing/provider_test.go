package tracing

import (
	"context"
	"testing"
)

func TestNoOpProviderGetTracer(t *testing.T) {
	p, err := NewNoOpProvider()
	if err != nil {
		t.Fatalf("NewNoOpProvider() error = %v", err)
	}
	if !p.IsEffectivelyNoOp() {
		t.Error("IsEffectivelyNoOp() = false, want true")
	}
	tr := p.GetTracer("test")
	if tr == nil {
		t.Fatal("GetTracer() = nil")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestProviderFromEnvDisabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	p, err := NewProviderFromEnv(context.Background())
	if err != nil {
		t.Fatalf("NewProviderFromEnv() error = %v", err)
	}
	if !p.IsEffectivelyNoOp() {
		t.Error("IsEffectivelyNoOp() = false, want true when OTEL_SDK_DISABLED=true")
	}
}
