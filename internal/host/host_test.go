package host

import (
	"context"
	"testing"
	"time"

	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/errors"
)

// TestHostEmptyRegistryCompletesImmediately covers the empty-registry edge
// case: a host with nothing registered must not block in Run.
func TestHostEmptyRegistryCompletesImmediately(t *testing.T) {
	sockets := transport.NewSockets(1)
	h := NewComponentHost(sockets, time.Second, 10*time.Millisecond, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := h.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil for empty registry", err)
	}
}

// TestHostGracefulCompletion covers a single component heartbeating then
// reporting DONE: Run must return nil once the registry empties.
func TestHostGracefulCompletion(t *testing.T) {
	sockets := transport.NewSockets(1)
	h := NewComponentHost(sockets, time.Second, 5*time.Millisecond, nil, nil)
	if err := h.Register("FEED"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- h.Run(ctx) }()

	if err := h.Controller().Heartbeat(ctx, "FEED"); err != nil {
		t.Fatalf("Heartbeat() error = %v", err)
	}
	if err := h.Controller().Done(ctx, "FEED"); err != nil {
		t.Fatalf("Done() error = %v", err)
	}

	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to complete")
	}
}

// TestHostLivenessTimeout covers a component that stops heartbeating: Run
// must return a LivenessTimeoutError once the liveness window elapses.
func TestHostLivenessTimeout(t *testing.T) {
	sockets := transport.NewSockets(1)
	h := NewComponentHost(sockets, 20*time.Millisecond, 5*time.Millisecond, nil, nil)
	if err := h.Register("SLOW"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := h.Run(ctx)
	var timeoutErr *errors.LivenessTimeoutError
	if !errors.IsTimedOut(err) {
		t.Fatalf("Run() error = %v (%T), want LivenessTimeoutError", err, timeoutErr)
	}
}

func TestHostMalformedFrameStillAcks(t *testing.T) {
	sockets := transport.NewSockets(1)
	h := NewComponentHost(sockets, time.Second, 5*time.Millisecond, nil, nil)
	if err := h.Register("FEED"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go h.Run(ctx)

	ack, err := sockets.Sync.CallRaw(ctx, "malformed")
	if err != nil {
		t.Fatalf("CallRaw() error = %v", err)
	}
	if ack != "ack" {
		t.Errorf("ack = %q, want %q", ack, "ack")
	}
}
