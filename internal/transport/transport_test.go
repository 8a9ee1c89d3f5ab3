package transport

import (
	"context"
	"testing"
	"time"

	"github.com/neosb/zipline/internal/protocol"
)

func TestAggregateBusFanIn(t *testing.T) {
	bus := NewAggregateBus(2)
	ctx := context.Background()

	if err := bus.Send(ctx, []byte("a")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err := bus.Send(ctx, []byte("b")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case frame := <-bus.Receive():
			got[string(frame)] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for frame")
		}
	}
	if !got["a"] || !got["b"] {
		t.Errorf("got %v, want both a and b", got)
	}
}

func TestFanoutBusBroadcast(t *testing.T) {
	bus := NewFanoutBus(1)
	subA := bus.Subscribe("a")
	subB := bus.Subscribe("b")

	ctx := context.Background()
	if err := bus.Publish(ctx, []byte("x")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case frame := <-subA:
		if string(frame) != "x" {
			t.Errorf("subA got %q, want %q", frame, "x")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on subA")
	}
	select {
	case frame := <-subB:
		if string(frame) != "x" {
			t.Errorf("subB got %q, want %q", frame, "x")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting on subB")
	}
}

func TestFanoutBusCloseSignalsEndOfStream(t *testing.T) {
	bus := NewFanoutBus(1)
	sub := bus.Subscribe("a")
	bus.Close()

	_, ok := <-sub
	if ok {
		t.Fatal("expected subscriber channel to be closed")
	}
}

func TestSyncBusCallGetsAck(t *testing.T) {
	bus := NewSyncBus(1)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- bus.Call(ctx, "FEED", protocol.StatusHeartbeat)
	}()

	select {
	case req := <-bus.Requests():
		if req.Frame != "FEED:HEARTBEAT" {
			t.Errorf("frame = %q, want %q", req.Frame, "FEED:HEARTBEAT")
		}
		req.Reply <- protocol.Ack
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sync request")
	}

	if err := <-done; err != nil {
		t.Fatalf("Call() error = %v", err)
	}
}

func TestSyncBusCallCancelled(t *testing.T) {
	bus := NewSyncBus(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bus.Call(ctx, "FEED", protocol.StatusHeartbeat); err == nil {
		t.Fatal("Call() error = nil, want non-nil for cancelled context")
	}
}
