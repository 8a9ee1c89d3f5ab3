package buffer

import (
	"context"
	"testing"
	"time"

	"github.com/neosb/zipline/internal/codec"
	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
)

func newTestFeed(t *testing.T, sourceIDs ...string) (*Feed, *transport.Sockets) {
	t.Helper()
	sockets := transport.NewSockets(8)
	f := NewFeed(sockets, codec.NewJSONCodec(), sourceIDs, nil, nil)
	return f, sockets
}

func sendEvent(t *testing.T, sockets *transport.Sockets, c *codec.JSONCodec, ev model.Event) {
	t.Helper()
	frame, err := c.FrameEvent(ev)
	if err != nil {
		t.Fatalf("FrameEvent() error = %v", err)
	}
	if err := sockets.Data.Send(context.Background(), frame); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func sendDone(t *testing.T, sockets *transport.Sockets, sourceID string) {
	t.Helper()
	if err := sockets.Data.Send(context.Background(), protocol.DataDoneFrame(sourceID)); err != nil {
		t.Fatalf("Send(done) error = %v", err)
	}
}

// TestFeedLockStepOrdering covers two sources advancing in lock step: the
// Feed must not release any record before both sources have produced one.
func TestFeedLockStepOrdering(t *testing.T) {
	f, sockets := newTestFeed(t, "a", "b")
	c := codec.NewJSONCodec()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := sockets.Feed.Subscribe("transform")

	sendEvent(t, sockets, c, model.Event{SourceID: "a", Dt: 10})
	if _, err := f.DoWork(ctx); err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}

	select {
	case <-sub:
		t.Fatal("Feed released a record before the second source produced anything")
	case <-time.After(20 * time.Millisecond):
	}

	sendEvent(t, sockets, c, model.Event{SourceID: "b", Dt: 5})
	if _, err := f.DoWork(ctx); err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}

	select {
	case frame := <-sub:
		ev, err := c.UnframeEvent(frame)
		if err != nil {
			t.Fatalf("UnframeEvent() error = %v", err)
		}
		if ev.SourceID != "b" {
			t.Errorf("released source = %q, want %q (earlier dt)", ev.SourceID, "b")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for released record")
	}
}

// TestFeedDrainsOnAllDone covers the final-drain scenario: once every source
// reports DONE, whatever is left in the buffer is flushed regardless of the
// is-full policy.
func TestFeedDrainsOnAllDone(t *testing.T) {
	f, sockets := newTestFeed(t, "a", "b")
	c := codec.NewJSONCodec()
	ctx := context.Background()

	sub := sockets.Feed.Subscribe("transform")

	sendEvent(t, sockets, c, model.Event{SourceID: "a", Dt: 1})
	if _, err := f.DoWork(ctx); err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}
	sendDone(t, sockets, "a")
	if _, err := f.DoWork(ctx); err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}
	// "a" still pending because "b" never contributed.
	sendDone(t, sockets, "b")
	done, err := f.DoWork(ctx)
	if err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}
	if !done {
		t.Fatal("DoWork() done = false, want true once every source reported DONE")
	}

	select {
	case frame := <-sub:
		ev, err := c.UnframeEvent(frame)
		if err != nil {
			t.Fatalf("UnframeEvent() error = %v", err)
		}
		if ev.SourceID != "a" {
			t.Errorf("drained source = %q, want %q", ev.SourceID, "a")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for drained record")
	}

	if f.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d, want 0 after drain", f.PendingCount())
	}
}

// TestFeedDuplicateDoneFromOneSourceDoesNotDrainEarly covers the case where
// a single source's DONE is observed twice, e.g. a SignalDone race against
// the source's own natural DONE: the second report must not be counted
// again, or the Feed would drain while "b" still has pending work.
func TestFeedDuplicateDoneFromOneSourceDoesNotDrainEarly(t *testing.T) {
	f, sockets := newTestFeed(t, "a", "b")
	ctx := context.Background()

	sendDone(t, sockets, "a")
	if done, err := f.DoWork(ctx); err != nil || done {
		t.Fatalf("DoWork() = (%v, %v), want (false, nil) after only one of two sources is done", done, err)
	}
	sendDone(t, sockets, "a")
	if done, err := f.DoWork(ctx); err != nil || done {
		t.Fatalf("DoWork() = (%v, %v), want (false, nil): a duplicate DONE from 'a' must not count as 'b' finishing", done, err)
	}
	sendDone(t, sockets, "b")
	done, err := f.DoWork(ctx)
	if err != nil {
		t.Fatalf("DoWork() error = %v", err)
	}
	if !done {
		t.Fatal("DoWork() done = false, want true once both distinct sources have reported DONE")
	}
}

func TestFeedSourceCount(t *testing.T) {
	f, _ := newTestFeed(t, "a", "b", "c")
	if got := f.SourceCount(); got != 3 {
		t.Errorf("SourceCount() = %d, want 3", got)
	}
}
