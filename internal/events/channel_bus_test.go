package events

import (
	"testing"
	"time"

	"github.com/neosb/zipline/internal/logger"
	ziplineevents "github.com/neosb/zipline/pkg/zipline/v1/events"
)

func TestChannelEventBusEmitAndReceive(t *testing.T) {
	bus := NewChannelEventBus(4, logger.NewDefaultLogger("error"))
	bus.Emit(ziplineevents.Event{Type: ziplineevents.FeedEventEmitted})

	select {
	case ev := <-bus.GetChannel():
		if ev.Type != ziplineevents.FeedEventEmitted {
			t.Errorf("Type = %v, want FeedEventEmitted", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestChannelEventBusDropsWhenFull(t *testing.T) {
	bus := NewChannelEventBus(1, logger.NewDefaultLogger("error"))
	bus.Emit(ziplineevents.Event{Type: ziplineevents.FeedEventEmitted})
	bus.Emit(ziplineevents.Event{Type: ziplineevents.MergeRecordEmitted}) // dropped, buffer full

	ev := <-bus.GetChannel()
	if ev.Type != ziplineevents.FeedEventEmitted {
		t.Errorf("Type = %v, want FeedEventEmitted (first event kept)", ev.Type)
	}
	select {
	case ev := <-bus.GetChannel():
		t.Fatalf("unexpected second event: %v", ev)
	default:
	}
}

func TestNoOpEventBusDiscardsEverything(t *testing.T) {
	bus := NewNoOpEventBus()
	bus.Emit(ziplineevents.Event{Type: ziplineevents.HostTerminated}) // must not panic
}
