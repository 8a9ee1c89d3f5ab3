package buffer

import (
	"context"
	"sync"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/events"
	"github.com/neosb/zipline/pkg/zipline/v1/log"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
)

// Feed merges the chronological output of every registered data source into
// a single ordered stream, published on the feed bus for every transform to
// subscribe to. It releases a record only once every source has a queued
// event, guaranteeing that no later record can arrive out of order; once
// every source reports DONE it drains whatever remains regardless of
// ordering gaps.
type Feed struct {
	mu     sync.Mutex
	queues *queueSet[model.Event]

	sockets *transport.Sockets
	codec   codec.Codec
	log     log.Logger
	bus     events.Bus
	handle  component.HostHandle

	sentCount     uint64
	receivedCount uint64
}

// NewFeed constructs a Feed pre-registered with sourceIDs, mirroring the
// host's pre-registration of every data source before the simulation opens.
func NewFeed(sockets *transport.Sockets, c codec.Codec, sourceIDs []string, logger log.Logger, bus events.Bus) *Feed {
	return &Feed{
		queues:  newQueueSet[model.Event](sourceIDs),
		sockets: sockets,
		codec:   c,
		log:     logger,
		bus:     bus,
	}
}

func (f *Feed) ID() component.ID { return component.Feed }

func (f *Feed) Open(ctx context.Context, handle component.HostHandle) error {
	f.handle = handle
	return nil
}

// DoWork processes exactly one frame from the data bus: either a source's
// DONE sentinel, or a new event to buffer and possibly release downstream.
func (f *Feed) DoWork(ctx context.Context) (bool, error) {
	select {
	case frame, ok := <-f.sockets.Data.Receive():
		if !ok {
			return true, nil
		}
		return f.handleFrame(ctx, frame)
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (f *Feed) handleFrame(ctx context.Context, frame []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if protocol.IsDataDoneFrame(frame) {
		id, _ := protocol.ParseDataDoneFrame(frame)
		allDone := f.queues.markSourceDone(id)
		if !allDone {
			return false, nil
		}
		if err := f.drainLocked(ctx); err != nil {
			return false, err
		}
		if err := f.signalDoneLocked(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	event, err := f.codec.UnframeEvent(frame)
	if err != nil {
		return false, err
	}
	f.queues.append(event.SourceID, event)
	f.receivedCount++
	return false, f.sendNextLocked(ctx)
}

// sendNextLocked publishes the chronologically next event if the buffering
// policy currently allows it. Caller must hold f.mu.
func (f *Feed) sendNextLocked(ctx context.Context) error {
	if !f.queues.readyToPop() {
		return nil
	}
	event, ok := f.popEarliestLocked()
	if !ok {
		return nil
	}
	frame, err := f.codec.FrameEvent(event)
	if err != nil {
		return err
	}
	if err := f.sockets.Feed.Publish(ctx, frame); err != nil {
		return err
	}
	f.sentCount++
	if f.bus != nil {
		f.bus.Emit(events.Event{Type: events.FeedEventEmitted, ComponentID: string(component.Feed)})
	}
	return nil
}

// popEarliestLocked removes and returns the chronologically earliest
// queued event across all sources, in the stable source-registration order
// used to break dt ties across distinct sources. Caller must hold f.mu.
func (f *Feed) popEarliestLocked() (model.Event, bool) {
	earliestSource := ""
	found := false
	for _, sourceID := range f.queues.order {
		queue := f.queues.queues[sourceID]
		if len(queue) == 0 {
			continue
		}
		if !found || queue[0].Before(f.queues.queues[earliestSource][0]) {
			earliestSource = sourceID
			found = true
		}
	}
	if !found {
		return model.Event{}, false
	}
	queue := f.queues.queues[earliestSource]
	event := queue[0]
	f.queues.queues[earliestSource] = queue[1:]
	return event, true
}

func (f *Feed) drainLocked(ctx context.Context) error {
	f.queues.setDraining()
	for f.queues.pendingMessages() > 0 {
		if err := f.sendNextLocked(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (f *Feed) signalDoneLocked(ctx context.Context) error {
	f.sockets.Feed.Close()
	if f.handle.Controller == nil {
		return nil
	}
	return f.handle.Done(ctx)
}

// SignalDone is invoked by the host runner if ctx is cancelled before every
// source finishes naturally; it releases downstream subscribers the same
// way a normal completion would.
func (f *Feed) SignalDone(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signalDoneLocked(ctx)
}

// PendingCount reports the total number of buffered events across all
// sources, mirroring the Python implementation's pending_messages/__len__.
func (f *Feed) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queues.pendingMessages()
}

// SourceCount reports the number of registered data sources.
func (f *Feed) SourceCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queues.sourceCount()
}

// Counts returns the running received/sent event counters.
func (f *Feed) Counts() (received, sent uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receivedCount, f.sentCount
}
