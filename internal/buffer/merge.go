package buffer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/events"
	"github.com/neosb/zipline/pkg/zipline/v1/log"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
)

// Merge folds every transform's per-tick result onto the PASSTHROUGH event
// that anchors it, releasing one model.MergedRecord per tick once every
// registered transform (including PASSTHROUGH) has a queued result, or once
// draining after every transform reports DONE.
type Merge struct {
	mu     sync.Mutex
	queues *queueSet[model.TransformResult]

	sockets *transport.Sockets
	codec   codec.Codec
	log     log.Logger
	bus     events.Bus
	handle  component.HostHandle

	sentCount     uint64
	receivedCount uint64
}

// NewMerge constructs a Merge pre-registered with transformNames, which
// MUST include component.Passthrough; transform names must be pairwise
// disjoint, matching the PASSTHROUGH-is-the-anchor invariant.
func NewMerge(sockets *transport.Sockets, c codec.Codec, transformNames []string, logger log.Logger, bus events.Bus) *Merge {
	return &Merge{
		queues:  newQueueSet[model.TransformResult](transformNames),
		sockets: sockets,
		codec:   c,
		log:     logger,
		bus:     bus,
	}
}

func (m *Merge) ID() component.ID { return component.Merge }

func (m *Merge) Open(ctx context.Context, handle component.HostHandle) error {
	m.handle = handle
	return nil
}

func (m *Merge) DoWork(ctx context.Context) (bool, error) {
	select {
	case frame, ok := <-m.sockets.Merge.Receive():
		if !ok {
			return true, nil
		}
		return m.handleFrame(ctx, frame)
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (m *Merge) handleFrame(ctx context.Context, frame []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if protocol.IsDataDoneFrame(frame) {
		id, _ := protocol.ParseDataDoneFrame(frame)
		allDone := m.queues.markSourceDone(id)
		if !allDone {
			return false, nil
		}
		if err := m.drainLocked(ctx); err != nil {
			return false, err
		}
		if err := m.signalDoneLocked(ctx); err != nil {
			return false, err
		}
		return true, nil
	}

	result, err := m.codec.UnframeTransformResult(frame)
	if err != nil {
		return false, err
	}
	if _, registered := m.queues.queues[result.Name]; !registered {
		return false, fmt.Errorf("merge: result from unregistered transform %q", result.Name)
	}
	m.queues.append(result.Name, result)
	m.receivedCount++
	return false, m.sendNextLocked(ctx)
}

func (m *Merge) sendNextLocked(ctx context.Context) error {
	if !m.queues.readyToPop() {
		return nil
	}
	record, ok := m.popMergedLocked()
	if !ok {
		return nil
	}
	frame, err := m.codec.FrameMergedRecord(*record)
	if err != nil {
		return err
	}
	if err := m.sockets.Result.Publish(ctx, frame); err != nil {
		return err
	}
	m.sentCount++
	if m.bus != nil {
		m.bus.Emit(events.Event{Type: events.MergeRecordEmitted, ComponentID: string(component.Merge)})
	}
	return nil
}

// popMergedLocked pops the head of the PASSTHROUGH queue as the record's
// base event, then folds in the head of every other non-empty transform
// queue. Caller must hold m.mu.
func (m *Merge) popMergedLocked() (*model.MergedRecord, bool) {
	passthroughQueue := m.queues.queues[string(component.Passthrough)]
	if len(passthroughQueue) == 0 {
		return nil, false
	}
	base := passthroughQueue[0]
	m.queues.queues[string(component.Passthrough)] = passthroughQueue[1:]

	var passthroughEvent model.Event
	switch v := base.Value.(type) {
	case model.Event:
		passthroughEvent = v
	default:
		// A codec that decodes values generically (such as the JSON codec)
		// delivers the event as a map; decode it back into a model.Event.
		raw, err := json.Marshal(v)
		if err != nil || json.Unmarshal(raw, &passthroughEvent) != nil {
			return nil, false
		}
	}
	record := model.NewMergedRecord(passthroughEvent)

	for _, name := range m.queues.order {
		if name == string(component.Passthrough) {
			continue
		}
		queue := m.queues.queues[name]
		if len(queue) == 0 {
			continue
		}
		record.Merge(queue[0])
		m.queues.queues[name] = queue[1:]
	}
	return record, true
}

func (m *Merge) drainLocked(ctx context.Context) error {
	m.queues.setDraining()
	for {
		pending := m.queues.pendingMessages()
		if pending == 0 {
			return nil
		}
		before := pending
		if err := m.sendNextLocked(ctx); err != nil {
			return err
		}
		if m.queues.pendingMessages() == before {
			// No PASSTHROUGH record left to anchor the remaining
			// transform results; they cannot be emitted.
			if m.log != nil {
				m.log.Warnf("merge: discarding %d stranded transform result(s) with no PASSTHROUGH to anchor", before)
			}
			for _, name := range m.queues.order {
				m.queues.queues[name] = nil
			}
			return nil
		}
	}
}

func (m *Merge) signalDoneLocked(ctx context.Context) error {
	m.sockets.Result.Close()
	if m.handle.Controller == nil {
		return nil
	}
	return m.handle.Done(ctx)
}

func (m *Merge) SignalDone(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signalDoneLocked(ctx)
}

// PendingCount reports the total number of buffered transform results
// across all transforms.
func (m *Merge) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues.pendingMessages()
}

// SourceCount reports the number of registered transforms (including
// PASSTHROUGH).
func (m *Merge) SourceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queues.sourceCount()
}

// Counts returns the running received/sent record counters.
func (m *Merge) Counts() (received, sent uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.receivedCount, m.sentCount
}
