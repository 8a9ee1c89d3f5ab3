package events

import ziplineevents "github.com/neosb/zipline/pkg/zipline/v1/events"

// NoOpEventBus discards every event. Passing it where a Bus is expected
// turns event emission off without a nil Bus; the host and buffers also
// accept a nil Bus and then skip emission themselves.
type NoOpEventBus struct{}

// NewNoOpEventBus returns a Bus that does nothing.
func NewNoOpEventBus() ziplineevents.Bus {
	return &NoOpEventBus{}
}

// Emit implements events.Bus.
func (n *NoOpEventBus) Emit(event ziplineevents.Event) {}

var _ ziplineevents.Bus = (*NoOpEventBus)(nil)
