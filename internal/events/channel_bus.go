// Package events implements the public zipline events.Bus interface.
package events

import (
	ziplineevents "github.com/neosb/zipline/pkg/zipline/v1/events"
	ziplinelog "github.com/neosb/zipline/pkg/zipline/v1/log"
)

// ChannelEventBus implements events.Bus with a buffered Go channel. Emit is
// non-blocking: a full buffer drops the event and logs a warning rather than
// stalling the host or a component.
type ChannelEventBus struct {
	channel chan ziplineevents.Event
	log     ziplinelog.Logger
}

// NewChannelEventBus creates a ChannelEventBus with the given buffer size
// (defaulting to 100 when non-positive). log must be non-nil.
func NewChannelEventBus(bufferSize int, log ziplinelog.Logger) *ChannelEventBus {
	const defaultBufferSize = 100
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	if log == nil {
		panic("ChannelEventBus requires a non-nil logger")
	}

	bus := &ChannelEventBus{
		channel: make(chan ziplineevents.Event, bufferSize),
		log:     log.With("component", "ChannelEventBus"),
	}
	bus.log.Debugf("ChannelEventBus initialized with buffer size %d", bufferSize)
	return bus
}

// Emit implements events.Bus.
func (c *ChannelEventBus) Emit(event ziplineevents.Event) {
	select {
	case c.channel <- event:
		c.log.Debugf("Emitted event type '%s'", event.Type)
	default:
		c.log.Warnf("Event channel buffer full, dropping event type '%s'", event.Type)
	}
}

// GetChannel returns the underlying event channel for in-process consumers.
func (c *ChannelEventBus) GetChannel() <-chan ziplineevents.Event {
	return c.channel
}

// Close closes the underlying channel, signalling GetChannel consumers that
// no further events will arrive.
func (c *ChannelEventBus) Close() {
	c.log.Debugf("Closing ChannelEventBus channel.")
	close(c.channel)
}

var _ ziplineevents.Bus = (*ChannelEventBus)(nil)
