// Package transport models the host's logical sockets as in-process channel
// brokers. The original design binds each logical socket shape (PUSH/PULL
// for many-to-one aggregation, PUB/SUB for one-to-many fan-out, REQ/REP for
// the synchronous control protocol) to a real network address; here the
// equivalent topology is wired entirely with Go channels, generalizing the
// producer/consumer channel management used for stream modules.
package transport

import (
	"context"
	"sync"
)

// AggregateBus is a many-to-one logical socket: every registered producer
// writes frames that a single consumer reads from one fan-in channel. It
// models the PUSH/PULL shape used by the data and merge sockets.
type AggregateBus struct {
	mu      sync.Mutex
	inbound chan []byte
	closed  bool
}

// NewAggregateBus creates an AggregateBus whose fan-in channel has the given
// buffer size.
func NewAggregateBus(bufferSize int) *AggregateBus {
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &AggregateBus{inbound: make(chan []byte, bufferSize)}
}

// Send delivers a frame from a producer onto the shared fan-in channel,
// blocking until it is accepted or ctx is cancelled.
func (b *AggregateBus) Send(ctx context.Context, frame []byte) error {
	select {
	case b.inbound <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns the consumer's fan-in channel.
func (b *AggregateBus) Receive() <-chan []byte {
	return b.inbound
}

// Close closes the fan-in channel. It is safe to call at most once, after
// every producer has stopped sending.
func (b *AggregateBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.inbound)
}
