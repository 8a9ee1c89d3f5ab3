package transport

import (
	"context"

	"github.com/neosb/zipline/internal/protocol"
)

// SyncRequest is one synchronous control-protocol exchange: a component's
// sync frame paired with the reply channel the host must answer on,
// modeling a single logical REQ/REP round trip.
type SyncRequest struct {
	Frame string
	Reply chan<- string
}

// SyncBus is the host's control-protocol socket: every component shares it
// to report liveness, and blocks for the host's reply before continuing.
type SyncBus struct {
	requests chan SyncRequest
}

// NewSyncBus creates a SyncBus with the given request buffer size.
func NewSyncBus(bufferSize int) *SyncBus {
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &SyncBus{requests: make(chan SyncRequest, bufferSize)}
}

// Requests returns the channel the host polls for incoming sync requests.
func (b *SyncBus) Requests() <-chan SyncRequest {
	return b.requests
}

// Call sends a HEARTBEAT or DONE frame for id and blocks for the host's
// reply (always protocol.Ack), or until ctx is cancelled.
func (b *SyncBus) Call(ctx context.Context, id string, status protocol.Status) error {
	_, err := b.CallRaw(ctx, protocol.FormatSyncFrame(id, status))
	return err
}

// CallRaw sends a pre-formatted frame and returns the host's reply. It
// exists alongside Call so tests (and any caller working directly with the
// wire format) can exercise the host's handling of malformed frames, which
// FormatSyncFrame can never itself produce.
func (b *SyncBus) CallRaw(ctx context.Context, frame string) (string, error) {
	reply := make(chan string, 1)
	req := SyncRequest{Frame: frame, Reply: reply}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case ack := <-reply:
		return ack, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
