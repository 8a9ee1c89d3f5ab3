package host

import (
	"context"
	"time"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"github.com/neosb/zipline/pkg/zipline/v1/events"
	"github.com/neosb/zipline/pkg/zipline/v1/log"
)

// ComponentHost supervises a fixed set of components: it registers each one
// up front, answers their HEARTBEAT/DONE sync frames, and runs until every
// component has unregistered (a clean finish) or one of them goes silent
// past its liveness timeout (a failure).
type ComponentHost struct {
	sockets    *transport.Sockets
	registry   *componentRegistry
	controller *syncController
	log        log.Logger
	bus        events.Bus

	livenessTimeout time.Duration
	pollInterval    time.Duration
}

// NewComponentHost constructs a host bound to sockets' sync channel.
// livenessTimeout is how long a component may go without a heartbeat
// before the host declares it dead; pollInterval is how often the host's
// loop wakes up to check for staleness even if no sync frame arrives.
func NewComponentHost(sockets *transport.Sockets, livenessTimeout, pollInterval time.Duration, logger log.Logger, bus events.Bus) *ComponentHost {
	return &ComponentHost{
		sockets:         sockets,
		registry:        newComponentRegistry(),
		controller:      newSyncController(sockets),
		log:             logger,
		bus:             bus,
		livenessTimeout: livenessTimeout,
		pollInterval:    pollInterval,
	}
}

// Controller returns the component.Controller every supervised component
// should be bound to via its component.HostHandle.
func (h *ComponentHost) Controller() component.Controller {
	return h.controller
}

// Register pre-registers a component id before the simulation starts,
// mirroring the original design's upfront registration of every data
// source, transform, and the Feed/Merge pair.
func (h *ComponentHost) Register(id component.ID) error {
	now := time.Now()
	if err := h.registry.register(id, now); err != nil {
		return err
	}
	h.emit(events.ComponentRegistered, string(id), now)
	return nil
}

// Run drives the host's control loop until every registered component has
// unregistered, or ctx is cancelled, or one goes stale past the liveness
// timeout. A host with nothing registered returns nil immediately.
func (h *ComponentHost) Run(ctx context.Context) error {
	if h.registry.isEmpty() {
		return nil
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case req := <-h.sockets.Sync.Requests():
			h.handleRequest(req)
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}

		if h.registry.isEmpty() {
			h.emit(events.HostTerminated, "", time.Now())
			return nil
		}
		if id, stale := h.registry.staleComponent(time.Now(), h.livenessTimeout); stale {
			h.emit(events.ComponentTimedOut, string(id), time.Now())
			return ziplineerrors.NewLivenessTimeoutError(string(id), time.Now().Format(time.RFC3339))
		}
	}
}

func (h *ComponentHost) handleRequest(req transport.SyncRequest) {
	defer func() { req.Reply <- protocol.Ack }()

	id, status, ok := protocol.ParseSyncFrame(req.Frame)
	if !ok {
		h.warnf("malformed sync frame %q", req.Frame)
		return
	}

	switch status {
	case protocol.StatusDone:
		if h.registry.unregister(component.ID(id)) {
			h.emit(events.ComponentDone, id, time.Now())
		} else {
			h.warnf("DONE from unregistered component %q", id)
		}
	case protocol.StatusHeartbeat:
		if h.registry.touch(component.ID(id), time.Now()) {
			h.emit(events.ComponentHeartbeat, id, time.Now())
		} else {
			h.warnf("HEARTBEAT from unregistered component %q", id)
		}
	default:
		h.warnf("unknown sync status %q from %q", status, id)
	}
}

func (h *ComponentHost) emit(eventType events.EventType, componentID string, at time.Time) {
	if h.bus == nil {
		return
	}
	h.bus.Emit(events.Event{Type: eventType, ComponentID: componentID, Timestamp: at})
}

func (h *ComponentHost) warnf(format string, args ...interface{}) {
	if h.log == nil {
		return
	}
	h.log.Warnf("host: "+format, args...)
}
