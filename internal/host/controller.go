package host

import (
	"context"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
)

// syncController implements component.Controller over a SyncBus, so every
// running component reports liveness through the same synchronous
// request/reply exchange a real REQ/REP control socket would use.
type syncController struct {
	sync *transport.SyncBus
}

func newSyncController(sockets *transport.Sockets) *syncController {
	return &syncController{sync: sockets.Sync}
}

func (c *syncController) Heartbeat(ctx context.Context, id component.ID) error {
	return c.sync.Call(ctx, string(id), protocol.StatusHeartbeat)
}

func (c *syncController) Done(ctx context.Context, id component.ID) error {
	return c.sync.Call(ctx, string(id), protocol.StatusDone)
}
