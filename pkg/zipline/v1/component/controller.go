package component

import "context"

// Controller is the narrow view of a host that a running component is
// allowed to call back into. It stands in for the synchronous REQ/REP
// heartbeat socket of the original design: components never hold a
// reference to the host itself, only to this interface.
type Controller interface {
	// Heartbeat reports that the component identified by id is still alive.
	// The host's reply corresponds to the literal "ack" of the control
	// protocol.
	Heartbeat(ctx context.Context, id ID) error
	// Done reports that the component identified by id has finished all of
	// its work and will perform no further sends.
	Done(ctx context.Context, id ID) error
}

// HostHandle binds a Controller to the id a component registered under, so
// a component can call Heartbeat/Done without repeating its own id at every
// call site.
type HostHandle struct {
	ID         ID
	Controller Controller
}

// Heartbeat reports liveness for the bound component id.
func (h HostHandle) Heartbeat(ctx context.Context) error {
	return h.Controller.Heartbeat(ctx, h.ID)
}

// Done reports completion for the bound component id.
func (h HostHandle) Done(ctx context.Context) error {
	return h.Controller.Done(ctx, h.ID)
}
