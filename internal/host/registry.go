// Package host implements ComponentHost, the supervisor that tracks every
// running component's liveness over the synchronous control protocol and
// terminates the simulation once every component has reported DONE, or
// declares a failure once any component goes quiet past its liveness
// timeout.
package host

import (
	"sync"
	"time"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"

	"github.com/neosb/zipline/pkg/zipline/v1/component"
)

// componentRegistry tracks every registered component's id and the time it
// was last seen alive, mirroring ComponentHost's components/sync_register
// maps in the original design.
type componentRegistry struct {
	mu       sync.Mutex
	lastSeen map[component.ID]time.Time
}

func newComponentRegistry() *componentRegistry {
	return &componentRegistry{lastSeen: make(map[component.ID]time.Time)}
}

// register adds id to the registry with the given initial timestamp. It
// returns a DuplicateComponentError if id is already registered.
func (r *componentRegistry) register(id component.ID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lastSeen[id]; exists {
		return ziplineerrors.NewDuplicateComponentError(string(id))
	}
	r.lastSeen[id] = now
	return nil
}

// touch refreshes id's last-seen timestamp. It reports false if id was
// never registered (or was already unregistered); the host then logs a
// warning and otherwise ignores the frame.
func (r *componentRegistry) touch(id component.ID, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lastSeen[id]; !exists {
		return false
	}
	r.lastSeen[id] = now
	return true
}

// unregister removes id from the registry. It reports false if id was never
// registered.
func (r *componentRegistry) unregister(id component.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lastSeen[id]; !exists {
		return false
	}
	delete(r.lastSeen, id)
	return true
}

// isEmpty reports whether every registered component has been unregistered,
// meaning the simulation has run to completion.
func (r *componentRegistry) isEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lastSeen) == 0
}

// staleComponent returns the id of the first component (in unspecified
// order) whose last-seen timestamp is older than timeout relative to now,
// and true, or ("", false) if every component is within its liveness
// window.
func (r *componentRegistry) staleComponent(now time.Time, timeout time.Duration) (component.ID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, seen := range r.lastSeen {
		if now.Sub(seen) > timeout {
			return id, true
		}
	}
	return "", false
}
