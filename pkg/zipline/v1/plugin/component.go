// Package plugin defines the public interfaces implemented by every pluggable
// zipline component (data sources and transforms), and the factory registries
// used to instantiate them from a topology file.
package plugin

import (
	"context"

	"github.com/neosb/zipline/pkg/zipline/v1/component"
)

// Component is the fundamental unit the host supervises: every data source,
// the Feed, every transform, and the Merge implement it.
//
// Open is called once, before the host starts polling for work, and may bind
// any resources the component needs (e.g. connect to its logical sockets).
//
// DoWork performs one unit of work and returns done=true once the component
// has nothing further to do and has already sent its own DONE notification
// downstream. The host calls DoWork repeatedly from a dedicated goroutine
// until it returns done=true or ctx is cancelled.
//
// SignalDone is invoked when the component learns (from an upstream DONE, or
// from the host cancelling ctx) that it should wind down: flush any buffered
// state downstream and report completion to the host.
type Component interface {
	ID() component.ID
	Open(ctx context.Context, handle component.HostHandle) error
	DoWork(ctx context.Context) (done bool, err error)
	SignalDone(ctx context.Context) error
}

// DataSource produces timestamped records, frames them as model.Event values
// and sends them to the Feed. Kind identifies the concrete data-source type, mirroring the
// Python base class's get_type() contract.
type DataSource interface {
	Component
	Kind() string
}

// TransformFunc is the signature a registered transform function must
// implement: given a decoded event payload, it produces the value to attach
// under the transform's name.
type TransformFunc func(ctx context.Context, payload map[string]interface{}) (interface{}, error)

// RecordSource supplies the timestamped records a built-in data source
// replays. It is the minimal contract a declarative data-source plugin
// (registered by type name in a topology file) needs to satisfy; the host
// takes care of the transport wiring a full Component would otherwise need.
// Next returns ok=false once the source is exhausted.
type RecordSource interface {
	Next(ctx context.Context) (dt int64, payload map[string]interface{}, ok bool, err error)
}
