// Package datasource implements the producer side of the simulation: every
// DataSource pulls records from wherever it gets them and emits them as
// timestamped model.Event values onto the data bus, terminating with a
// DONE sentinel once exhausted.
package datasource

import (
	"context"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

// Base drives a plugin.RecordSource to completion: one call to DoWork pulls
// one record, stamps it with a per-source sequence number, and sends it as
// a model.Event. Concrete data sources are built by supplying a
// RecordSource; see ListSource for the simplest one.
type Base struct {
	id      string
	kind    string
	source  plugin.RecordSource
	sockets *transport.Sockets
	codec   codec.Codec
	seq     uint64
	handle  component.HostHandle
}

// NewBase constructs a data source identified by id, of the given kind, that
// pulls from source and emits onto sockets.Data.
func NewBase(id, kind string, source plugin.RecordSource, sockets *transport.Sockets, c codec.Codec) *Base {
	return &Base{id: id, kind: kind, source: source, sockets: sockets, codec: c}
}

func (b *Base) ID() component.ID { return component.ID(b.id) }

func (b *Base) Kind() string { return b.kind }

func (b *Base) Open(ctx context.Context, handle component.HostHandle) error {
	b.handle = handle
	return nil
}

func (b *Base) DoWork(ctx context.Context) (bool, error) {
	dt, payload, ok, err := b.source.Next(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		if err := b.sockets.Data.Send(ctx, protocol.DataDoneFrame(b.id)); err != nil {
			return false, err
		}
		return true, nil
	}

	event := model.Event{SourceID: b.id, Dt: dt, Seq: b.seq, Payload: payload}
	b.seq++
	frame, err := b.codec.FrameEvent(event)
	if err != nil {
		return false, err
	}
	if err := b.sockets.Data.Send(ctx, frame); err != nil {
		return false, err
	}
	return false, nil
}

// SignalDone sends the DONE sentinel if the source is wound down before
// exhausting naturally (e.g. the host cancelled ctx).
func (b *Base) SignalDone(ctx context.Context) error {
	return b.sockets.Data.Send(ctx, protocol.DataDoneFrame(b.id))
}
