// Package transform implements the consumer side of the simulation: a
// BaseTransform subscribes to the Feed's chronological event stream,
// applies its plugin.TransformFunc to each event, and pushes the named
// result onto the merge bus, terminating with a DONE sentinel once the Feed
// signals end of stream.
package transform

import (
	"context"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

// Base drives a single named plugin.TransformFunc against the Feed's event
// stream. Every transform name registered with a Merge must be pairwise
// disjoint; the host enforces that precondition at topology build time.
type Base struct {
	name    string
	fn      plugin.TransformFunc
	events  <-chan []byte
	sockets *transport.Sockets
	codec   codec.Codec
	handle  component.HostHandle
}

// NewBase constructs a transform named name, applying fn to every event
// delivered on the Feed's fanout subscription, and pushing results onto
// sockets.Merge.
func NewBase(name string, fn plugin.TransformFunc, sockets *transport.Sockets, c codec.Codec) *Base {
	return &Base{
		name:    name,
		fn:      fn,
		events:  sockets.Feed.Subscribe(name),
		sockets: sockets,
		codec:   c,
	}
}

func (b *Base) ID() component.ID { return component.ID(b.name) }

func (b *Base) Open(ctx context.Context, handle component.HostHandle) error {
	b.handle = handle
	return nil
}

func (b *Base) DoWork(ctx context.Context) (bool, error) {
	select {
	case frame, ok := <-b.events:
		if !ok {
			return true, b.signalDone(ctx)
		}
		return false, b.handleFrame(ctx, frame)
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (b *Base) handleFrame(ctx context.Context, frame []byte) error {
	event, err := b.codec.UnframeEvent(frame)
	if err != nil {
		return err
	}
	value, err := b.fn(ctx, event.Payload)
	if err != nil {
		return err
	}
	result := model.TransformResult{Name: b.name, Value: value}
	resultFrame, err := b.codec.FrameTransformResult(result)
	if err != nil {
		return err
	}
	return b.sockets.Merge.Send(ctx, resultFrame)
}

func (b *Base) signalDone(ctx context.Context) error {
	if err := b.sockets.Merge.Send(ctx, protocol.DataDoneFrame(b.name)); err != nil {
		return err
	}
	if b.handle.Controller == nil {
		return nil
	}
	return b.handle.Done(ctx)
}

// SignalDone is invoked by the host runner if ctx is cancelled before the
// Feed's fanout channel closes naturally.
func (b *Base) SignalDone(ctx context.Context) error {
	return b.signalDone(ctx)
}
