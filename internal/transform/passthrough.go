package transform

import (
	"context"

	"github.com/neosb/zipline/internal/protocol"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
)

// Passthrough is the reserved PASSTHROUGH transform: it anchors every
// Merge tick by forwarding the decoded event itself as its result value,
// rather than deriving a new field from it.
type Passthrough struct {
	events  <-chan []byte
	sockets *transport.Sockets
	codec   codec.Codec
	handle  component.HostHandle
}

// NewPassthrough constructs the PASSTHROUGH transform, subscribing to the
// Feed and pushing onto sockets.Merge.
func NewPassthrough(sockets *transport.Sockets, c codec.Codec) *Passthrough {
	return &Passthrough{
		events:  sockets.Feed.Subscribe(string(component.Passthrough)),
		sockets: sockets,
		codec:   c,
	}
}

func (p *Passthrough) ID() component.ID { return component.Passthrough }

func (p *Passthrough) Open(ctx context.Context, handle component.HostHandle) error {
	p.handle = handle
	return nil
}

func (p *Passthrough) DoWork(ctx context.Context) (bool, error) {
	select {
	case frame, ok := <-p.events:
		if !ok {
			return true, p.signalDone(ctx)
		}
		event, err := p.codec.UnframeEvent(frame)
		if err != nil {
			return false, err
		}
		result := model.TransformResult{Name: string(component.Passthrough), Value: event}
		resultFrame, err := p.codec.FrameTransformResult(result)
		if err != nil {
			return false, err
		}
		return false, p.sockets.Merge.Send(ctx, resultFrame)
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (p *Passthrough) signalDone(ctx context.Context) error {
	if err := p.sockets.Merge.Send(ctx, protocol.DataDoneFrame(string(component.Passthrough))); err != nil {
		return err
	}
	if p.handle.Controller == nil {
		return nil
	}
	return p.handle.Done(ctx)
}

func (p *Passthrough) SignalDone(ctx context.Context) error {
	return p.signalDone(ctx)
}
