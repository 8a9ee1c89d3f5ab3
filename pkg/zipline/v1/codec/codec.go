// Package codec defines the pluggable wire-framing contract used to move
// model values across the host's logical sockets. The core messaging
// pipeline (Feed, Merge, ComponentHost) only depends on this interface;
// byte-level representation is intentionally out of scope for the core and
// left to a concrete Codec implementation.
package codec

import "github.com/neosb/zipline/pkg/zipline/v1/model"

// Codec frames and unframes the four payload shapes that cross a logical
// socket boundary: raw data-source records, Feed events, transform results,
// and merged records.
type Codec interface {
	FrameDataSource(payload map[string]interface{}) ([]byte, error)
	UnframeDataSource(frame []byte) (map[string]interface{}, error)

	FrameEvent(event model.Event) ([]byte, error)
	UnframeEvent(frame []byte) (model.Event, error)

	FrameTransformResult(result model.TransformResult) ([]byte, error)
	UnframeTransformResult(frame []byte) (model.TransformResult, error)

	FrameMergedRecord(record model.MergedRecord) ([]byte, error)
	UnframeMergedRecord(frame []byte) (model.MergedRecord, error)
}
