// Package codec provides the default codec.Codec implementation. The spec
// treats wire framing as an external, pluggable concern, so this default
// intentionally stays on encoding/json rather than a third-party framing
// library: none of the example repos ship a byte-framing library suited to
// arbitrary map[string]interface{} payloads, and the interface in
// pkg/zipline/v1/codec is the real extension seam for anyone who wants one.
package codec

import (
	"encoding/json"
	"fmt"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"github.com/neosb/zipline/pkg/zipline/v1/model"
)

// JSONCodec implements codec.Codec by marshaling each value as a single JSON
// document.
type JSONCodec struct{}

// NewJSONCodec returns the default JSON-framing codec.
func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

func (JSONCodec) FrameDataSource(payload map[string]interface{}) ([]byte, error) {
	frame, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode data source payload: %w", err)
	}
	return frame, nil
}

func (JSONCodec) UnframeDataSource(frame []byte) (map[string]interface{}, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(frame, &payload); err != nil {
		return nil, ziplineerrors.NewFrameDecodeError("datasource", err)
	}
	return payload, nil
}

func (JSONCodec) FrameEvent(event model.Event) ([]byte, error) {
	frame, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return frame, nil
}

func (JSONCodec) UnframeEvent(frame []byte) (model.Event, error) {
	var event model.Event
	if err := json.Unmarshal(frame, &event); err != nil {
		return model.Event{}, ziplineerrors.NewFrameDecodeError("event", err)
	}
	return event, nil
}

func (JSONCodec) FrameTransformResult(result model.TransformResult) ([]byte, error) {
	frame, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode transform result: %w", err)
	}
	return frame, nil
}

func (JSONCodec) UnframeTransformResult(frame []byte) (model.TransformResult, error) {
	var result model.TransformResult
	if err := json.Unmarshal(frame, &result); err != nil {
		return model.TransformResult{}, ziplineerrors.NewFrameDecodeError("transform_result", err)
	}
	return result, nil
}

func (JSONCodec) FrameMergedRecord(record model.MergedRecord) ([]byte, error) {
	frame, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode merged record: %w", err)
	}
	return frame, nil
}

func (JSONCodec) UnframeMergedRecord(frame []byte) (model.MergedRecord, error) {
	var record model.MergedRecord
	if err := json.Unmarshal(frame, &record); err != nil {
		return model.MergedRecord{}, ziplineerrors.NewFrameDecodeError("merged_record", err)
	}
	return record, nil
}
