package transform

import (
	"context"
	"fmt"

	internalplugin "github.com/neosb/zipline/internal/plugin"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

func init() {
	internalplugin.RegisterTransform("field", newFieldTransform)
	internalplugin.RegisterTransform("constant", newConstantTransform)
}

// newFieldTransform builds a transform that copies a single named field out
// of the event payload, the simplest possible non-identity transform.
func newFieldTransform(params map[string]interface{}) (plugin.TransformFunc, error) {
	field, ok := params["field"].(string)
	if !ok || field == "" {
		return nil, fmt.Errorf("field transform: missing required string parameter %q", "field")
	}
	return func(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
		return payload[field], nil
	}, nil
}

// newConstantTransform builds a transform that ignores its input and always
// emits a fixed configured value, useful for topology tests.
func newConstantTransform(params map[string]interface{}) (plugin.TransformFunc, error) {
	value := params["value"]
	return func(ctx context.Context, payload map[string]interface{}) (interface{}, error) {
		return value, nil
	}, nil
}
