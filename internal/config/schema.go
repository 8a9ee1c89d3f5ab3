package config

import (
	_ "embed"
	"fmt"
	"sync"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed topology_schema_v1.0.0.json
var schemaV1Bytes []byte

var (
	schemaV1   *gojsonschema.Schema
	schemaOnce sync.Once
	schemaErr  error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		if len(schemaV1Bytes) == 0 {
			schemaErr = ziplineerrors.NewConfigError("embedded schema 'topology_schema_v1.0.0.json' is empty or not found", nil)
			return
		}
		loader := gojsonschema.NewBytesLoader(schemaV1Bytes)
		schemaV1, schemaErr = gojsonschema.NewSchema(loader)
		if schemaErr != nil {
			schemaErr = ziplineerrors.NewConfigError("failed to compile embedded schema 'topology_schema_v1.0.0.json'", schemaErr)
		}
	})
	return schemaV1, schemaErr
}

// ValidateWithSchema validates documentYAML against the embedded Topology
// v1.0.0 JSON Schema.
func ValidateWithSchema(documentYAML []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var jsonData interface{}
	if err := yaml.Unmarshal(documentYAML, &jsonData); err != nil {
		return ziplineerrors.NewConfigError("failed to parse topology YAML for schema validation", err)
	}

	docLoader := gojsonschema.NewGoLoader(jsonData)
	result, err := schema.Validate(docLoader)
	if err != nil {
		return ziplineerrors.NewConfigError("schema validation process failed", err)
	}

	if !result.Valid() {
		errMsg := "topology failed JSON schema validation:"
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "(root)" || field == "" {
				field = desc.Context().String()
			}
			errMsg += fmt.Sprintf("\n  - Field '%s': %s", field, desc.Description())
		}
		return ziplineerrors.NewValidationError(errMsg, nil)
	}

	return nil
}
