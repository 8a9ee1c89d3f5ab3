package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaVersionConstraint is the major SemVer version of Topology
// documents this build accepts.
const SupportedSchemaVersionConstraint = "v1"

// LoadTopology parses topologyYAML, validates it against the embedded JSON
// Schema, checks schemaVersion compatibility, performs logical validation,
// and returns the resulting Topology.
func LoadTopology(topologyYAML []byte, filePathHint string) (*Topology, error) {
	if len(topologyYAML) == 0 {
		return nil, ziplineerrors.NewConfigError("topology content cannot be empty", nil)
	}

	if err := ValidateWithSchema(topologyYAML); err != nil {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("topology '%s' failed schema validation", filePathHint), err)
	}

	var topology Topology
	if err := yamlUnmarshalStrict(topologyYAML, &topology); err != nil {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("failed to parse topology YAML '%s'", filePathHint), err)
	}
	topology.FilePath = filePathHint

	if topology.SchemaVersion == "" {
		return nil, ziplineerrors.NewValidationError(fmt.Sprintf("topology '%s' is missing required 'schemaVersion' field", filePathHint), nil)
	}
	topologySemVer := topology.SchemaVersion
	if !strings.HasPrefix(topologySemVer, "v") {
		topologySemVer = "v" + topologySemVer
	}
	if !semver.IsValid(topologySemVer) {
		return nil, ziplineerrors.NewValidationError(fmt.Sprintf("topology '%s' has invalid 'schemaVersion' format: '%s'", filePathHint, topology.SchemaVersion), nil)
	}
	if semver.Major(topologySemVer) != SupportedSchemaVersionConstraint {
		return nil, ziplineerrors.NewValidationError(
			fmt.Sprintf("topology '%s' schemaVersion '%s' is not compatible with required '%s'",
				filePathHint, topology.SchemaVersion, SupportedSchemaVersionConstraint),
			nil,
		)
	}

	if validationErrs := ValidateTopologyStructure(&topology); len(validationErrs) > 0 {
		var messages []string
		for _, vErr := range validationErrs {
			messages = append(messages, vErr.Error())
		}
		combined := fmt.Sprintf("topology '%s' has %d validation error(s):\n- %s",
			filePathHint, len(messages), strings.Join(messages, "\n- "))
		return nil, ziplineerrors.NewValidationError(combined, validationErrs[0])
	}

	return &topology, nil
}

// LoadTopologyFromFile reads and loads a Topology from a YAML file on disk.
func LoadTopologyFromFile(filePath string) (*Topology, error) {
	if filePath == "" {
		return nil, ziplineerrors.NewConfigError("topology file path cannot be empty", nil)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("failed to get absolute path for '%s'", filePath), err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("failed to read topology file '%s'", absPath), err)
	}
	return LoadTopology(data, absPath)
}

// yamlUnmarshalStrict rejects unknown fields so typos in a topology file
// surface as load errors rather than being silently ignored.
func yamlUnmarshalStrict(in []byte, out interface{}) error {
	decoder := yaml.NewDecoder(strings.NewReader(string(in)))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("YAML parsing error: %w", err)
	}
	return nil
}
