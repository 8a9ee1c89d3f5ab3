package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTopologyYAML = `
name: demo
schemaVersion: v1.0.0
heartbeat_timeout: 5s
sources:
  - id: prices
    type: listsource
    params:
      records: []
transforms:
  - name: symbol_field
    type: field
    params:
      field: symbol
`

func TestLoadTopologyValid(t *testing.T) {
	topo, err := LoadTopology([]byte(validTopologyYAML), "demo.yaml")
	require.NoError(t, err)
	assert.Equal(t, "demo", topo.Name)
	require.Len(t, topo.Sources, 1)
	assert.Equal(t, "prices", topo.Sources[0].ID)
	assert.Equal(t, "5s", topo.GetHeartbeatTimeout().String())
}

func TestLoadTopologyMissingSchemaVersion(t *testing.T) {
	_, err := LoadTopology([]byte("sources:\n  - id: a\n    type: listsource\n"), "bad.yaml")
	require.Error(t, err)
}

func TestLoadTopologyIncompatibleMajorVersion(t *testing.T) {
	yamlDoc := "schemaVersion: v2.0.0\nsources:\n  - id: a\n    type: listsource\n"
	_, err := LoadTopology([]byte(yamlDoc), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not compatible")
}

func TestLoadTopologyReservedTransformName(t *testing.T) {
	yamlDoc := `
schemaVersion: v1.0.0
sources:
  - id: a
    type: listsource
transforms:
  - name: PASSTHROUGH
    type: field
`
	_, err := LoadTopology([]byte(yamlDoc), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestLoadTopologyDuplicateSourceIDs(t *testing.T) {
	yamlDoc := `
schemaVersion: v1.0.0
sources:
  - id: a
    type: listsource
  - id: a
    type: listsource
`
	_, err := LoadTopology([]byte(yamlDoc), "bad.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadTopologyEmptyContent(t *testing.T) {
	_, err := LoadTopology(nil, "empty.yaml")
	require.Error(t, err)
}
