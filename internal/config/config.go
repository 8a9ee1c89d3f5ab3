// Package config loads and validates the Topology documents that describe a
// simulation's sources, transforms, and timing parameters.
package config

import "time"

// Topology represents the top-level structure of a zipline topology YAML
// document.
type Topology struct {
	Name             string            `yaml:"name"`
	SchemaVersion    string            `yaml:"schemaVersion"`
	Addresses        map[string]string `yaml:"addresses,omitempty"`
	HeartbeatTimeout string            `yaml:"heartbeat_timeout,omitempty"`
	Timeout          string            `yaml:"timeout,omitempty"`
	EventBufferSize  int               `yaml:"event_buffer_size,omitempty"`
	Sources          []SourceSpec      `yaml:"sources"`
	Transforms       []TransformSpec   `yaml:"transforms,omitempty"`

	// FilePath records where the topology was loaded from, for logging and
	// error messages. Not parsed from YAML.
	FilePath string `yaml:"-"`
}

// SourceSpec declares one data source: the registered plugin type to
// construct it from, and that plugin's parameters.
type SourceSpec struct {
	ID     string                 `yaml:"id"`
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

// TransformSpec declares one transform: its result name, the registered
// plugin type, and that plugin's parameters. The name PASSTHROUGH is
// reserved and always present implicitly.
type TransformSpec struct {
	Name   string                 `yaml:"name"`
	Type   string                 `yaml:"type"`
	Params map[string]interface{} `yaml:"params,omitempty"`
}

const (
	defaultHeartbeatTimeout = 30 * time.Second
	defaultTimeout          = 5 * time.Second
	defaultEventBufferSize  = 64
)

// GetHeartbeatTimeout returns the configured liveness timeout, or a default
// if unset or invalid.
func (t *Topology) GetHeartbeatTimeout() time.Duration {
	if t.HeartbeatTimeout == "" {
		return defaultHeartbeatTimeout
	}
	d, err := time.ParseDuration(t.HeartbeatTimeout)
	if err != nil || d <= 0 {
		return defaultHeartbeatTimeout
	}
	return d
}

// GetTimeout returns the configured per-call sync timeout, or a default if
// unset or invalid.
func (t *Topology) GetTimeout() time.Duration {
	if t.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// GetEventBufferSize returns the configured channel buffer size for every
// logical socket, or a default if unset or invalid.
func (t *Topology) GetEventBufferSize() int {
	if t.EventBufferSize <= 0 {
		return defaultEventBufferSize
	}
	return t.EventBufferSize
}
