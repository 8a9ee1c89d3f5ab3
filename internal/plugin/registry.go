// Package plugin implements the default static registry used to look up
// data-source and transform factories by the type name declared in a
// topology file.
package plugin

import (
	"fmt"
	"sync"

	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

// StaticRegistry implements plugin.Registry using compile-time maps guarded
// by a single read-write mutex. It is the default registry used by
// cmd/ziplined if no other registry is supplied.
type StaticRegistry struct {
	mu         sync.RWMutex
	sources    map[string]plugin.DataSourceFactory
	transforms map[string]plugin.TransformFactory
}

// NewStaticRegistry creates a new, empty static registry.
func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		sources:    make(map[string]plugin.DataSourceFactory),
		transforms: make(map[string]plugin.TransformFactory),
	}
}

func (r *StaticRegistry) RegisterDataSource(name string, factory plugin.DataSourceFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return ziplineerrors.NewConfigError("data source registration error: name cannot be empty", nil)
	}
	if factory == nil {
		return ziplineerrors.NewConfigError(fmt.Sprintf("data source registration error for %q: factory cannot be nil", name), nil)
	}
	if _, exists := r.sources[name]; exists {
		return ziplineerrors.NewConfigError(fmt.Sprintf("data source registration error: duplicate type name %q", name), nil)
	}
	r.sources[name] = factory
	return nil
}

func (r *StaticRegistry) GetDataSource(name string) (plugin.DataSourceFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, exists := r.sources[name]
	if !exists {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("unregistered data source type %q", name), nil)
	}
	return factory, nil
}

func (r *StaticRegistry) RegisterTransform(name string, factory plugin.TransformFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name == "" {
		return ziplineerrors.NewConfigError("transform registration error: name cannot be empty", nil)
	}
	if factory == nil {
		return ziplineerrors.NewConfigError(fmt.Sprintf("transform registration error for %q: factory cannot be nil", name), nil)
	}
	if _, exists := r.transforms[name]; exists {
		return ziplineerrors.NewConfigError(fmt.Sprintf("transform registration error: duplicate type name %q", name), nil)
	}
	r.transforms[name] = factory
	return nil
}

func (r *StaticRegistry) GetTransform(name string) (plugin.TransformFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, exists := r.transforms[name]
	if !exists {
		return nil, ziplineerrors.NewConfigError(fmt.Sprintf("unregistered transform type %q", name), nil)
	}
	return factory, nil
}

func (r *StaticRegistry) ListDataSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	return names
}

func (r *StaticRegistry) ListTransforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	return names
}

// --- Default global registry, mirroring the compile-time self-registration
// pattern used by built-in data sources and transforms via their init(). ---

var (
	globalRegistry = NewStaticRegistry()
	_              plugin.Registry = (*StaticRegistry)(nil)
)

// RegisterDataSource globally registers a data-source factory. It panics on
// registration error since it is intended to be called from init().
func RegisterDataSource(name string, factory plugin.DataSourceFactory) {
	if err := globalRegistry.RegisterDataSource(name, factory); err != nil {
		panic(fmt.Errorf("failed to register data source %q globally: %w", name, err))
	}
}

// RegisterTransform globally registers a transform factory. It panics on
// registration error since it is intended to be called from init().
func RegisterTransform(name string, factory plugin.TransformFactory) {
	if err := globalRegistry.RegisterTransform(name, factory); err != nil {
		panic(fmt.Errorf("failed to register transform %q globally: %w", name, err))
	}
}

// DefaultStaticRegistryGetter exposes the default global registry as the
// public plugin.Registry interface.
var DefaultStaticRegistryGetter plugin.Registry = globalRegistry
