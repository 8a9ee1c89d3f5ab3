package plugin

// DataSourceFactory constructs a new RecordSource instance from its
// topology-declared parameters.
type DataSourceFactory func(id string, params map[string]interface{}) (RecordSource, error)

// TransformFactory constructs a new named TransformFunc from its
// topology-declared parameters.
type TransformFactory func(params map[string]interface{}) (TransformFunc, error)

// Registry defines the public interface for registries of data-source and
// transform factories, keyed by the plugin type name used in a topology
// file (e.g. "listsource", "field").
type Registry interface {
	// RegisterDataSource associates a data-source type name with its factory.
	RegisterDataSource(name string, factory DataSourceFactory) error
	// GetDataSource retrieves the factory registered for a data-source type.
	GetDataSource(name string) (DataSourceFactory, error)

	// RegisterTransform associates a transform type name with its factory.
	RegisterTransform(name string, factory TransformFactory) error
	// GetTransform retrieves the factory registered for a transform type.
	GetTransform(name string) (TransformFactory, error)

	// ListDataSources returns the registered data-source type names.
	ListDataSources() []string
	// ListTransforms returns the registered transform type names.
	ListTransforms() []string
}
