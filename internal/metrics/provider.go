// Package metrics implements the public zipline metrics.RegistryProvider
// interface on top of a standard Prometheus registry.
package metrics

import (
	ziplinemetrics "github.com/neosb/zipline/pkg/zipline/v1/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusRegistryProvider implements metrics.RegistryProvider.
type PrometheusRegistryProvider struct {
	registry *prometheus.Registry
}

// NewPrometheusRegistryProvider creates a fresh Prometheus-backed provider.
func NewPrometheusRegistryProvider() *PrometheusRegistryProvider {
	return &PrometheusRegistryProvider{registry: prometheus.NewRegistry()}
}

// Registry returns the underlying Prometheus registry.
func (p *PrometheusRegistryProvider) Registry() *prometheus.Registry {
	return p.registry
}

var _ ziplinemetrics.RegistryProvider = (*PrometheusRegistryProvider)(nil)
