// Package metrics defines the public surface for accessing the host's metrics registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryProvider exposes the Prometheus registry backing the host's
// counters and gauges, so a consumer can serve it over its own HTTP endpoint.
type RegistryProvider interface {
	Registry() *prometheus.Registry
}
