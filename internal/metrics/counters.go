package metrics

import "github.com/prometheus/client_golang/prometheus"

// SimulatorCounters bundles the Prometheus counters a running simulation
// drives via its event bus.
type SimulatorCounters struct {
	ComponentTimeouts   prometheus.Counter
	MergeRecordsEmitted prometheus.Counter
	FeedEventsEmitted   prometheus.Counter
}

// RegisterSimulatorCounters creates and registers the simulator's standard
// counters against reg.
func RegisterSimulatorCounters(reg *prometheus.Registry) *SimulatorCounters {
	c := &SimulatorCounters{
		ComponentTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zipline_component_timeouts_total",
			Help: "Total number of components the host declared liveness-timed-out.",
		}),
		MergeRecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zipline_merge_records_emitted_total",
			Help: "Total number of merged records published on the result bus.",
		}),
		FeedEventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zipline_feed_events_emitted_total",
			Help: "Total number of chronologically ordered events published on the feed bus.",
		}),
	}
	reg.MustRegister(c.ComponentTimeouts, c.MergeRecordsEmitted, c.FeedEventsEmitted)
	return c
}
