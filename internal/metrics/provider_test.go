package metrics

import "testing"

func TestRegisterSimulatorCounters(t *testing.T) {
	p := NewPrometheusRegistryProvider()
	counters := RegisterSimulatorCounters(p.Registry())

	counters.ComponentTimeouts.Inc()
	counters.MergeRecordsEmitted.Add(4)

	families, err := p.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("got %d metric families, want 3", len(families))
	}
}
