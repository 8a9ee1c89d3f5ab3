package events

import (
	"context"

	ziplineevents "github.com/neosb/zipline/pkg/zipline/v1/events"
	ziplinelog "github.com/neosb/zipline/pkg/zipline/v1/log"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsEventListener subscribes to a ChannelEventBus and updates
// Prometheus counters from the events it observes.
type MetricsEventListener struct {
	bus              *ChannelEventBus
	log              ziplinelog.Logger
	timeoutCounter   prometheus.Counter
	mergeEmitCounter prometheus.Counter
	feedEmitCounter  prometheus.Counter
}

// NewMetricsEventListener creates a listener driving the given counters from
// bus events. All arguments must be non-nil.
func NewMetricsEventListener(bus *ChannelEventBus, timeoutCounter, mergeEmitCounter, feedEmitCounter prometheus.Counter, log ziplinelog.Logger) *MetricsEventListener {
	if bus == nil || timeoutCounter == nil || mergeEmitCounter == nil || feedEmitCounter == nil || log == nil {
		panic("MetricsEventListener requires non-nil bus, counters, and logger")
	}
	return &MetricsEventListener{
		bus:              bus,
		log:              log.With("component", "MetricsEventListener"),
		timeoutCounter:   timeoutCounter,
		mergeEmitCounter: mergeEmitCounter,
		feedEmitCounter:  feedEmitCounter,
	}
}

// Start drives the listener until the bus channel closes or ctx is done.
func (l *MetricsEventListener) Start(ctx context.Context) {
	l.log.Debugf("Starting metrics event listener...")
	for {
		select {
		case event, ok := <-l.bus.GetChannel():
			if !ok {
				l.log.Debugf("Event bus channel closed, stopping listener.")
				return
			}
			l.handleEvent(event)
		case <-ctx.Done():
			l.log.Debugf("Context cancelled, stopping metrics event listener.")
			return
		}
	}
}

func (l *MetricsEventListener) handleEvent(event ziplineevents.Event) {
	switch event.Type {
	case ziplineevents.ComponentTimedOut:
		l.timeoutCounter.Inc()
	case ziplineevents.MergeRecordEmitted:
		l.mergeEmitCounter.Inc()
	case ziplineevents.FeedEventEmitted:
		l.feedEmitCounter.Inc()
	}
}
