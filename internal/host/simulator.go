package host

import (
	"context"
	"fmt"
	"time"

	internalbuffer "github.com/neosb/zipline/internal/buffer"
	internalcomponent "github.com/neosb/zipline/internal/component"
	internaldatasource "github.com/neosb/zipline/internal/datasource"
	internaltransform "github.com/neosb/zipline/internal/transform"
	"github.com/neosb/zipline/internal/transport"
	"github.com/neosb/zipline/pkg/zipline/v1/codec"
	"github.com/neosb/zipline/pkg/zipline/v1/component"
	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	"github.com/neosb/zipline/pkg/zipline/v1/events"
	"github.com/neosb/zipline/pkg/zipline/v1/log"
	"github.com/neosb/zipline/pkg/zipline/v1/plugin"
)

// simulatorID is the fixed component id SimulatorBase reports as, mirroring
// the original design's hard-coded "Simulator" identity.
const simulatorID component.ID = "Simulator"

// SourceSpec declares one data source to be wired into a simulation: its
// id, the registered plugin type it should be built from, and that
// plugin's parameters.
type SourceSpec struct {
	ID     string
	Type   string
	Params map[string]interface{}
}

// TransformSpec declares one transform to be wired into a simulation: its
// result name, the registered plugin type, and that plugin's parameters.
// The name PASSTHROUGH is reserved and always present implicitly;
// declaring it explicitly is an error.
type TransformSpec struct {
	Name   string
	Type   string
	Params map[string]interface{}
}

// SimulatorBase wires a topology's sources, Feed, transforms, and Merge
// into one ComponentHost and drives them all to completion. It is the
// top-level entry point a topology runner uses, the Go analogue of
// SimulatorBase.simulate() in the original design.
type SimulatorBase struct {
	sockets           *transport.Sockets
	host              *ComponentHost
	registry          plugin.Registry
	codec             codec.Codec
	log               log.Logger
	bus               events.Bus
	heartbeatInterval time.Duration

	sources    []SourceSpec
	transforms []TransformSpec
}

// NewSimulatorBase constructs a SimulatorBase. livenessTimeout and
// pollInterval configure the underlying ComponentHost; heartbeatInterval is
// how often each running component reports liveness.
func NewSimulatorBase(
	bufferSize int,
	livenessTimeout, pollInterval, heartbeatInterval time.Duration,
	registry plugin.Registry,
	c codec.Codec,
	logger log.Logger,
	bus events.Bus,
) *SimulatorBase {
	sockets := transport.NewSockets(bufferSize)
	return &SimulatorBase{
		sockets:           sockets,
		host:              NewComponentHost(sockets, livenessTimeout, pollInterval, logger, bus),
		registry:          registry,
		codec:             c,
		log:               logger,
		bus:               bus,
		heartbeatInterval: heartbeatInterval,
	}
}

// ID reports the simulator's fixed component id.
func (s *SimulatorBase) ID() component.ID { return simulatorID }

// Result returns the bus downstream consumers subscribe to for merged
// records. Subscribe before calling Simulate: a subscription made after
// the Merge starts publishing misses any records already sent.
func (s *SimulatorBase) Result() *transport.ResultBus {
	return s.sockets.Result
}

// AddSource declares a data source to be built and run as part of Simulate.
func (s *SimulatorBase) AddSource(spec SourceSpec) {
	s.sources = append(s.sources, spec)
}

// AddTransform declares a transform to be built and run as part of
// Simulate.
func (s *SimulatorBase) AddTransform(spec TransformSpec) {
	s.transforms = append(s.transforms, spec)
}

// Simulate builds every declared source and transform plus the Feed and
// Merge, registers them all with the host, runs every component
// concurrently, and blocks until the simulation completes or fails.
func (s *SimulatorBase) Simulate(ctx context.Context) error {
	sourceIDs := make([]string, 0, len(s.sources))
	for _, spec := range s.sources {
		sourceIDs = append(sourceIDs, spec.ID)
	}
	transformNames := []string{string(component.Passthrough)}
	for _, spec := range s.transforms {
		if spec.Name == string(component.Passthrough) {
			return ziplineerrors.NewValidationError("transform name PASSTHROUGH is reserved", nil)
		}
		transformNames = append(transformNames, spec.Name)
	}
	if err := requireUnique(transformNames); err != nil {
		return err
	}
	if err := requireUnique(sourceIDs); err != nil {
		return err
	}

	feed := internalbuffer.NewFeed(s.sockets, s.codec, sourceIDs, s.log, s.bus)
	merge := internalbuffer.NewMerge(s.sockets, s.codec, transformNames, s.log, s.bus)
	passthrough := internaltransform.NewPassthrough(s.sockets, s.codec)

	components := []plugin.Component{feed, merge, passthrough}

	for _, spec := range s.sources {
		factory, err := s.registry.GetDataSource(spec.Type)
		if err != nil {
			return err
		}
		recordSource, err := factory(spec.ID, spec.Params)
		if err != nil {
			return fmt.Errorf("build data source %q: %w", spec.ID, err)
		}
		components = append(components, internaldatasource.NewBase(spec.ID, spec.Type, recordSource, s.sockets, s.codec))
	}

	for _, spec := range s.transforms {
		factory, err := s.registry.GetTransform(spec.Type)
		if err != nil {
			return err
		}
		fn, err := factory(spec.Params)
		if err != nil {
			return fmt.Errorf("build transform %q: %w", spec.Name, err)
		}
		components = append(components, internaltransform.NewBase(spec.Name, fn, s.sockets, s.codec))
	}

	for _, c := range components {
		if err := s.host.Register(c.ID()); err != nil {
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan error, len(components))
	for _, c := range components {
		c := c
		go func() {
			handle := component.HostHandle{ID: c.ID(), Controller: s.host.Controller()}
			results <- internalcomponent.Run(runCtx, c, handle, s.heartbeatInterval, internalcomponent.NewGoroutineStrategy())
		}()
	}

	hostErr := s.host.Run(runCtx)
	cancel()

	for range components {
		<-results
	}

	return hostErr
}

func requireUnique(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, exists := seen[name]; exists {
			return ziplineerrors.NewDuplicateComponentError(name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
