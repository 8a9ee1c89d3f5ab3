// Command ziplined runs a zipline simulation topology to completion.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	_ "github.com/neosb/zipline/internal/datasource"
	_ "github.com/neosb/zipline/internal/transform"

	"github.com/neosb/zipline/internal/codec"
	"github.com/neosb/zipline/internal/config"
	"github.com/neosb/zipline/internal/events"
	"github.com/neosb/zipline/internal/host"
	"github.com/neosb/zipline/internal/logger"
	"github.com/neosb/zipline/internal/metrics"
	"github.com/neosb/zipline/internal/plugin"
	"github.com/neosb/zipline/internal/tracing"
	ziplineerrors "github.com/neosb/zipline/pkg/zipline/v1/errors"
	ziplinelog "github.com/neosb/zipline/pkg/zipline/v1/log"
)

const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitUsageError      = 2
	ExitSigIntBase      = 128
	ExitSigInt          = ExitSigIntBase + int(syscall.SIGINT)
	ExitSigTerm         = ExitSigIntBase + int(syscall.SIGTERM)
	DefaultLogLevel     = "info"
	DefaultLogFmt       = "text"
	DefaultEventBusSize = 256
	DefaultPollInterval = 50 * time.Millisecond
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "validate" {
		runValidateCommand(os.Args[2:])
		return
	}
	if len(os.Args) == 2 && (os.Args[1] == "--version" || os.Args[1] == "-version") {
		printVersion()
		os.Exit(ExitSuccess)
	}
	os.Exit(runSimulateCommand(os.Args[1:]))
}

func printVersion() {
	fmt.Printf("ziplined version %s\n", version)
	fmt.Printf("commit: %s\n", commit)
	fmt.Printf("go version: %s\n", runtime.Version())
	fmt.Printf("os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func runValidateCommand(args []string) {
	flags := flag.NewFlagSet("validate", flag.ExitOnError)
	topologyPath := flags.String("topology", "", "Path to the topology YAML file to validate (required)")
	logLevel := flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate -topology <path> [flags...]\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		os.Exit(ExitUsageError)
	}
	if *topologyPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -topology flag is required")
		flags.Usage()
		os.Exit(ExitUsageError)
	}

	log := logger.NewLogger(*logLevel, "text", os.Stderr)
	log.Infof("Validating topology: %s", *topologyPath)

	if _, err := config.LoadTopologyFromFile(*topologyPath); err != nil {
		var validationErr *ziplineerrors.ValidationError
		var configErr *ziplineerrors.ConfigError
		switch {
		case errors.As(err, &validationErr):
			log.Errorf("Topology validation failed:\n%s", validationErr.Error())
		case errors.As(err, &configErr):
			log.Errorf("Topology configuration error:\n%s", configErr.Error())
		default:
			log.Errorf("Failed to load or validate topology: %v", err)
		}
		os.Exit(ExitFailure)
	}

	log.Infof("Topology validation successful: %s", *topologyPath)
	os.Exit(ExitSuccess)
}

func runSimulateCommand(args []string) int {
	flags := flag.NewFlagSet("ziplined", flag.ExitOnError)
	topologyPath := flags.String("topology", "", "Path to the topology YAML file (required)")
	logLevel := flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	logFormat := flags.String("log-format", DefaultLogFmt, "Log format (text, json)")
	heartbeatInterval := flags.Duration("heartbeat-interval", 100*time.Millisecond, "Interval at which running components report liveness")
	versionFlag := flags.Bool("version", false, "Print version information and exit")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags...] -topology <path>\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return ExitUsageError
	}
	if *versionFlag {
		printVersion()
		return ExitSuccess
	}
	if *topologyPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -topology flag is required")
		flags.Usage()
		return ExitUsageError
	}
	if *logFormat != "text" && *logFormat != "json" {
		fmt.Fprintln(os.Stderr, "Error: -log-format must be 'text' or 'json'")
		return ExitUsageError
	}

	var logWriter io.Writer = os.Stderr
	log := logger.NewLogger(*logLevel, *logFormat, logWriter)
	log = log.With("zipline_version", version)

	log.Infof("Loading topology: %s", *topologyPath)
	topo, err := config.LoadTopologyFromFile(*topologyPath)
	if err != nil {
		log.Errorf("Failed to load topology '%s': %v", *topologyPath, err)
		return ExitFailure
	}

	eventBus := events.NewChannelEventBus(DefaultEventBusSize, log)
	defer eventBus.Close()
	metricsProvider := metrics.NewPrometheusRegistryProvider()
	counters := metrics.RegisterSimulatorCounters(metricsProvider.Registry())

	tracerProvider, err := tracing.NewProviderFromEnv(context.Background())
	if err != nil {
		log.Warnf("Failed to initialize tracing from environment: %v. Using NoOp tracer.", err)
		tracerProvider, _ = tracing.NewNoOpProvider()
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	listener := events.NewMetricsEventListener(eventBus, counters.ComponentTimeouts, counters.MergeRecordsEmitted, counters.FeedEventsEmitted, log)
	go listener.Start(runCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var receivedSignal os.Signal
	var sigMu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case sig := <-sigChan:
			log.Warnf("Received signal: %v. Initiating graceful shutdown...", sig)
			sigMu.Lock()
			receivedSignal = sig
			sigMu.Unlock()
			cancelRun()
		case <-runCtx.Done():
		}
	}()
	defer wg.Wait()

	sim := host.NewSimulatorBase(
		topo.GetEventBufferSize(),
		topo.GetHeartbeatTimeout(),
		DefaultPollInterval,
		*heartbeatInterval,
		plugin.DefaultStaticRegistryGetter,
		codec.NewJSONCodec(),
		log,
		eventBus,
	)
	for _, src := range topo.Sources {
		sim.AddSource(host.SourceSpec{ID: src.ID, Type: src.Type, Params: src.Params})
	}
	for _, tr := range topo.Transforms {
		sim.AddTransform(host.TransformSpec{Name: tr.Name, Type: tr.Type, Params: tr.Params})
	}

	drain := make(chan struct{})
	go func() {
		defer close(drain)
		for range sim.Result().Subscribe("ziplined-stdout") {
			// Consume the result stream; ziplined itself does not persist
			// merged records, leaving that to downstream tooling.
		}
	}()

	log.Infof("Starting simulation...")
	simErr := sim.Simulate(runCtx)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if shutdownErr := tracerProvider.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warnf("Error shutting down tracer provider: %v", shutdownErr)
	}

	printSummary(log, simErr)

	sigMu.Lock()
	finalSignal := receivedSignal
	sigMu.Unlock()
	return determineExitCode(simErr, finalSignal, log)
}

func printSummary(log ziplinelog.Logger, simErr error) {
	if simErr != nil {
		logExecutionErrorReason(log, simErr)
		return
	}
	log.Infof("Simulation completed successfully.")
}

func logExecutionErrorReason(log ziplinelog.Logger, execErr error) {
	switch {
	case errors.Is(execErr, context.Canceled):
		log.Warnf("Simulation reason: cancelled.")
	case errors.Is(execErr, context.DeadlineExceeded):
		log.Errorf("Simulation reason: timeout.")
	case ziplineerrors.IsTimedOut(execErr):
		log.Errorf("Simulation reason: a component stopped reporting liveness: %v", execErr)
	default:
		log.Errorf("Simulation error: %v", execErr)
	}
}

func determineExitCode(execErr error, sig os.Signal, log ziplinelog.Logger) int {
	if execErr == nil {
		return ExitSuccess
	}
	if errors.Is(execErr, context.Canceled) && sig != nil {
		switch sig {
		case syscall.SIGINT:
			log.Warnf("Simulation interrupted by signal: SIGINT")
			return ExitSigInt
		case syscall.SIGTERM:
			log.Warnf("Simulation terminated by signal: SIGTERM")
			return ExitSigTerm
		}
	}
	return ExitFailure
}
