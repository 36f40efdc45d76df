package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/vitalsim/vitalsim/sim"
	"github.com/vitalsim/vitalsim/sim/ops"
	"github.com/vitalsim/vitalsim/sim/output"
	"github.com/vitalsim/vitalsim/sim/vitals"
)

var (
	// CLI flags
	patientCount string        // Number of patients; kept as a string so a bad value can fall back
	outputSpec   string        // Output spec, e.g. console, file:<dir>, tcp:<port>
	seed         int64         // Master seed for all generator RNG streams
	logLevel     string        // Log verbosity level
	profilePath  string        // Optional YAML vitals profile
	runFor       time.Duration // Stop after this duration; 0 runs until interrupted
	opsAddr      string        // Listen address for the ops endpoint; empty disables it
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vitalsim",
	Short: "Multi-patient vital-signs telemetry simulator",
	Long: `vitalsim continuously synthesizes vital-sign readings (ECG, blood
saturation, blood pressure, blood levels, alerts) for a configurable set of
simulated patients and streams them to the configured output.

Output specs:
  console                  print readings to standard output
  file:<directory>         append readings to one file per label
  tcp:<port>               serve readings to one TCP client at a time
  websocket:<port>         broadcast readings to connected WebSocket clients
  kafka:<brokers>/<topic>  publish readings to a Kafka topic
  mqtt:<url>/<prefix>      publish readings to <prefix>/<patient>/<label>

Example:
  vitalsim --patient-count 100 --output websocket:8080
  This simulates data for 100 patients and streams it to WebSocket clients
  connected on port 8080.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Warnf("Invalid log level %q, using info", logLevel)
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		cfg.PatientCount = ParsePatientCount(patientCount, cfg.PatientCount)
		cfg.Seed = seed

		if profilePath != "" {
			if err := ApplyVitalsProfile(profilePath, &cfg); err != nil {
				logrus.Warnf("Ignoring vitals profile %s: %v", profilePath, err)
			}
		}
		if err := cfg.Validate(); err != nil {
			defaults := sim.DefaultConfig()
			cfg.JitterMax = defaults.JitterMax
			cfg.Vitals = defaults.Vitals
			logrus.Warnf("Invalid configuration (%v), using default vitals", err)
		}

		spec, err := ParseOutputSpec(outputSpec)
		if err != nil {
			logrus.Warnf("%v. Using console output.", err)
			spec = OutputSpec{Kind: OutputConsole}
		}
		snk, err := buildSink(spec)
		if err != nil {
			logrus.Fatalf("Cannot start %s output: %v", spec.Kind, err)
		}

		s := sim.NewSimulator(cfg, snk)
		s.Register(vitals.Generators(cfg.Vitals, cfg.PatientCount, s.RNG())...)

		var opsServer *ops.Server
		if opsAddr != "" {
			opsServer, err = ops.NewServer(opsAddr, s.Status)
			if err != nil {
				logrus.Fatalf("Cannot start ops server: %v", err)
			}
			opsServer.Start()
		}

		s.Start()
		waitForShutdown(runFor)
		s.Stop()

		if opsServer != nil {
			_ = opsServer.Close()
		}
		if err := snk.Close(); err != nil {
			logrus.Warnf("Closing %s output: %v", snk.Name(), err)
		}
	},
}

// ParsePatientCount parses a --patient-count value. Anything that is not a
// positive integer logs a warning and falls back to the given default.
func ParsePatientCount(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		logrus.Warnf("Invalid patient count %q, using default %d", raw, fallback)
		return fallback
	}
	return n
}

// buildSink constructs the sink for a parsed output spec. Errors here are
// the fatal startup cases: a port that cannot bind or a broker that cannot
// be reached.
func buildSink(spec OutputSpec) (sim.Sink, error) {
	switch spec.Kind {
	case OutputConsole:
		return output.NewConsoleSink(os.Stdout), nil
	case OutputFile:
		return output.NewFileSink(spec.Directory), nil
	case OutputTCP:
		return output.NewTCPSink(spec.Port)
	case OutputWebSocket:
		return output.NewWebSocketSink(spec.Port)
	case OutputKafka:
		return output.NewKafkaSink(spec.Brokers, spec.Topic), nil
	case OutputMQTT:
		return output.NewMQTTSink(spec.BrokerURL, spec.Prefix)
	default:
		return nil, fmt.Errorf("unknown output kind %q", spec.Kind)
	}
}

// waitForShutdown blocks until SIGINT/SIGTERM or, when runFor is positive,
// until the duration elapses.
func waitForShutdown(runFor time.Duration) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if runFor > 0 {
		select {
		case sig := <-sigCh:
			logrus.Infof("Received %s, shutting down", sig)
		case <-time.After(runFor):
			logrus.Infof("Run duration %s elapsed, shutting down", runFor)
		}
		return
	}

	sig := <-sigCh
	logrus.Infof("Received %s, shutting down", sig)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags
func init() {
	rootCmd.Flags().StringVar(&patientCount, "patient-count", "50", "Number of patients to simulate data for")
	rootCmd.Flags().StringVar(&outputSpec, "output", "console", "Output spec: console, file:<dir>, tcp:<port>, websocket:<port>, kafka:<brokers>/<topic>, mqtt:<url>/<prefix>")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random data generation (0 derives one from the clock)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.Flags().StringVar(&profilePath, "profile", "", "Path to a YAML vitals profile overriding periods and bounds")
	rootCmd.Flags().DurationVar(&runFor, "run-for", 0, "Stop after this duration (0 runs until interrupted)")
	rootCmd.Flags().StringVar(&opsAddr, "ops-addr", "", "Listen address for health/status/metrics (empty disables)")
}
