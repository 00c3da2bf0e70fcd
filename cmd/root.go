package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/jerxma-git/cat-houses-model/sim"
	"github.com/jerxma-git/cat-houses-model/sim/report"
	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

var (
	// CLI flags shared by run, batch and config
	configPath   string  // Optional YAML config layered over the defaults
	seed         int64   // Seed for the run (batch: seed of the first replication)
	logLevel     string  // Log verbosity level
	plannedCount int     // Total products to build
	premiumRatio float64 // Share of planned products built as premium
	builders     int     // Builder pool size
	testers      int     // Tester pool size

	// CLI flags for run
	traceLevel string // Decision trace level (none, decisions)
	metricsOut string // Prometheus textfile path
	jsonOut    bool   // Print the RunStatistics record as JSON
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cat-houses-model",
	Short: "Discrete-event simulator for a cat house factory",
}

// runCmd executes one simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one factory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (valid: none, decisions)", traceLevel)
		}

		cfg, err := effectiveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		key := sim.NewSimulationKey(resolveSeed(cmd))

		f, err := sim.NewFactory(cfg, key)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if trace.TraceLevel(traceLevel) == trace.TraceLevelDecisions {
			f.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions})
		}

		startTime := time.Now()
		stats, err := f.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation wall time: %s", time.Since(startTime))

		out := cmd.OutOrStdout()
		if jsonOut {
			if err := writeJSON(out, stats); err != nil {
				logrus.Fatalf("Writing JSON output: %v", err)
			}
		} else {
			stats.Print(out)
		}
		if f.Trace.Enabled() {
			printTraceSummary(out, trace.Summarize(f.Trace))
		}

		if metricsOut != "" {
			if err := report.WriteTextfile(metricsOut, report.Summarize([]*sim.RunStatistics{stats})); err != nil {
				logrus.Fatalf("Writing metrics to %s: %v", metricsOut, err)
			}
			logrus.Infof("Metrics written to %s", metricsOut)
		}

		logrus.Info("Simulation complete.")
	},
}

// setupLogging applies the --log flag to the package-level logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// resolveSeed returns --seed when given, otherwise a time-derived seed.
func resolveSeed(cmd *cobra.Command) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	s := sim.TimeSeed()
	logrus.Infof("No --seed given, using time-derived seed %d", s)
	return s
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerConfigFlags adds the config file and override flags to c.
func registerConfigFlags(c *cobra.Command) {
	defaults := sim.DefaultConfig()
	c.Flags().StringVar(&configPath, "config", "", "Path to a YAML config layered over the built-in defaults")
	c.Flags().IntVar(&plannedCount, "planned", defaults.Plan.PlannedCount, "Total number of products to build")
	c.Flags().Float64Var(&premiumRatio, "premium-ratio", defaults.Plan.PremiumFraction, "Fraction of planned products built as premium")
	c.Flags().IntVar(&builders, "builders", defaults.Pools.Builders, "Number of concurrent builders")
	c.Flags().IntVar(&testers, "testers", defaults.Pools.Testers, "Number of concurrent testers")
}

// registerRunFlags adds the seed and logging flags to c.
func registerRunFlags(c *cobra.Command) {
	c.Flags().Int64Var(&seed, "seed", 0, "Seed for the random provider (default: derived from the current time)")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	registerConfigFlags(runCmd)
	registerRunFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write run metrics as a Prometheus textfile to this path")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run statistics as JSON")

	registerConfigFlags(batchCmd)
	registerRunFlags(batchCmd)
	batchCmd.Flags().IntVar(&batchRuns, "runs", 10, "Number of replications")
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "Maximum replications simulated concurrently")
	batchCmd.Flags().StringVar(&ledgerKind, "ledger", "memory", "Run ledger backend (memory, sqlite)")
	batchCmd.Flags().StringVar(&batchMetricsOut, "metrics-out", "", "Write batch metrics as a Prometheus textfile to this path")

	registerConfigFlags(configCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
}
