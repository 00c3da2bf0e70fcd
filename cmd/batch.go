package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sim "github.com/jerxma-git/cat-houses-model/sim"
	"github.com/jerxma-git/cat-houses-model/sim/ledger"
	"github.com/jerxma-git/cat-houses-model/sim/report"
)

var (
	// CLI flags for batch
	batchRuns       int    // Number of replications
	batchParallel   int    // Maximum concurrent replications
	ledgerKind      string // Ledger backend
	batchMetricsOut string // Prometheus textfile path
)

// batchCmd runs independent replications with consecutive seeds and reports the aggregate
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run independent replications and print the aggregate report",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if batchRuns < 1 {
			logrus.Fatalf("--runs must be >= 1, got %d", batchRuns)
		}
		cfg, err := effectiveConfig(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		l, err := ledger.Open(ledgerKind)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer l.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		seeds := batchSeeds(resolveSeed(cmd), batchRuns)
		logrus.Infof("Starting batch: runs=%d first seed=%d parallel=%d ledger=%s",
			batchRuns, seeds[0], batchParallel, ledgerKind)

		if err := runBatch(ctx, cfg, seeds, batchParallel, l); err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}

		summary, err := summarizeLedger(ctx, cmd.OutOrStdout(), l)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if batchMetricsOut != "" {
			if err := report.WriteTextfile(batchMetricsOut, summary); err != nil {
				logrus.Fatalf("Writing metrics to %s: %v", batchMetricsOut, err)
			}
			logrus.Infof("Metrics written to %s", batchMetricsOut)
		}

		logrus.Info("Batch complete.")
	},
}

// batchSeeds returns n consecutive seeds starting at first.
func batchSeeds(first int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = first + int64(i)
	}
	return seeds
}

// runBatch simulates one Factory per seed, at most parallel at a time, and
// records every result in l. The first failing run cancels the rest.
func runBatch(ctx context.Context, cfg sim.Config, seeds []int64, parallel int, l ledger.Ledger) error {
	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for _, s := range seeds {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats, err := sim.Simulate(cfg, sim.NewSimulationKey(s))
			if err != nil {
				return err
			}
			if err := l.Record(ctx, stats); err != nil {
				return fmt.Errorf("recording seed %d: %w", s, err)
			}
			logrus.Debugf("Run seed=%d done: accepted=%d rejected=%d", s, stats.Accepted, stats.Rejected)
			return nil
		})
	}
	return g.Wait()
}

// summarizeLedger prints the aggregate report and the ledger totals, and
// returns the report for metrics export.
func summarizeLedger(ctx context.Context, w io.Writer, l ledger.Ledger) (report.Summary, error) {
	runs, err := l.Runs(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("reading ledger: %w", err)
	}
	totals, err := l.Totals(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("reading ledger totals: %w", err)
	}
	summary := report.Summarize(runs)
	summary.Print(w)
	fmt.Fprintln(w, "--- Ledger Totals ---")
	fmt.Fprintf(w, "Runs                 : %d\n", totals.Runs)
	fmt.Fprintf(w, "Planned              : %d\n", totals.Planned)
	fmt.Fprintf(w, "Built                : %d\n", totals.Built)
	fmt.Fprintf(w, "Accepted             : %d\n", totals.Accepted)
	fmt.Fprintf(w, "Rejected             : %d\n", totals.Rejected)
	return summary, nil
}
