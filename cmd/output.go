package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	sim "github.com/jerxma-git/cat-houses-model/sim"
	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

// writeJSON prints the run statistics record as indented JSON.
func writeJSON(w io.Writer, stats *sim.RunStatistics) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run statistics: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printTraceSummary prints the aggregate of a decision trace.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace Summary ===")
	fmt.Fprintf(w, "Consumptions         : %d\n", s.TotalConsumptions)
	for _, item := range sortedKeys(s.ConsumedByItem) {
		fmt.Fprintf(w, "  %-18s : %d\n", item, s.ConsumedByItem[item])
	}
	for _, tier := range sortedKeys(s.MinQualityByTier) {
		fmt.Fprintf(w, "Min quality %-8s : %.4f\n", tier, s.MinQualityByTier[tier])
	}
	fmt.Fprintf(w, "Shortfall (unmade)   : %d\n", s.TotalShortfall)
	for _, outcome := range sortedKeys(s.AssemblyOutcomes) {
		fmt.Fprintf(w, "Assembly %-11s : %d\n", outcome, s.AssemblyOutcomes[outcome])
	}
	fmt.Fprintf(w, "Verdicts             : accepted=%d rejected=%d\n", s.AcceptedCount, s.RejectedCount)
	for _, reason := range sortedKeys(s.RejectReasons) {
		fmt.Fprintf(w, "  %-18s : %d\n", reason, s.RejectReasons[reason])
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
