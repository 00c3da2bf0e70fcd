// Package report aggregates the statistics of completed factory runs.
// It is the reporting side of the engine: ratios, distributions and
// metrics export live here, never inside a run.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jerxma-git/cat-houses-model/sim"
)

// Distribution describes a sample of float64 observations.
type Distribution struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
	Max    float64 `json:"max"`
}

// NewDistribution computes a Distribution over values. The input is not
// modified. An empty input yields the zero Distribution.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	d := Distribution{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.90, stat.Empirical, sorted, nil),
		P99:   stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}
	return d
}

// Summary is the cross-run report.
//
// Throughput, SuccessRate and AcceptanceRate are ratios of the per-run means:
//
//	throughput      = mean accepted / mean total time
//	success rate    = mean accepted / mean planned
//	acceptance rate = mean accepted / (mean accepted + mean rejected)
//
// Each ratio is 0 when its denominator is 0.
type Summary struct {
	Runs           int                `json:"runs"`
	MeanTotalTime  float64            `json:"mean_total_time"`
	MeanAccepted   float64            `json:"mean_accepted"`
	MeanRejected   float64            `json:"mean_rejected"`
	MeanPlanned    float64            `json:"mean_planned"`
	Throughput     float64            `json:"throughput"`
	SuccessRate    float64            `json:"success_rate"`
	AcceptanceRate float64            `json:"acceptance_rate"`
	TotalTime      Distribution       `json:"total_time"`
	Accepted       Distribution       `json:"accepted"`
	Entry          Distribution       `json:"entry"`
	Dwell          Distribution       `json:"dwell"`
	RejectReasons  map[sim.Reason]int `json:"reject_reasons"`
}

// Summarize reduces the statistics of independent runs to a Summary.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(runs []*sim.RunStatistics) Summary {
	s := Summary{RejectReasons: make(map[sim.Reason]int)}
	if len(runs) == 0 {
		return s
	}

	totalTimes := make([]float64, 0, len(runs))
	accepted := make([]float64, 0, len(runs))
	rejected := make([]float64, 0, len(runs))
	planned := make([]float64, 0, len(runs))
	var entries, dwells []float64
	for _, r := range runs {
		if r == nil {
			continue
		}
		totalTimes = append(totalTimes, r.TotalTime)
		accepted = append(accepted, float64(r.Accepted))
		rejected = append(rejected, float64(r.Rejected))
		planned = append(planned, float64(r.PlannedCount))
		for _, sample := range r.Samples {
			if !sample.Entered {
				continue
			}
			entries = append(entries, sample.Entry)
			dwells = append(dwells, sample.Dwell)
		}
		for reason, n := range r.RejectReasons {
			s.RejectReasons[reason] += n
		}
	}
	if len(totalTimes) == 0 {
		return s
	}

	s.Runs = len(totalTimes)
	s.MeanTotalTime = stat.Mean(totalTimes, nil)
	s.MeanAccepted = stat.Mean(accepted, nil)
	s.MeanRejected = stat.Mean(rejected, nil)
	s.MeanPlanned = stat.Mean(planned, nil)
	s.Throughput = ratio(s.MeanAccepted, s.MeanTotalTime)
	s.SuccessRate = ratio(s.MeanAccepted, s.MeanPlanned)
	s.AcceptanceRate = ratio(s.MeanAccepted, s.MeanAccepted+s.MeanRejected)
	s.TotalTime = NewDistribution(totalTimes)
	s.Accepted = NewDistribution(accepted)
	s.Entry = NewDistribution(entries)
	s.Dwell = NewDistribution(dwells)
	return s
}

func ratio(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) {
		return 0
	}
	return num / den
}

// Print writes the summary in the same layout as RunStatistics.Print.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Factory Batch Report ===")
	fmt.Fprintf(w, "Runs                 : %d\n", s.Runs)
	fmt.Fprintf(w, "Avg Total Time       : %.2f (std %.2f, p50 %.2f, p90 %.2f)\n",
		s.MeanTotalTime, s.TotalTime.StdDev, s.TotalTime.P50, s.TotalTime.P90)
	fmt.Fprintf(w, "Avg Accepted         : %.2f\n", s.MeanAccepted)
	fmt.Fprintf(w, "Avg Rejected         : %.2f\n", s.MeanRejected)
	fmt.Fprintf(w, "Avg Planned          : %.2f\n", s.MeanPlanned)
	fmt.Fprintf(w, "Throughput           : %.4f accepted/unit time\n", s.Throughput)
	fmt.Fprintf(w, "Success Rate         : %.2f%%\n", 100*s.SuccessRate)
	fmt.Fprintf(w, "Acceptance Rate      : %.2f%%\n", 100*s.AcceptanceRate)
	if s.Entry.Count > 0 {
		fmt.Fprintf(w, "Entry Time           : mean %.2f, p90 %.2f\n", s.Entry.Mean, s.Entry.P90)
		fmt.Fprintf(w, "Dwell Time           : mean %.2f, p50 %.2f\n", s.Dwell.Mean, s.Dwell.P50)
	}
	for _, r := range sim.Reasons() {
		if n := s.RejectReasons[r]; n > 0 {
			fmt.Fprintf(w, "  %-18s : %d\n", r, n)
		}
	}
}
