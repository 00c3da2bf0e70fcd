package trace

import "math"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalConsumptions int
	ConsumedByItem    map[string]int     // item → units consumed
	MinQualityByTier  map[string]float64 // tier → lowest quality consumed for that tier
	TotalShortfall    int
	AssemblyOutcomes  map[string]int // outcome → attempts
	AcceptedCount     int
	RejectedCount     int
	RejectReasons     map[string]int // reason → rejected products
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ConsumedByItem:   make(map[string]int),
		MinQualityByTier: make(map[string]float64),
		AssemblyOutcomes: make(map[string]int),
		RejectReasons:    make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalConsumptions = len(st.Consumptions)
	for _, c := range st.Consumptions {
		summary.ConsumedByItem[c.Item]++
		low, seen := summary.MinQualityByTier[c.Tier]
		if !seen {
			low = math.Inf(1)
		}
		summary.MinQualityByTier[c.Tier] = math.Min(low, c.Quality)
	}

	for _, s := range st.Shortfalls {
		summary.TotalShortfall += s.Unmade
	}

	for _, a := range st.Assemblies {
		summary.AssemblyOutcomes[a.Outcome]++
	}

	for _, v := range st.Verdicts {
		if v.Verdict == "accept" {
			summary.AcceptedCount++
		} else {
			summary.RejectedCount++
			summary.RejectReasons[v.Reason]++
		}
	}

	return summary
}
