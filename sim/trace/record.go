// Package trace provides decision-trace recording for factory runs.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ConsumptionRecord captures one unit removed from an inventory for good:
// a raw material or coating eaten by a production cycle, or a component
// embedded in a committed product.
type ConsumptionRecord struct {
	Clock   float64
	Stage   string // "manufacturing" or "assembly"
	Tier    string
	Item    string // material kind, "coating", or component kind
	Quality float64
}

// ShortfallRecord captures demand left unmade when inputs ran out.
type ShortfallRecord struct {
	Clock    float64
	Stage    string
	Tier     string
	Material string // empty for assembly shortfalls
	Unmade   int
}

// AssemblyRecord captures one assembly attempt.
type AssemblyRecord struct {
	Clock   float64
	Tier    string
	Builder string
	Outcome string
	Claimed int
	Broken  int
}

// VerdictRecord captures one acceptance test.
type VerdictRecord struct {
	Clock            float64
	Tier             string
	Tester           string
	CompositeQuality float64
	Entered          bool
	Entry            float64
	Dwell            float64
	Verdict          string
	Reason           string
}
