// Tracks per-run factory statistics such as phase durations, inventory flows,
// assembly outcomes and acceptance verdicts.

package sim

import (
	"fmt"
	"io"
)

// FlowCoating is the flow key for coatings; raw materials use their kind.
const FlowCoating = "coating"

// PhaseDurations holds virtual time spent in each stage.
type PhaseDurations struct {
	Supply        float64          `json:"supply"`
	Manufacturing map[Tier]float64 `json:"manufacturing"`
	Assembly      map[Tier]float64 `json:"assembly"`
	Testing       float64          `json:"testing"`
}

// InventoryFlow tracks a raw inventory over the run.
// Delivered == Consumed + Remaining holds at the end of every run.
type InventoryFlow struct {
	Delivered int `json:"delivered"`
	Consumed  int `json:"consumed"`
	Remaining int `json:"remaining"`
}

// ComponentFlow tracks one component kind over the run.
// Made == Embedded + Broken + Remaining holds at the end of every run.
type ComponentFlow struct {
	Made      int `json:"made"`
	Embedded  int `json:"embedded"`
	Broken    int `json:"broken"`
	Remaining int `json:"remaining"`
}

// TestSample is the acceptance observation of one product.
type TestSample struct {
	Tier Tier `json:"tier"`
	TestOutcome
}

// RunStatistics is the immutable record of one completed run.
type RunStatistics struct {
	Seed          SimulationKey  `json:"seed"`
	PlannedCount  int            `json:"planned_count"`
	Planned       map[Tier]int   `json:"planned"`
	Built         map[Tier]int   `json:"built"`
	Phases        PhaseDurations `json:"phases"`
	TotalTime     float64        `json:"total_time"`
	Accepted      int            `json:"accepted"`
	Rejected      int            `json:"rejected"`
	RejectReasons map[Reason]int `json:"reject_reasons"`
	Samples       []TestSample   `json:"samples"`

	Manufacturing []ManufacturingResult      `json:"manufacturing"`
	Assembly      map[Tier]AssemblyResult    `json:"assembly"`
	Flows         map[string]InventoryFlow   `json:"flows"`
	Components    map[PartKind]ComponentFlow `json:"components"`
}

func newRunStatistics(cfg Config, key SimulationKey) *RunStatistics {
	s := &RunStatistics{
		Seed:         key,
		PlannedCount: cfg.Plan.PlannedCount,
		Planned:      make(map[Tier]int),
		Built:        make(map[Tier]int),
		Phases: PhaseDurations{
			Manufacturing: make(map[Tier]float64),
			Assembly:      make(map[Tier]float64),
		},
		RejectReasons: make(map[Reason]int),
		Samples:       make([]TestSample, 0, cfg.Plan.PlannedCount),
		Assembly:      make(map[Tier]AssemblyResult),
		Flows:         make(map[string]InventoryFlow),
		Components:    make(map[PartKind]ComponentFlow),
	}
	for _, t := range Tiers() {
		s.Planned[t] = cfg.PlannedFor(t)
	}
	return s
}

func (s *RunStatistics) addDelivered(flow string, n int) {
	f := s.Flows[flow]
	f.Delivered += n
	s.Flows[flow] = f
}

func (s *RunStatistics) addConsumed(flow string, n int) {
	f := s.Flows[flow]
	f.Consumed += n
	s.Flows[flow] = f
}

func (s *RunStatistics) addComponentMade(k PartKind) {
	c := s.Components[k]
	c.Made++
	s.Components[k] = c
}

func (s *RunStatistics) addComponentEmbedded(k PartKind) {
	c := s.Components[k]
	c.Embedded++
	s.Components[k] = c
}

func (s *RunStatistics) addComponentBroken(k PartKind) {
	c := s.Components[k]
	c.Broken++
	s.Components[k] = c
}

func (s *RunStatistics) addSample(t Tier, o TestOutcome) {
	s.Samples = append(s.Samples, TestSample{Tier: t, TestOutcome: o})
	if o.Verdict == VerdictAccept {
		s.Accepted++
		return
	}
	s.Rejected++
	s.RejectReasons[o.Reason]++
}

// TotalBuilt returns the number of committed products across tiers.
func (s *RunStatistics) TotalBuilt() int {
	total := 0
	for _, n := range s.Built {
		total += n
	}
	return total
}

// Throughput is accepted products per unit of virtual time, 0 for an empty run.
func (s *RunStatistics) Throughput() float64 {
	if s.TotalTime <= 0 {
		return 0
	}
	return float64(s.Accepted) / s.TotalTime
}

// SuccessRate is accepted products over planned products, 0 when nothing was planned.
func (s *RunStatistics) SuccessRate() float64 {
	if s.PlannedCount == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.PlannedCount)
}

// AcceptanceRate is accepted products over tested products, 0 when nothing was tested.
func (s *RunStatistics) AcceptanceRate() float64 {
	tested := s.Accepted + s.Rejected
	if tested == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(tested)
}

// Print writes a human-readable summary of the run.
func (s *RunStatistics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Factory Run Statistics ===")
	fmt.Fprintf(w, "Seed                 : %d\n", s.Seed)
	fmt.Fprintf(w, "Planned              : %d (premium=%d, standard=%d)\n",
		s.PlannedCount, s.Planned[TierPremium], s.Planned[TierStandard])
	fmt.Fprintf(w, "Built                : %d (premium=%d, standard=%d)\n",
		s.TotalBuilt(), s.Built[TierPremium], s.Built[TierStandard])
	fmt.Fprintf(w, "Accepted             : %d\n", s.Accepted)
	fmt.Fprintf(w, "Rejected             : %d\n", s.Rejected)
	for _, r := range Reasons() {
		if n := s.RejectReasons[r]; n > 0 {
			fmt.Fprintf(w, "  %-18s : %d\n", r, n)
		}
	}
	fmt.Fprintf(w, "Total Time           : %.2f\n", s.TotalTime)
	fmt.Fprintf(w, "  supply             : %.2f\n", s.Phases.Supply)
	for _, t := range Tiers() {
		fmt.Fprintf(w, "  manufacturing %-8s: %.2f\n", t, s.Phases.Manufacturing[t])
	}
	for _, t := range Tiers() {
		fmt.Fprintf(w, "  assembly %-13s: %.2f\n", t, s.Phases.Assembly[t])
	}
	fmt.Fprintf(w, "  testing            : %.2f\n", s.Phases.Testing)
	fmt.Fprintf(w, "Throughput           : %.4f accepted/unit time\n", s.Throughput())
	fmt.Fprintf(w, "Success Rate         : %.2f%%\n", 100*s.SuccessRate())

	fmt.Fprintln(w, "--- Inventory ---")
	for _, name := range []string{string(MaterialWood), string(MaterialFabric), FlowCoating} {
		f := s.Flows[name]
		fmt.Fprintf(w, "%-8s delivered=%d consumed=%d remaining=%d\n", name, f.Delivered, f.Consumed, f.Remaining)
	}
	for _, k := range PartKinds() {
		c := s.Components[k]
		fmt.Fprintf(w, "%-8s made=%d embedded=%d broken=%d remaining=%d\n", k, c.Made, c.Embedded, c.Broken, c.Remaining)
	}
}
