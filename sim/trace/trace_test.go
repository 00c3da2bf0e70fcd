package trace

import (
	"testing"
)

func TestSimulationTrace_RecordConsumption_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a consumption record is recorded
	st.RecordConsumption(ConsumptionRecord{
		Clock:   17.5,
		Stage:   "manufacturing",
		Tier:    "premium",
		Item:    "wood",
		Quality: 0.91,
	})

	// THEN the trace contains one consumption record with correct data
	if len(st.Consumptions) != 1 {
		t.Fatalf("expected 1 consumption, got %d", len(st.Consumptions))
	}
	if st.Consumptions[0].Item != "wood" {
		t.Errorf("expected item wood, got %s", st.Consumptions[0].Item)
	}
	if st.Consumptions[0].Quality != 0.91 {
		t.Errorf("expected quality 0.91, got %v", st.Consumptions[0].Quality)
	}
}

func TestSimulationTrace_RecordVerdict_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN a verdict record is recorded
	st.RecordVerdict(VerdictRecord{
		Clock:   300,
		Tier:    "standard",
		Tester:  "tester-0",
		Entered: false,
		Verdict: "reject",
		Reason:  "NO_ENTRY",
	})

	// THEN the trace contains one verdict record with correct data
	if len(st.Verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(st.Verdicts))
	}
	if st.Verdicts[0].Reason != "NO_ENTRY" {
		t.Errorf("expected reason NO_ENTRY, got %s", st.Verdicts[0].Reason)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN multiple records are added
	st.RecordAssembly(AssemblyRecord{Clock: 100, Tier: "premium", Builder: "builder-premium-0", Outcome: "SUCCESSFUL", Claimed: 24})
	st.RecordAssembly(AssemblyRecord{Clock: 110, Tier: "premium", Builder: "builder-premium-1", Outcome: "PART_BROKEN", Claimed: 24, Broken: 2})
	st.RecordShortfall(ShortfallRecord{Clock: 90, Stage: "manufacturing", Tier: "standard", Material: "fabric", Unmade: 3})

	// THEN order is preserved within each record kind
	if len(st.Assemblies) != 2 {
		t.Fatalf("expected 2 assemblies, got %d", len(st.Assemblies))
	}
	if st.Assemblies[0].Builder != "builder-premium-0" || st.Assemblies[1].Builder != "builder-premium-1" {
		t.Error("assembly order not preserved")
	}
	if st.Assemblies[1].Broken != 2 {
		t.Errorf("expected 2 broken, got %d", st.Assemblies[1].Broken)
	}
	if len(st.Shortfalls) != 1 {
		t.Fatalf("expected 1 shortfall, got %d", len(st.Shortfalls))
	}
}

func TestSimulationTrace_Enabled(t *testing.T) {
	tests := []struct {
		name string
		st   *SimulationTrace
		want bool
	}{
		{"nil trace", nil, false},
		{"level none", NewSimulationTrace(TraceConfig{Level: TraceLevelNone}), false},
		{"empty level", NewSimulationTrace(TraceConfig{}), false},
		{"decisions", NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions}), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.st.Enabled(); got != tc.want {
				t.Errorf("Enabled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"decisions", true},
		{"", true},
		{"invalid", false},
		{"detailed", false},
	}
	for _, tc := range tests {
		if got := IsValidTraceLevel(tc.level); got != tc.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tc.level, got, tc.valid)
		}
	}
}
