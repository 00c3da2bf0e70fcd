package trace

import "testing"

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	// GIVEN no trace at all
	// WHEN summarized
	summary := Summarize(nil)

	// THEN all counts are zero and maps are usable
	if summary.TotalConsumptions != 0 || summary.TotalShortfall != 0 {
		t.Error("expected zero consumptions and shortfall")
	}
	if summary.AcceptedCount != 0 || summary.RejectedCount != 0 {
		t.Error("expected 0 accepted and rejected")
	}
	if len(summary.RejectReasons) != 0 {
		t.Error("expected empty reject reasons")
	}
}

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalConsumptions != 0 {
		t.Errorf("expected 0 consumptions, got %d", summary.TotalConsumptions)
	}
	if len(summary.ConsumedByItem) != 0 || len(summary.MinQualityByTier) != 0 {
		t.Error("expected empty consumption maps")
	}
	if len(summary.AssemblyOutcomes) != 0 {
		t.Error("expected empty assembly outcomes")
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed verdicts and assembly outcomes
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordVerdict(VerdictRecord{Verdict: "accept", Reason: "ALL_TESTS_PASSED"})
	st.RecordVerdict(VerdictRecord{Verdict: "reject", Reason: "NO_ENTRY"})
	st.RecordVerdict(VerdictRecord{Verdict: "reject", Reason: "QUICK_LEAVE"})
	st.RecordVerdict(VerdictRecord{Verdict: "reject", Reason: "NO_ENTRY"})
	st.RecordAssembly(AssemblyRecord{Outcome: "SUCCESSFUL"})
	st.RecordAssembly(AssemblyRecord{Outcome: "SUCCESSFUL"})
	st.RecordAssembly(AssemblyRecord{Outcome: "INSUFFICIENT"})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.AcceptedCount != 1 {
		t.Errorf("expected 1 accepted, got %d", summary.AcceptedCount)
	}
	if summary.RejectedCount != 3 {
		t.Errorf("expected 3 rejected, got %d", summary.RejectedCount)
	}
	if summary.RejectReasons["NO_ENTRY"] != 2 {
		t.Errorf("expected 2 NO_ENTRY, got %d", summary.RejectReasons["NO_ENTRY"])
	}
	if summary.AssemblyOutcomes["SUCCESSFUL"] != 2 || summary.AssemblyOutcomes["INSUFFICIENT"] != 1 {
		t.Errorf("unexpected assembly outcomes %v", summary.AssemblyOutcomes)
	}
}

func TestSummarize_Consumptions_MinQualityPerTier(t *testing.T) {
	// GIVEN consumptions with known qualities across tiers
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordConsumption(ConsumptionRecord{Tier: "premium", Item: "wood", Quality: 0.9})
	st.RecordConsumption(ConsumptionRecord{Tier: "premium", Item: "coating", Quality: 0.75})
	st.RecordConsumption(ConsumptionRecord{Tier: "standard", Item: "wood", Quality: 0.4})

	// WHEN summarized
	summary := Summarize(st)

	// THEN the minimum is tracked per tier and items are counted
	if summary.MinQualityByTier["premium"] != 0.75 {
		t.Errorf("expected premium min 0.75, got %v", summary.MinQualityByTier["premium"])
	}
	if summary.MinQualityByTier["standard"] != 0.4 {
		t.Errorf("expected standard min 0.4, got %v", summary.MinQualityByTier["standard"])
	}
	if summary.ConsumedByItem["wood"] != 2 {
		t.Errorf("expected 2 wood consumed, got %d", summary.ConsumedByItem["wood"])
	}
	if summary.TotalConsumptions != 3 {
		t.Errorf("expected 3 consumptions, got %d", summary.TotalConsumptions)
	}
}

func TestSummarize_Shortfalls_Summed(t *testing.T) {
	// GIVEN two shortfall records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordShortfall(ShortfallRecord{Material: "wood", Unmade: 4})
	st.RecordShortfall(ShortfallRecord{Material: "fabric", Unmade: 1})

	// WHEN summarized
	summary := Summarize(st)

	// THEN the shortfall is the sum of unmade units
	if summary.TotalShortfall != 5 {
		t.Errorf("expected total shortfall 5, got %d", summary.TotalShortfall)
	}
}
