package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_RulesInOrder(t *testing.T) {
	cfg := DefaultConfig().Acceptance
	tests := []struct {
		name    string
		outcome TestOutcome
		verdict Verdict
		reason  Reason
	}{
		{"never entered", TestOutcome{Entered: false}, VerdictReject, ReasonNoEntry},
		{"never entered ignores dwell", TestOutcome{Entered: false, Dwell: 50}, VerdictReject, ReasonNoEntry},
		{"late entry", TestOutcome{Entered: true, Entry: 31, Dwell: 20}, VerdictReject, ReasonLateEntry},
		{"late entry beats quick leave", TestOutcome{Entered: true, Entry: 45, Dwell: 1}, VerdictReject, ReasonLateEntry},
		{"entry at limit is on time", TestOutcome{Entered: true, Entry: 30, Dwell: 10}, VerdictAccept, ReasonAllTestsPassed},
		{"quick leave", TestOutcome{Entered: true, Entry: 5, Dwell: 9.99}, VerdictReject, ReasonQuickLeave},
		{"dwell at minimum passes", TestOutcome{Entered: true, Entry: 0, Dwell: 10}, VerdictAccept, ReasonAllTestsPassed},
		{"long stay", TestOutcome{Entered: true, Entry: 2, Dwell: 40}, VerdictAccept, ReasonAllTestsPassed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, r := Classify(tc.outcome, cfg)
			assert.Equal(t, tc.verdict, v)
			assert.Equal(t, tc.reason, r)
		})
	}
}

func TestTestOutcome_Duration(t *testing.T) {
	cfg := DefaultConfig().Acceptance
	assert.Equal(t, 60.0, TestOutcome{}.Duration(cfg))
	assert.Equal(t, 25.0, TestOutcome{Entered: true, Entry: 5, Dwell: 20}.Duration(cfg))
}

func TestDrawTestOutcome_RespectsWindow(t *testing.T) {
	// GIVEN qualities across the whole range
	cfg := DefaultConfig().Acceptance
	rng := NewRNG(NewSimulationKey(31))

	for i := 0; i < 3000; i++ {
		q := float64(i%101) / 100

		// WHEN an outcome is drawn
		o := DrawTestOutcome(rng, cfg, q)

		// THEN an entered tester arrives in time and entry + dwell fits the window
		if !o.Entered {
			continue
		}
		require.GreaterOrEqual(t, o.Entry, 0.0)
		require.LessOrEqual(t, o.Entry, cfg.MaxEntryTime)
		require.GreaterOrEqual(t, o.Dwell, 0.0)
		require.LessOrEqual(t, o.Entry+o.Dwell, cfg.MaxTestWindow+1e-9)
	}
}

func TestDrawTestOutcome_CeilingQuality_EntersImmediately(t *testing.T) {
	cfg := DefaultConfig().Acceptance
	rng := NewRNG(NewSimulationKey(4))
	for i := 0; i < 100; i++ {
		o := DrawTestOutcome(rng, cfg, cfg.QualityCeiling)
		require.True(t, o.Entered)
		assert.Equal(t, 0.0, o.Entry)
	}
}

func TestDrawTestOutcome_HigherQuality_AcceptedMoreOften(t *testing.T) {
	cfg := DefaultConfig().Acceptance
	rate := func(q float64) float64 {
		rng := NewRNG(NewSimulationKey(99))
		accepted := 0
		n := 2000
		for i := 0; i < n; i++ {
			o := DrawTestOutcome(rng, cfg, q)
			if v, _ := Classify(o, cfg); v == VerdictAccept {
				accepted++
			}
		}
		return float64(accepted) / float64(n)
	}

	low, high := rate(0.3), rate(0.95)
	assert.Less(t, low, 0.6)
	assert.Greater(t, high, 0.95)
}

func TestDrawTestOutcome_LowQuality_SomeNeverEnter(t *testing.T) {
	cfg := DefaultConfig().Acceptance
	rng := NewRNG(NewSimulationKey(8))
	noEntry := 0
	for i := 0; i < 1000; i++ {
		if !DrawTestOutcome(rng, cfg, 0).Entered {
			noEntry++
		}
	}
	// P(Exp(40) > 30) = exp(-0.75) ~ 0.47
	assert.Greater(t, noEntry, 350)
	assert.Less(t, noEntry, 600)
}
