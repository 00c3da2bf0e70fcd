package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/jerxma-git/cat-houses-model/sim"
	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

func TestWriteJSON_DecodesToSameRecord(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.Plan.PlannedCount = 5
	stats, err := sim.Simulate(cfg, sim.NewSimulationKey(21))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, stats))

	var got sim.RunStatistics
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, *stats, got)
}

func TestPrintTraceSummary_SortedSections(t *testing.T) {
	// GIVEN a summary with several items and reasons
	s := &trace.TraceSummary{
		TotalConsumptions: 3,
		ConsumedByItem:    map[string]int{"wood": 2, "coating": 1},
		MinQualityByTier:  map[string]float64{"premium": 0.75},
		TotalShortfall:    4,
		AssemblyOutcomes:  map[string]int{"SUCCESSFUL": 1},
		AcceptedCount:     1,
		RejectedCount:     2,
		RejectReasons:     map[string]int{"QUICK_LEAVE": 1, "NO_ENTRY": 1},
	}

	// WHEN printed
	var out bytes.Buffer
	printTraceSummary(&out, s)
	text := out.String()

	// THEN keys appear in sorted order with their counts
	assert.Contains(t, text, "Shortfall (unmade)   : 4")
	assert.Contains(t, text, "Verdicts             : accepted=1 rejected=2")
	assert.Less(t, strings.Index(text, "coating"), strings.Index(text, "wood"))
	assert.Less(t, strings.Index(text, "NO_ENTRY"), strings.Index(text, "QUICK_LEAVE"))
}
