package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_PlannedFor_FloorPremium(t *testing.T) {
	tests := []struct {
		total    int
		fraction float64
		premium  int
		standard int
	}{
		{100, 0.5, 50, 50},
		{7, 0.5, 3, 4},
		{1, 0.5, 0, 1},
		{10, 0, 0, 10},
		{10, 1, 10, 0},
		{0, 0.5, 0, 0},
	}
	for _, tc := range tests {
		cfg := DefaultConfig()
		cfg.Plan = PlanConfig{PlannedCount: tc.total, PremiumFraction: tc.fraction}
		assert.Equal(t, tc.premium, cfg.PlannedFor(TierPremium), "total=%d fraction=%g", tc.total, tc.fraction)
		assert.Equal(t, tc.standard, cfg.PlannedFor(TierStandard), "total=%d fraction=%g", tc.total, tc.fraction)
		assert.Equal(t, tc.total, cfg.PlannedFor(TierPremium)+cfg.PlannedFor(TierStandard))
	}
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"negative plan", func(c *Config) { c.Plan.PlannedCount = -1 }, "plan.planned_count"},
		{"fraction above one", func(c *Config) { c.Plan.PremiumFraction = 1.5 }, "plan.premium_fraction"},
		{"negative breakage", func(c *Config) { c.Breakage.Wood = -0.1 }, "breakage.wood"},
		{"assembly breakage above one", func(c *Config) { c.Breakage.Assembly = 2 }, "breakage.assembly"},
		{"no builders", func(c *Config) { c.Pools.Builders = 0 }, "pools.builders"},
		{"no testers", func(c *Config) { c.Pools.Testers = 0 }, "pools.testers"},
		{"inverted processing bounds", func(c *Config) { c.Timing.WoodProcessing.Min = 20 }, "timing.wood_processing"},
		{"zero quality sigma", func(c *Config) { c.Quality.PremiumMaterial.StdDev = 0 }, "quality.premium_material.std_dev"},
		{"inverted assembly range", func(c *Config) { c.Timing.Assembly = IntRange{Min: 5, Max: 1} }, "timing.assembly"},
		{"inverted build range", func(c *Config) { c.Quality.StandardBuild = UniformParams{Low: 1, High: 0} }, "quality.standard_build"},
		{"negative process quality", func(c *Config) { c.Quality.Process = UniformParams{Low: -0.9, High: -0.7} }, "quality.process"},
		{"build quality above one", func(c *Config) { c.Quality.PremiumBuild = UniformParams{Low: 0.8, High: 1.2} }, "quality.premium_build"},
		{"negative material quality floor", func(c *Config) { c.Quality.StandardMaterial.Min = -0.5 }, "quality.standard_material"},
		{"coating quality above one", func(c *Config) { c.Quality.PremiumCoating.Max = 1.5 }, "quality.premium_coating"},
		{"zero test window", func(c *Config) { c.Acceptance.MaxTestWindow = 0 }, "acceptance.max_test_window"},
		{"entry beyond window", func(c *Config) { c.Acceptance.MaxEntryTime = 100 }, "acceptance.max_entry_time"},
		{"zero ceiling", func(c *Config) { c.Acceptance.QualityCeiling = 0 }, "acceptance.quality_ceiling"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "want *ConfigError, got %v", err)
			assert.Equal(t, tc.field, ce.Field)
		})
	}
}

func TestConfig_BoundaryProbabilities_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Breakage = BreakageConfig{Wood: 1, Fabric: 0, Assembly: 1}
	cfg.Plan.PremiumFraction = 0
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Selectors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gates.Wood, cfg.Gates.Fabric = 0.1, 0.2
	cfg.Gates.WoodPart, cfg.Gates.FabricPart = 0.3, 0.4
	cfg.Breakage.Wood, cfg.Breakage.Fabric = 0.5, 0.6

	assert.Equal(t, 0.1, cfg.Gates.MaterialGate(MaterialWood))
	assert.Equal(t, 0.2, cfg.Gates.MaterialGate(MaterialFabric))
	assert.Equal(t, 0.3, cfg.Gates.PartGate(PartWood3))
	assert.Equal(t, 0.4, cfg.Gates.PartGate(PartFabric2))
	assert.Equal(t, 0.5, cfg.Breakage.ForMaterial(MaterialWood))
	assert.Equal(t, 0.6, cfg.Breakage.ForMaterial(MaterialFabric))
	assert.Equal(t, cfg.Timing.FabricProcessing, cfg.Timing.Processing(MaterialFabric))
	assert.Equal(t, cfg.Quality.PremiumBuild, cfg.Quality.Build(TierPremium))
	assert.Equal(t, cfg.Quality.StandardCoating, cfg.Quality.Coating(TierStandard))
}

func TestParams_Sample_WithinBounds(t *testing.T) {
	rng := NewRNG(NewSimulationKey(77))
	cfg := DefaultConfig()
	for i := 0; i < 500; i++ {
		d, err := cfg.Timing.WoodProcessing.Sample(rng)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, d, 5.0)
		assert.LessOrEqual(t, d, 15.0)

		n := cfg.Timing.Assembly.Sample(rng)
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 20)

		q := cfg.Quality.Process.Sample(rng)
		assert.GreaterOrEqual(t, q, 0.7)
		assert.Less(t, q, 0.9)
	}
}
