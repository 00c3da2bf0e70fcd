package sim

import (
	"fmt"
	"math"
)

// NormalParams parameterizes an unbounded normal draw.
type NormalParams struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

// Sample draws from N(Mean, StdDev).
func (p NormalParams) Sample(rng *RNG) float64 {
	return rng.Normal(p.Mean, p.StdDev)
}

// BoundedNormalParams parameterizes a truncated normal draw on [Min, Max].
type BoundedNormalParams struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// Sample draws from the truncated normal. Fails with *DomainError on bad bounds.
func (p BoundedNormalParams) Sample(rng *RNG) (float64, error) {
	return rng.TruncatedNormal(p.Mean, p.StdDev, p.Min, p.Max)
}

// UniformParams parameterizes a uniform draw on [Low, High).
type UniformParams struct {
	Low  float64 `yaml:"low"`
	High float64 `yaml:"high"`
}

// Sample draws from U(Low, High).
func (p UniformParams) Sample(rng *RNG) float64 {
	return rng.UniformRange(p.Low, p.High)
}

// IntRange parameterizes an integer draw on [Min, Max], both inclusive.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Sample draws an integer in [Min, Max].
func (p IntRange) Sample(rng *RNG) int {
	return rng.RandInt(p.Min, p.Max)
}

// PlanConfig groups production planning parameters.
type PlanConfig struct {
	PlannedCount    int     `yaml:"planned_count"`    // total products to build
	PremiumFraction float64 `yaml:"premium_fraction"` // share of PlannedCount built as premium
}

// QualityGateConfig groups premium-tier minimum qualities. The standard tier
// is never gated. A unit passes a gate when its quality is strictly above it.
type QualityGateConfig struct {
	Wood       float64 `yaml:"wood"`
	Fabric     float64 `yaml:"fabric"`
	Coating    float64 `yaml:"coating"`
	WoodPart   float64 `yaml:"wood_part"`
	FabricPart float64 `yaml:"fabric_part"`
}

// MaterialGate returns the premium gate for raw material m.
func (g QualityGateConfig) MaterialGate(m MaterialKind) float64 {
	if m == MaterialFabric {
		return g.Fabric
	}
	return g.Wood
}

// PartGate returns the premium gate for component kind k.
func (g QualityGateConfig) PartGate(k PartKind) float64 {
	if k.Material() == MaterialFabric {
		return g.FabricPart
	}
	return g.WoodPart
}

// BreakageConfig groups breakage probabilities.
type BreakageConfig struct {
	Wood     float64 `yaml:"wood"`     // per wooden production cycle
	Fabric   float64 `yaml:"fabric"`   // per fabric production cycle
	Assembly float64 `yaml:"assembly"` // per claimed component, per assembly attempt
}

// ForMaterial returns the production breakage probability for material m.
func (b BreakageConfig) ForMaterial(m MaterialKind) float64 {
	if m == MaterialFabric {
		return b.Fabric
	}
	return b.Wood
}

// PoolConfig groups bounded worker pool sizes.
type PoolConfig struct {
	Builders int `yaml:"builders"`
	Testers  int `yaml:"testers"`
}

// TimingConfig groups simulated durations.
type TimingConfig struct {
	Delivery         NormalParams        `yaml:"delivery"`
	WoodProcessing   BoundedNormalParams `yaml:"wood_processing"`
	FabricProcessing BoundedNormalParams `yaml:"fabric_processing"`
	Assembly         IntRange            `yaml:"assembly"`
}

// Processing returns the processing-time parameters for material m.
func (t TimingConfig) Processing(m MaterialKind) BoundedNormalParams {
	if m == MaterialFabric {
		return t.FabricProcessing
	}
	return t.WoodProcessing
}

// QualityDistConfig groups quality distributions. Material and coating
// qualities depend on the tier the unit was ordered for.
type QualityDistConfig struct {
	StandardMaterial BoundedNormalParams `yaml:"standard_material"`
	PremiumMaterial  BoundedNormalParams `yaml:"premium_material"`
	StandardCoating  BoundedNormalParams `yaml:"standard_coating"`
	PremiumCoating   BoundedNormalParams `yaml:"premium_coating"`
	Process          UniformParams       `yaml:"process"`
	StandardBuild    UniformParams       `yaml:"standard_build"`
	PremiumBuild     UniformParams       `yaml:"premium_build"`
}

// Material returns the raw material quality distribution for tier t.
func (q QualityDistConfig) Material(t Tier) BoundedNormalParams {
	if t == TierPremium {
		return q.PremiumMaterial
	}
	return q.StandardMaterial
}

// Coating returns the coating quality distribution for tier t.
func (q QualityDistConfig) Coating(t Tier) BoundedNormalParams {
	if t == TierPremium {
		return q.PremiumCoating
	}
	return q.StandardCoating
}

// Build returns the build quality distribution for tier t.
func (q QualityDistConfig) Build(t Tier) UniformParams {
	if t == TierPremium {
		return q.PremiumBuild
	}
	return q.StandardBuild
}

// AcceptanceConfig groups acceptance test parameters.
type AcceptanceConfig struct {
	MaxTestWindow  float64 `yaml:"max_test_window"`  // hard bound on entry + dwell
	MaxEntryTime   float64 `yaml:"max_entry_time"`   // later draws count as "never entered"
	MinDwellTime   float64 `yaml:"min_dwell_time"`   // shorter stays are rejected
	EntryScale     float64 `yaml:"entry_scale"`      // mean entry delay at zero quality
	QualityCeiling float64 `yaml:"quality_ceiling"`  // quality at which entry is immediate
	DwellBase      float64 `yaml:"dwell_base"`       // mean dwell = DwellBase * composite quality
	DwellStdDev    float64 `yaml:"dwell_std_dev"`
}

// Config is the full factory configuration.
type Config struct {
	Plan       PlanConfig        `yaml:"plan"`
	Gates      QualityGateConfig `yaml:"gates"`
	Breakage   BreakageConfig    `yaml:"breakage"`
	Pools      PoolConfig        `yaml:"pools"`
	Timing     TimingConfig      `yaml:"timing"`
	Quality    QualityDistConfig `yaml:"quality"`
	Acceptance AcceptanceConfig  `yaml:"acceptance"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Plan: PlanConfig{PlannedCount: 100, PremiumFraction: 0.5},
		Gates: QualityGateConfig{
			Wood: 0.7, Fabric: 0.7, Coating: 0.7,
			WoodPart: 0.7, FabricPart: 0.7,
		},
		Breakage: BreakageConfig{Wood: 0.02, Fabric: 0.02, Assembly: 0.02},
		Pools:    PoolConfig{Builders: 4, Testers: 4},
		Timing: TimingConfig{
			Delivery:         NormalParams{Mean: 15, StdDev: 2},
			WoodProcessing:   BoundedNormalParams{Mean: 10, StdDev: 2, Min: 5, Max: 15},
			FabricProcessing: BoundedNormalParams{Mean: 8, StdDev: 1.5, Min: 4, Max: 12},
			Assembly:         IntRange{Min: 10, Max: 20},
		},
		Quality: QualityDistConfig{
			StandardMaterial: BoundedNormalParams{Mean: 0.78, StdDev: 0.08, Min: 0, Max: 1},
			PremiumMaterial:  BoundedNormalParams{Mean: 0.85, StdDev: 0.06, Min: 0, Max: 1},
			StandardCoating:  BoundedNormalParams{Mean: 0.78, StdDev: 0.08, Min: 0, Max: 1},
			PremiumCoating:   BoundedNormalParams{Mean: 0.85, StdDev: 0.06, Min: 0, Max: 1},
			Process:          UniformParams{Low: 0.7, High: 0.9},
			StandardBuild:    UniformParams{Low: 0.7, High: 0.9},
			PremiumBuild:     UniformParams{Low: 0.8, High: 1.0},
		},
		Acceptance: AcceptanceConfig{
			MaxTestWindow:  60,
			MaxEntryTime:   30,
			MinDwellTime:   10,
			EntryScale:     40,
			QualityCeiling: 1.0,
			DwellBase:      40,
			DwellStdDev:    10,
		},
	}
}

// PlannedFor returns the planned product count for tier t.
// Premium is the floor of PlannedCount * PremiumFraction; standard gets the rest.
func (c Config) PlannedFor(t Tier) int {
	premium := int(float64(c.Plan.PlannedCount) * c.Plan.PremiumFraction)
	if t == TierPremium {
		return premium
	}
	return c.Plan.PlannedCount - premium
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// Validate checks every field and returns the first violation found.
func (c Config) Validate() error {
	if c.Plan.PlannedCount < 0 {
		return &ConfigError{"plan.planned_count", "must be >= 0"}
	}
	probabilities := []struct {
		field string
		value float64
	}{
		{"plan.premium_fraction", c.Plan.PremiumFraction},
		{"breakage.wood", c.Breakage.Wood},
		{"breakage.fabric", c.Breakage.Fabric},
		{"breakage.assembly", c.Breakage.Assembly},
	}
	for _, p := range probabilities {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 1 {
			return &ConfigError{p.field, fmt.Sprintf("must be in [0, 1], got %g", p.value)}
		}
	}
	if c.Pools.Builders < 1 {
		return &ConfigError{"pools.builders", "must be >= 1"}
	}
	if c.Pools.Testers < 1 {
		return &ConfigError{"pools.testers", "must be >= 1"}
	}

	if c.Timing.Delivery.StdDev < 0 {
		return &ConfigError{"timing.delivery.std_dev", "must be >= 0"}
	}
	bounded := []struct {
		field string
		p     BoundedNormalParams
	}{
		{"timing.wood_processing", c.Timing.WoodProcessing},
		{"timing.fabric_processing", c.Timing.FabricProcessing},
		{"quality.standard_material", c.Quality.StandardMaterial},
		{"quality.premium_material", c.Quality.PremiumMaterial},
		{"quality.standard_coating", c.Quality.StandardCoating},
		{"quality.premium_coating", c.Quality.PremiumCoating},
	}
	for _, b := range bounded {
		if b.p.Min >= b.p.Max {
			return &ConfigError{b.field, fmt.Sprintf("min %g must be below max %g", b.p.Min, b.p.Max)}
		}
		if b.p.StdDev <= 0 {
			return &ConfigError{b.field + ".std_dev", "must be > 0"}
		}
	}
	// bounded[2:] are the quality distributions
	for _, b := range bounded[2:] {
		if b.p.Min < 0 || b.p.Max > 1 {
			return &ConfigError{b.field, fmt.Sprintf("quality bounds [%g, %g] must lie in [0, 1]", b.p.Min, b.p.Max)}
		}
	}
	if c.Timing.WoodProcessing.Min < 0 || c.Timing.FabricProcessing.Min < 0 {
		return &ConfigError{"timing", "processing times must be >= 0"}
	}
	if c.Timing.Assembly.Min < 0 || c.Timing.Assembly.Min > c.Timing.Assembly.Max {
		return &ConfigError{"timing.assembly", "need 0 <= min <= max"}
	}

	uniforms := []struct {
		field string
		p     UniformParams
	}{
		{"quality.process", c.Quality.Process},
		{"quality.standard_build", c.Quality.StandardBuild},
		{"quality.premium_build", c.Quality.PremiumBuild},
	}
	for _, u := range uniforms {
		if u.p.Low > u.p.High {
			return &ConfigError{u.field, fmt.Sprintf("low %g must not exceed high %g", u.p.Low, u.p.High)}
		}
		if u.p.Low < 0 || u.p.High > 1 {
			return &ConfigError{u.field, fmt.Sprintf("quality range [%g, %g] must lie in [0, 1]", u.p.Low, u.p.High)}
		}
	}

	a := c.Acceptance
	switch {
	case a.MaxTestWindow <= 0:
		return &ConfigError{"acceptance.max_test_window", "must be > 0"}
	case a.MaxEntryTime < 0 || a.MaxEntryTime > a.MaxTestWindow:
		return &ConfigError{"acceptance.max_entry_time", "must be in [0, max_test_window]"}
	case a.MinDwellTime < 0:
		return &ConfigError{"acceptance.min_dwell_time", "must be >= 0"}
	case a.EntryScale < 0:
		return &ConfigError{"acceptance.entry_scale", "must be >= 0"}
	case a.QualityCeiling <= 0:
		return &ConfigError{"acceptance.quality_ceiling", "must be > 0"}
	case a.DwellStdDev < 0:
		return &ConfigError{"acceptance.dwell_std_dev", "must be >= 0"}
	}
	return nil
}
