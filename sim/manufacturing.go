package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

// ManufacturingResult summarizes one (material, tier) manufacturing process.
type ManufacturingResult struct {
	Material MaterialKind `json:"material"`
	Tier     Tier         `json:"tier"`
	Planned  int          `json:"planned"`
	Made     int          `json:"made"`
	Attempts int          `json:"attempts"`
	Broken   int          `json:"broken"`
}

// Shortfall is the number of planned components that were never made.
func (r ManufacturingResult) Shortfall() int {
	return r.Planned - r.Made
}

// manufacture returns the process turning material m into the components the
// tier's plan demands. Demand is the tier's per-product part list repeated
// once per planned product. Each demanded component is retried after breakage
// until it is made or the eligible inputs run out; in the latter case the
// remaining demand is abandoned and logged.
func (f *Factory) manufacture(m MaterialKind, tier Tier) ProcessFunc {
	return func(p *Process) error {
		spec := SpecFor(tier)
		planned := f.Config.PlannedFor(tier)
		perProduct := spec.PartListFor(m)
		demand := make([]PartKind, 0, len(perProduct)*planned)
		for i := 0; i < planned; i++ {
			demand = append(demand, perProduct...)
		}

		result := ManufacturingResult{Material: m, Tier: tier, Planned: len(demand)}
		logrus.Infof("[t=%.3f] Manufacturing %d %s components for %s products", p.Now(), len(demand), m, tier)

	demandLoop:
		for _, kind := range demand {
			for {
				if !f.hasInputsFor(m, tier) {
					break demandLoop
				}
				made, err := f.produceComponent(p, kind, tier)
				if err != nil {
					return err
				}
				result.Attempts++
				if made {
					result.Made++
					break
				}
				result.Broken++
			}
		}

		if unmade := result.Shortfall(); unmade > 0 {
			logrus.Warnf("[t=%.3f] Not enough %s material for %s components: %d of %d unmade",
				p.Now(), m, tier, unmade, result.Planned)
			if f.Trace.Enabled() {
				f.Trace.RecordShortfall(trace.ShortfallRecord{
					Clock:    p.Now(),
					Stage:    "manufacturing",
					Tier:     string(tier),
					Material: string(m),
					Unmade:   unmade,
				})
			}
		}
		logrus.Infof("[t=%.3f] Manufacturing of %s for %s finished: made=%d broken=%d",
			p.Now(), m, tier, result.Made, result.Broken)
		f.stats.Manufacturing = append(f.stats.Manufacturing, result)
		return nil
	}
}

// hasInputsFor reports whether a production cycle for material m can start.
// Premium cycles need both the best raw unit and the best coating strictly
// above their gates; standard cycles only need both inventories non-empty.
func (f *Factory) hasInputsFor(m MaterialKind, tier Tier) bool {
	gated := tier == TierPremium
	gates := f.Config.Gates
	return f.rawMaterials[m].HasAbove(gated, gates.MaterialGate(m)) &&
		f.coatings.HasAbove(gated, gates.Coating)
}

// produceComponent runs one production cycle. The best raw unit and the best
// coating are consumed before processing starts and are lost if the cycle
// breaks. made is false on breakage.
func (f *Factory) produceComponent(p *Process, kind PartKind, tier Tier) (made bool, err error) {
	m := kind.Material()
	raw, err := f.rawMaterials[m].RemoveMax()
	if err != nil {
		return false, fmt.Errorf("take %s: %w", m, err)
	}
	coating, err := f.coatings.RemoveMax()
	if err != nil {
		return false, fmt.Errorf("take coating: %w", err)
	}
	f.stats.addConsumed(string(m), 1)
	f.stats.addConsumed(FlowCoating, 1)
	f.recordConsumption("manufacturing", tier, string(m), raw.Quality())
	f.recordConsumption("manufacturing", tier, FlowCoating, coating.Quality())

	d, err := f.Config.Timing.Processing(m).Sample(f.RNG)
	if err != nil {
		return false, fmt.Errorf("draw %s processing time: %w", m, err)
	}
	p.Timeout(d)

	if f.RNG.Uniform() < f.Config.Breakage.ForMaterial(m) {
		logrus.Debugf("[t=%.3f] %s component %s broke during production", p.Now(), tier, kind)
		return false, nil
	}

	processQuality := f.Config.Quality.Process.Sample(f.RNG)
	q := GeometricMean(raw.Quality(), coating.Quality(), processQuality)
	f.parts[kind].Insert(NewComponent(kind, q, coating.Color()))
	f.stats.addComponentMade(kind)
	logrus.Debugf("[t=%.3f] Made %s component %s quality=%.3f", p.Now(), tier, kind, q)
	return true, nil
}
