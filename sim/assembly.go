package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

// BuildResult is the outcome of one assembly attempt.
type BuildResult string

const (
	// BuildSuccessful means a product was committed.
	BuildSuccessful BuildResult = "SUCCESSFUL"
	// BuildInsufficient means a component kind ran out; the tier's remaining builds are cancelled.
	BuildInsufficient BuildResult = "INSUFFICIENT"
	// BuildPartBroken means at least one claimed component broke; the build is retried.
	BuildPartBroken BuildResult = "PART_BROKEN"
)

// AssemblyResult counts assembly attempts of one tier by outcome.
type AssemblyResult struct {
	Attempts     int `json:"attempts"`
	Successful   int `json:"successful"`
	Insufficient int `json:"insufficient"`
	PartBroken   int `json:"part_broken"`
}

func (r *AssemblyResult) add(result BuildResult) {
	r.Attempts++
	switch result {
	case BuildSuccessful:
		r.Successful++
	case BuildInsufficient:
		r.Insufficient++
	case BuildPartBroken:
		r.PartBroken++
	}
}

// assemble runs the tier's builder pool until its build counter reaches zero.
// Builders share one counter. A broken attempt gives its task back; an
// insufficient attempt cancels all remaining tasks of the tier.
func (f *Factory) assemble(p *Process, tier Tier) {
	f.buildTasks[tier] = f.Config.PlannedFor(tier)
	pool := NewResource(p.Sim(), fmt.Sprintf("builders-%s", tier), f.Config.Pools.Builders)

	builders := make([]*Process, 0, pool.Capacity())
	for i := 0; i < pool.Capacity(); i++ {
		name := fmt.Sprintf("builder-%s-%d", tier, i)
		builders = append(builders, p.Sim().Go(name, f.builder(pool, tier)))
	}
	p.Join(builders...)
}

func (f *Factory) builder(pool *Resource, tier Tier) ProcessFunc {
	return func(p *Process) error {
		pool.Acquire(p)
		for f.buildTasks[tier] > 0 {
			f.buildTasks[tier]--
			result, err := f.buildProduct(p, tier)
			if err != nil {
				return err
			}
			stats := f.stats.Assembly[tier]
			stats.add(result)
			f.stats.Assembly[tier] = stats

			if result == BuildPartBroken {
				f.buildTasks[tier]++
			}
			if result == BuildInsufficient {
				logrus.Infof("[t=%.3f] %s: not enough components, cancelling %d remaining %s builds",
					p.Now(), p.Name, f.buildTasks[tier], tier)
				f.buildTasks[tier] = 0
				break
			}
		}
		pool.Release()
		return nil
	}
}

// buildProduct makes one assembly attempt. Components are claimed in
// bill-of-materials order from the best available; if any kind runs out (or,
// for premium, its best unit fails the gate) every claimed component goes back
// to stock. After assembly each claimed component rolls breakage on its own;
// broken ones are discarded and the rest go back to stock.
func (f *Factory) buildProduct(p *Process, tier Tier) (BuildResult, error) {
	spec := SpecFor(tier)
	gated := tier == TierPremium

	claimed := make([]Component, 0, spec.TotalParts())
	for _, kind := range spec.PartList() {
		inv := f.parts[kind]
		if !inv.HasAbove(gated, f.Config.Gates.PartGate(kind)) {
			f.restock(claimed)
			f.recordAssembly(p, tier, BuildInsufficient, len(claimed), 0)
			return BuildInsufficient, nil
		}
		c, err := inv.RemoveMax()
		if err != nil {
			return "", fmt.Errorf("claim %s: %w", kind, err)
		}
		claimed = append(claimed, c)
	}

	p.Timeout(float64(f.Config.Timing.Assembly.Sample(f.RNG)))

	intact := make([]Component, 0, len(claimed))
	broken := 0
	for _, c := range claimed {
		if f.RNG.Uniform() < f.Config.Breakage.Assembly {
			broken++
			f.stats.addComponentBroken(c.Kind())
			continue
		}
		intact = append(intact, c)
	}
	if broken > 0 {
		f.restock(intact)
		logrus.Debugf("[t=%.3f] %s: %d components broke while assembling a %s product", p.Now(), p.Name, broken, tier)
		f.recordAssembly(p, tier, BuildPartBroken, len(claimed), broken)
		return BuildPartBroken, nil
	}

	buildQuality := f.Config.Quality.Build(tier).Sample(f.RNG)
	product, err := NewProduct(spec, buildQuality, claimed)
	if err != nil {
		return "", err
	}
	f.built[tier] = append(f.built[tier], product)
	for _, c := range claimed {
		f.stats.addComponentEmbedded(c.Kind())
		f.recordConsumption("assembly", tier, string(c.Kind()), c.Quality())
	}
	logrus.Debugf("[t=%.3f] %s: built %s product quality=%.3f", p.Now(), p.Name, tier, product.CompositeQuality())
	f.recordAssembly(p, tier, BuildSuccessful, len(claimed), 0)
	return BuildSuccessful, nil
}

// restock returns components to their inventories as fresh insertions.
func (f *Factory) restock(components []Component) {
	for _, c := range components {
		f.parts[c.Kind()].Insert(c)
	}
}

func (f *Factory) recordAssembly(p *Process, tier Tier, result BuildResult, claimed, broken int) {
	if !f.Trace.Enabled() {
		return
	}
	f.Trace.RecordAssembly(trace.AssemblyRecord{
		Clock:   p.Now(),
		Tier:    string(tier),
		Builder: p.Name,
		Outcome: string(result),
		Claimed: claimed,
		Broken:  broken,
	})
}
