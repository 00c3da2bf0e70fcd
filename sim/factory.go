package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

// Factory is the run-scoped simulation context. Every inventory, counter and
// result collection of one run lives here; a Factory runs exactly once and is
// never reused, so runs cannot leak state into each other.
type Factory struct {
	Config Config
	RNG    *RNG
	// Trace collects decision records when non-nil and enabled.
	Trace *trace.SimulationTrace

	sim *Simulator

	rawMaterials map[MaterialKind]*Inventory[RawMaterial]
	coatings     *Inventory[Coating]
	parts        map[PartKind]*Inventory[Component]

	buildTasks map[Tier]int
	built      map[Tier][]*Product
	testQueue  []*Product
	accepted   []TestedProduct
	rejected   []TestedProduct

	stats *RunStatistics
	ran   bool
}

// NewFactory validates cfg and prepares a fresh run context.
func NewFactory(cfg Config, key SimulationKey) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Factory{
		Config:       cfg,
		RNG:          NewRNG(key),
		sim:          NewSimulator(),
		rawMaterials: make(map[MaterialKind]*Inventory[RawMaterial]),
		coatings:     NewInventory[Coating]("coating"),
		parts:        make(map[PartKind]*Inventory[Component]),
		buildTasks:   make(map[Tier]int),
		built:        make(map[Tier][]*Product),
		stats:        newRunStatistics(cfg, key),
	}
	for _, m := range MaterialKinds() {
		f.rawMaterials[m] = NewInventory[RawMaterial](string(m))
	}
	for _, k := range PartKinds() {
		f.parts[k] = NewInventory[Component](string(k))
	}
	return f, nil
}

// Simulate runs one simulation given a configuration and seed and returns its
// statistics record.
func Simulate(cfg Config, key SimulationKey) (*RunStatistics, error) {
	f, err := NewFactory(cfg, key)
	if err != nil {
		return nil, err
	}
	return f.Run()
}

// Run executes the four stages in order and returns the run statistics.
// Only fatal and precondition errors are returned; shortfalls and breakage
// show up as reduced yield in the statistics.
func (f *Factory) Run() (*RunStatistics, error) {
	if f.ran {
		return nil, errors.New("factory already ran; build a new Factory per run")
	}
	f.ran = true

	logrus.Infof("Starting factory run: seed=%d planned=%d (premium=%d, standard=%d)",
		f.RNG.Key(), f.Config.Plan.PlannedCount, f.Config.PlannedFor(TierPremium), f.Config.PlannedFor(TierStandard))

	f.sim.Go("orchestrator", f.orchestrate)
	if err := f.sim.Run(); err != nil {
		return nil, fmt.Errorf("seed %d: %w", f.RNG.Key(), err)
	}
	f.finalizeStats()

	logrus.Infof("[t=%.3f] Factory run complete: accepted=%d rejected=%d", f.sim.Clock, f.stats.Accepted, f.stats.Rejected)
	return f.stats, nil
}

// Accepted returns the products that passed acceptance testing.
func (f *Factory) Accepted() []TestedProduct { return f.accepted }

// Rejected returns the products that failed acceptance testing.
func (f *Factory) Rejected() []TestedProduct { return f.rejected }

// Built returns the committed products of a tier, in build order.
func (f *Factory) Built(t Tier) []*Product { return f.built[t] }

// orchestrate sequences supply, manufacturing, assembly and testing.
// Premium work finishes before standard work starts at every stage.
func (f *Factory) orchestrate(p *Process) error {
	start := p.Now()

	t0 := p.Now()
	p.Join(p.Sim().Go("supply", f.deliverMaterials))
	f.stats.Phases.Supply = p.Now() - t0

	for _, tier := range Tiers() {
		t0 = p.Now()
		workers := make([]*Process, 0, len(MaterialKinds()))
		for _, m := range MaterialKinds() {
			workers = append(workers, p.Sim().Go(fmt.Sprintf("manufacture-%s-%s", m, tier), f.manufacture(m, tier)))
		}
		p.Join(workers...)
		f.stats.Phases.Manufacturing[tier] = p.Now() - t0
	}
	f.logInventory(p, "manufacturing finished")

	for _, tier := range Tiers() {
		t0 = p.Now()
		logrus.Infof("[t=%.3f] Assembly of %s products started", p.Now(), tier)
		f.assemble(p, tier)
		logrus.Infof("[t=%.3f] Assembly of %s products finished: %d built", p.Now(), tier, len(f.built[tier]))
		f.stats.Phases.Assembly[tier] = p.Now() - t0
	}
	f.logInventory(p, "assembly finished")

	t0 = p.Now()
	f.runAcceptance(p)
	f.stats.Phases.Testing = p.Now() - t0

	f.stats.TotalTime = p.Now() - start
	return nil
}

func (f *Factory) logInventory(p *Process, stage string) {
	if !logrus.IsLevelEnabled(logrus.InfoLevel) {
		return
	}
	components := 0
	for _, inv := range f.parts {
		components += inv.Len()
	}
	logrus.Infof("[t=%.3f] Inventory after %s: wood=%d fabric=%d coating=%d components=%d premium=%d standard=%d",
		p.Now(), stage,
		f.rawMaterials[MaterialWood].Len(), f.rawMaterials[MaterialFabric].Len(), f.coatings.Len(),
		components, len(f.built[TierPremium]), len(f.built[TierStandard]))
}

func (f *Factory) recordConsumption(stage string, tier Tier, item string, quality float64) {
	if !f.Trace.Enabled() {
		return
	}
	f.Trace.RecordConsumption(trace.ConsumptionRecord{
		Clock:   f.sim.Clock,
		Stage:   stage,
		Tier:    string(tier),
		Item:    item,
		Quality: quality,
	})
}

// finalizeStats snapshots what is left in every inventory.
func (f *Factory) finalizeStats() {
	for _, m := range MaterialKinds() {
		flow := f.stats.Flows[string(m)]
		flow.Remaining = f.rawMaterials[m].Len()
		f.stats.Flows[string(m)] = flow
	}
	coating := f.stats.Flows[FlowCoating]
	coating.Remaining = f.coatings.Len()
	f.stats.Flows[FlowCoating] = coating

	for _, k := range PartKinds() {
		flow := f.stats.Components[k]
		flow.Remaining = f.parts[k].Len()
		f.stats.Components[k] = flow
	}
	for _, tier := range Tiers() {
		f.stats.Built[tier] = len(f.built[tier])
	}
}
