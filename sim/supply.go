package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// deliverMaterials is the one-shot supply process. It waits for the delivery
// delay and then stocks exactly the raw material and coating needed to build
// the whole plan, with per-tier quality distributions. Nothing more is ever
// delivered during the run.
func (f *Factory) deliverMaterials(p *Process) error {
	delay := math.Max(0, f.Config.Timing.Delivery.Sample(f.RNG))
	logrus.Infof("[t=%.3f] Materials ordered, delivery in %.3f", p.Now(), delay)
	p.Timeout(delay)

	for _, m := range MaterialKinds() {
		inv := f.rawMaterials[m]
		for _, tier := range Tiers() {
			n := SpecFor(tier).MaterialCost(m) * f.Config.PlannedFor(tier)
			dist := f.Config.Quality.Material(tier)
			for i := 0; i < n; i++ {
				q, err := dist.Sample(f.RNG)
				if err != nil {
					return fmt.Errorf("draw %s %s quality: %w", tier, m, err)
				}
				inv.Insert(NewRawMaterial(m, q))
			}
			f.stats.addDelivered(string(m), n)
		}
	}

	colors := Colors()
	for _, tier := range Tiers() {
		n := SpecFor(tier).CoatingCost() * f.Config.PlannedFor(tier)
		dist := f.Config.Quality.Coating(tier)
		for i := 0; i < n; i++ {
			q, err := dist.Sample(f.RNG)
			if err != nil {
				return fmt.Errorf("draw %s coating quality: %w", tier, err)
			}
			color := colors[f.RNG.RandInt(0, len(colors)-1)]
			f.coatings.Insert(NewCoating(q, color))
		}
		f.stats.addDelivered(FlowCoating, n)
	}

	logrus.Infof("[t=%.3f] Materials delivered: wood=%d fabric=%d coating=%d", p.Now(),
		f.rawMaterials[MaterialWood].Len(), f.rawMaterials[MaterialFabric].Len(), f.coatings.Len())
	return nil
}
