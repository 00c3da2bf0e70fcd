package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/jerxma-git/cat-houses-model/sim/trace"
)

// Verdict is the acceptance decision for a tested product.
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
)

// Reason names the rule that decided a verdict.
type Reason string

const (
	ReasonNoEntry        Reason = "NO_ENTRY"
	ReasonLateEntry      Reason = "LATE_ENTRY"
	ReasonQuickLeave     Reason = "QUICK_LEAVE"
	ReasonAllTestsPassed Reason = "ALL_TESTS_PASSED"
)

// Reasons returns every reason in rule order.
func Reasons() []Reason {
	return []Reason{ReasonNoEntry, ReasonLateEntry, ReasonQuickLeave, ReasonAllTestsPassed}
}

// TestOutcome is the observed behavior of the tester in one acceptance test.
// Entry and Dwell are meaningful only when Entered is true.
type TestOutcome struct {
	Entered bool    `json:"entered"`
	Entry   float64 `json:"entry"`
	Dwell   float64 `json:"dwell"`
	Verdict Verdict `json:"verdict"`
	Reason  Reason  `json:"reason"`
}

// Duration is the virtual time the test occupies its tester.
func (o TestOutcome) Duration(cfg AcceptanceConfig) float64 {
	if !o.Entered {
		return cfg.MaxTestWindow
	}
	return o.Entry + o.Dwell
}

// TestedProduct pairs a product with its acceptance outcome.
type TestedProduct struct {
	Product *Product
	Outcome TestOutcome
}

// DrawTestOutcome samples entry and dwell for a product of the given
// composite quality. Higher quality means earlier entry and longer dwell.
// An entry later than MaxEntryTime counts as never entered. Entry plus dwell
// never exceeds MaxTestWindow.
// The exponential scale is EntryScale*(1 - q/QualityCeiling): it shrinks as
// quality approaches the ceiling, so a product at the ceiling enters at once.
func DrawTestOutcome(rng *RNG, cfg AcceptanceConfig, quality float64) TestOutcome {
	window := cfg.MaxTestWindow
	attraction := clamp(quality, 0, cfg.QualityCeiling) / cfg.QualityCeiling
	scale := cfg.EntryScale * (1 - attraction)

	entry := clamp(rng.Exponential(scale), 0, window)
	if entry > cfg.MaxEntryTime {
		return TestOutcome{}
	}
	dwell := clamp(rng.Normal(cfg.DwellBase*quality, cfg.DwellStdDev), 0, window)
	dwell = math.Min(dwell, window-entry)
	return TestOutcome{Entered: true, Entry: entry, Dwell: dwell}
}

// Classify applies the acceptance rules in order: no entry, late entry,
// quick leave, otherwise accepted.
func Classify(o TestOutcome, cfg AcceptanceConfig) (Verdict, Reason) {
	switch {
	case !o.Entered:
		return VerdictReject, ReasonNoEntry
	case o.Entry > cfg.MaxEntryTime:
		return VerdictReject, ReasonLateEntry
	case o.Dwell < cfg.MinDwellTime:
		return VerdictReject, ReasonQuickLeave
	default:
		return VerdictAccept, ReasonAllTestsPassed
	}
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(v, high))
}

// runAcceptance tests every built product, premium first, with a bounded
// tester pool. Every product gets exactly one verdict.
func (f *Factory) runAcceptance(p *Process) {
	f.testQueue = make([]*Product, 0, len(f.built[TierPremium])+len(f.built[TierStandard]))
	for _, tier := range Tiers() {
		f.testQueue = append(f.testQueue, f.built[tier]...)
	}
	logrus.Infof("[t=%.3f] Acceptance testing of %d products started", p.Now(), len(f.testQueue))

	pool := NewResource(p.Sim(), "testers", f.Config.Pools.Testers)
	testers := make([]*Process, 0, pool.Capacity())
	for i := 0; i < pool.Capacity(); i++ {
		testers = append(testers, p.Sim().Go(fmt.Sprintf("tester-%d", i), f.tester(pool)))
	}
	p.Join(testers...)

	logrus.Infof("[t=%.3f] Acceptance testing finished: accepted=%d rejected=%d",
		p.Now(), len(f.accepted), len(f.rejected))
}

func (f *Factory) tester(pool *Resource) ProcessFunc {
	return func(p *Process) error {
		pool.Acquire(p)
		for len(f.testQueue) > 0 {
			product := f.testQueue[0]
			f.testQueue = f.testQueue[1:]

			quality := product.CompositeQuality()
			outcome := DrawTestOutcome(f.RNG, f.Config.Acceptance, quality)
			p.Timeout(outcome.Duration(f.Config.Acceptance))
			outcome.Verdict, outcome.Reason = Classify(outcome, f.Config.Acceptance)

			tested := TestedProduct{Product: product, Outcome: outcome}
			if outcome.Verdict == VerdictAccept {
				f.accepted = append(f.accepted, tested)
			} else {
				f.rejected = append(f.rejected, tested)
			}
			f.stats.addSample(product.Tier(), outcome)
			logrus.Debugf("[t=%.3f] %s: %s product quality=%.3f -> %s (%s)",
				p.Now(), p.Name, product.Tier(), quality, outcome.Verdict, outcome.Reason)

			if f.Trace.Enabled() {
				f.Trace.RecordVerdict(trace.VerdictRecord{
					Clock:            p.Now(),
					Tier:             string(product.Tier()),
					Tester:           p.Name,
					CompositeQuality: quality,
					Entered:          outcome.Entered,
					Entry:            outcome.Entry,
					Dwell:            outcome.Dwell,
					Verdict:          string(outcome.Verdict),
					Reason:           string(outcome.Reason),
				})
			}
		}
		pool.Release()
		return nil
	}
}
