// Package ledger records the statistics of completed runs for batch
// experiments. Records live in memory for the lifetime of the process.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jerxma-git/cat-houses-model/sim"
)

// ErrDuplicateRun is returned when a seed is recorded twice.
var ErrDuplicateRun = errors.New("run already recorded")

// Totals aggregates every recorded run.
type Totals struct {
	Runs          int
	Accepted      int
	Rejected      int
	Planned       int
	Built         int
	TotalTimeSum  float64
	RejectReasons map[sim.Reason]int
}

// Ledger stores completed run statistics keyed by seed.
// Implementations are safe for concurrent use.
type Ledger interface {
	Record(ctx context.Context, stats *sim.RunStatistics) error
	// Runs returns every recorded run ordered by seed.
	Runs(ctx context.Context) ([]*sim.RunStatistics, error)
	Totals(ctx context.Context) (Totals, error)
	Close() error
}

// Open returns the ledger registered under kind: "memory" or "sqlite".
func Open(kind string) (Ledger, error) {
	switch kind {
	case "", "memory":
		return NewMemoryLedger(), nil
	case "sqlite":
		return NewSQLiteLedger()
	default:
		return nil, fmt.Errorf("unknown ledger %q (want memory or sqlite)", kind)
	}
}

// MemoryLedger keeps runs in a map guarded by a mutex.
type MemoryLedger struct {
	mu   sync.Mutex
	runs map[sim.SimulationKey]*sim.RunStatistics
}

// NewMemoryLedger creates an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{runs: make(map[sim.SimulationKey]*sim.RunStatistics)}
}

// Record stores stats, failing with ErrDuplicateRun if its seed is already present.
func (l *MemoryLedger) Record(_ context.Context, stats *sim.RunStatistics) error {
	if stats == nil {
		return errors.New("record: nil statistics")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.runs[stats.Seed]; ok {
		return fmt.Errorf("seed %d: %w", stats.Seed, ErrDuplicateRun)
	}
	l.runs[stats.Seed] = stats
	return nil
}

// Runs returns the recorded runs ordered by seed.
func (l *MemoryLedger) Runs(_ context.Context) ([]*sim.RunStatistics, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*sim.RunStatistics, 0, len(l.runs))
	for _, r := range l.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seed < out[j].Seed })
	return out, nil
}

// Totals sums the headline counters of every recorded run.
func (l *MemoryLedger) Totals(ctx context.Context) (Totals, error) {
	runs, err := l.Runs(ctx)
	if err != nil {
		return Totals{}, err
	}
	t := Totals{RejectReasons: make(map[sim.Reason]int)}
	for _, r := range runs {
		t.Runs++
		t.Accepted += r.Accepted
		t.Rejected += r.Rejected
		t.Planned += r.PlannedCount
		t.Built += r.TotalBuilt()
		t.TotalTimeSum += r.TotalTime
		for reason, n := range r.RejectReasons {
			t.RejectReasons[reason] += n
		}
	}
	return t, nil
}

// Close is a no-op.
func (l *MemoryLedger) Close() error { return nil }
