// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"
)

// ProcessFunc is the body of a simulated process. Returning a non-nil error
// halts the whole run; the error is returned from Simulator.Run.
type ProcessFunc func(p *Process) error

// haltSignal unwinds parked process goroutines once the kernel stops.
type haltSignal struct{}

// Simulator is the cooperative discrete-event kernel. It holds the virtual
// clock and the event loop.
//
// Processes are goroutines, but control is handed off explicitly: the kernel
// resumes one process and waits until that process parks (Timeout, Acquire,
// Join) or finishes. Exactly one goroutine touches simulation state at a
// time, so everything a process does between two suspension points is atomic
// with respect to every other process, and no locking is needed around
// inventories.
type Simulator struct {
	Clock float64
	// EventQueue has all pending kernel events
	EventQueue *EventHeap

	nextEventID uint64
	yield       chan struct{}
	halt        chan struct{}
	halted      bool
	err         error
	live        int
	wg          sync.WaitGroup
}

// NewSimulator creates a kernel at virtual time zero.
func NewSimulator() *Simulator {
	return &Simulator{
		EventQueue: NewEventHeap(),
		yield:      make(chan struct{}),
		halt:       make(chan struct{}),
	}
}

// Now returns the current virtual time.
func (sim *Simulator) Now() float64 {
	return sim.Clock
}

// Live returns the number of processes that have not finished.
func (sim *Simulator) Live() int {
	return sim.live
}

// newEventID generates the next event ID for deterministic tie-breaking
func (sim *Simulator) newEventID() uint64 {
	sim.nextEventID++
	return sim.nextEventID
}

func (sim *Simulator) schedule(p *Process, delay float64, kind EventType) {
	sim.EventQueue.Schedule(&resumeEvent{
		time: sim.Clock + delay,
		kind: kind,
		id:   sim.newEventID(),
		proc: p,
	})
}

// Go registers a process that starts at the current virtual time.
// It may be called before Run or from inside a running process.
func (sim *Simulator) Go(name string, fn ProcessFunc) *Process {
	p := &Process{
		Name:   name,
		sim:    sim,
		resume: make(chan struct{}),
	}
	sim.live++
	sim.wg.Add(1)
	go p.run(fn)
	sim.schedule(p, 0, EventTypeProcessStart)
	return p
}

// Run executes events until the queue drains or a process fails.
// A Simulator runs once; parked processes are unwound before Run returns.
func (sim *Simulator) Run() error {
	for sim.err == nil {
		ev := sim.EventQueue.PopNext()
		if ev == nil {
			break
		}
		if ev.Timestamp() < sim.Clock {
			sim.fail(fmt.Errorf("event %d at %g precedes clock %g", ev.EventID(), ev.Timestamp(), sim.Clock))
			break
		}
		sim.Clock = ev.Timestamp()
		logrus.Tracef("[t=%09.3f] Executing %s #%d", sim.Clock, ev.Type(), ev.EventID())
		ev.Execute(sim)
	}
	if sim.err == nil && sim.live > 0 {
		logrus.Warnf("[t=%.3f] event queue drained with %d parked processes", sim.Clock, sim.live)
	}
	sim.shutdown()
	return sim.err
}

// resume hands control to p and blocks until p yields it back.
func (sim *Simulator) resume(p *Process) {
	p.resume <- struct{}{}
	<-sim.yield
}

func (sim *Simulator) fail(err error) {
	if sim.err == nil {
		sim.err = err
	}
}

func (sim *Simulator) shutdown() {
	if !sim.halted {
		sim.halted = true
		close(sim.halt)
	}
	sim.wg.Wait()
}

// Process is a logical worker inside the kernel.
type Process struct {
	Name string

	sim     *Simulator
	resume  chan struct{}
	done    bool
	joiners []*Process
}

// Sim returns the kernel the process belongs to.
func (p *Process) Sim() *Simulator {
	return p.sim
}

// Now returns the current virtual time.
func (p *Process) Now() float64 {
	return p.sim.Clock
}

// Done reports whether the process body has returned.
func (p *Process) Done() bool {
	return p.done
}

// Timeout suspends the process for d units of virtual time.
func (p *Process) Timeout(d float64) {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		panic(fmt.Sprintf("Timeout: invalid duration %g", d))
	}
	p.sim.schedule(p, d, EventTypeTimeout)
	p.park()
}

// Join suspends the process until every one of others has finished.
func (p *Process) Join(others ...*Process) {
	for _, o := range others {
		if o.done {
			continue
		}
		o.joiners = append(o.joiners, p)
		p.park()
	}
}

// park yields control to the kernel and waits to be resumed.
func (p *Process) park() {
	p.sim.yield <- struct{}{}
	select {
	case <-p.resume:
	case <-p.sim.halt:
		panic(haltSignal{})
	}
}

func (p *Process) run(fn ProcessFunc) {
	defer p.sim.wg.Done()
	select {
	case <-p.resume:
	case <-p.sim.halt:
		return
	}
	halted, err := p.invoke(fn)
	if halted {
		return
	}
	p.finish(err)
	p.sim.yield <- struct{}{}
}

// invoke runs the body, converting panics into errors so that a broken
// invariant aborts the run instead of the program.
func (p *Process) invoke(fn ProcessFunc) (halted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(haltSignal); ok {
				halted = true
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return false, fn(p)
}

func (p *Process) finish(err error) {
	p.done = true
	p.sim.live--
	for _, j := range p.joiners {
		p.sim.schedule(j, 0, EventTypeWakeup)
	}
	p.joiners = nil
	if err != nil {
		p.sim.fail(fmt.Errorf("process %s: %w", p.Name, err))
	}
}
