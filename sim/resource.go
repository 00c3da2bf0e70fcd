package sim

import "fmt"

// Resource is a counting resource with FIFO admission, used to bound
// worker pools (builders, testers).
type Resource struct {
	Name string

	sim      *Simulator
	capacity int
	inUse    int
	waiters  []*Process
}

// NewResource creates a resource with the given number of slots.
// Capacity must be positive.
func NewResource(sim *Simulator, name string, capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("NewResource: %s capacity must be >= 1, got %d", name, capacity))
	}
	return &Resource{Name: name, sim: sim, capacity: capacity}
}

// Capacity returns the number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// InUse returns the number of held slots.
func (r *Resource) InUse() int { return r.inUse }

// Waiting returns the number of processes queued for a slot.
func (r *Resource) Waiting() int { return len(r.waiters) }

// Acquire takes a slot, parking p behind earlier waiters when none is free.
func (r *Resource) Acquire(p *Process) {
	if r.inUse < r.capacity && len(r.waiters) == 0 {
		r.inUse++
		return
	}
	r.waiters = append(r.waiters, p)
	p.park()
}

// Release frees a slot. If processes are waiting, the slot passes directly
// to the oldest waiter.
func (r *Resource) Release() {
	if len(r.waiters) > 0 {
		next := r.waiters[0]
		r.waiters[0] = nil
		r.waiters = r.waiters[1:]
		r.sim.schedule(next, 0, EventTypeWakeup)
		return
	}
	if r.inUse == 0 {
		panic(fmt.Sprintf("Release: resource %s has no held slots", r.Name))
	}
	r.inUse--
}
