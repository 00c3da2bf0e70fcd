package sim

// EventType identifies the kind of kernel event.
type EventType string

const (
	// EventTypeProcessStart hands control to a newly created process.
	EventTypeProcessStart EventType = "ProcessStart"
	// EventTypeWakeup resumes a process parked on a resource or a join.
	EventTypeWakeup EventType = "Wakeup"
	// EventTypeTimeout resumes a process after a simulated duration.
	EventTypeTimeout EventType = "Timeout"
)

// EventTypePriority orders events that share a timestamp.
// Lower value = processed first. Start and wakeup events are urgent so that
// control released at time t is picked up before any timeout expiring at t.
var EventTypePriority = map[EventType]int{
	EventTypeProcessStart: 0,
	EventTypeWakeup:       0,
	EventTypeTimeout:      1,
}

// Event defines the interface for all kernel events.
// Each event has a Timestamp (virtual time), a Type used for tie-breaking,
// a monotonically increasing EventID, and an Execute method that advances
// simulation state when invoked.
type Event interface {
	Timestamp() float64
	Type() EventType
	EventID() uint64
	Execute(*Simulator)
}

// resumeEvent transfers control to a parked process.
type resumeEvent struct {
	time float64
	kind EventType
	id   uint64
	proc *Process
}

func (e *resumeEvent) Timestamp() float64 { return e.time }
func (e *resumeEvent) Type() EventType    { return e.kind }
func (e *resumeEvent) EventID() uint64    { return e.id }

// Execute resumes the target process and blocks until it parks again or finishes.
func (e *resumeEvent) Execute(sim *Simulator) {
	sim.resume(e.proc)
}
