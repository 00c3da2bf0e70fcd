package sim

import (
	"container/heap"
	"fmt"
	"math"
)

// EventHeap is the kernel's pending-event queue.
// Events leave in timestamp → type priority → event ID order. The ordering
// key is captured when an event is scheduled, so the heap never calls back
// into the Event or the priority table while sifting.
type EventHeap struct {
	entries eventEntries
}

type eventEntry struct {
	at       float64
	priority int
	id       uint64
	event    Event
}

func (e eventEntry) before(o eventEntry) bool {
	if e.at != o.at {
		return e.at < o.at
	}
	if e.priority != o.priority {
		return e.priority < o.priority
	}
	return e.id < o.id
}

// eventEntries implements heap.Interface.
type eventEntries []eventEntry

func (q eventEntries) Len() int           { return len(q) }
func (q eventEntries) Less(i, j int) bool { return q[i].before(q[j]) }
func (q eventEntries) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *eventEntries) Push(x any) {
	*q = append(*q, x.(eventEntry))
}

func (q *eventEntries) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = eventEntry{}
	*q = old[:n-1]
	return e
}

// NewEventHeap creates an empty event heap.
func NewEventHeap() *EventHeap {
	return &EventHeap{}
}

// Len returns the number of pending events.
func (h *EventHeap) Len() int {
	return len(h.entries)
}

// Schedule queues e. A NaN timestamp has no place in the order and panics.
func (h *EventHeap) Schedule(e Event) {
	at := e.Timestamp()
	if math.IsNaN(at) {
		panic(fmt.Sprintf("Schedule: %s event %d has NaN timestamp", e.Type(), e.EventID()))
	}
	heap.Push(&h.entries, eventEntry{
		at:       at,
		priority: EventTypePriority[e.Type()],
		id:       e.EventID(),
		event:    e,
	})
}

// PopNext removes and returns the next event, or nil when empty.
func (h *EventHeap) PopNext() Event {
	if len(h.entries) == 0 {
		return nil
	}
	return heap.Pop(&h.entries).(eventEntry).event
}

// Peek returns the next event without removing it, or nil when empty.
func (h *EventHeap) Peek() Event {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[0].event
}
