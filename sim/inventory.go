package sim

import (
	"container/heap"
	"errors"
)

// ErrEmptyInventory is returned by RemoveMax on an empty inventory.
var ErrEmptyInventory = errors.New("inventory is empty")

// Rated is anything that carries a scalar quality.
type Rated interface {
	Quality() float64
}

// Inventory is a multiset ordered by quality. The best item is always taken
// first (greedy best-first consumption, not FIFO).
//
// Ties in quality are broken by insertion order, earliest first, which keeps
// selection consistent within a run. A returned item is a fresh insertion and
// gets no special priority.
type Inventory[T Rated] struct {
	name  string
	items inventoryHeap[T]
	seq   uint64
}

// NewInventory creates an empty inventory. The name is used in logs only.
func NewInventory[T Rated](name string) *Inventory[T] {
	return &Inventory[T]{name: name}
}

// Name returns the inventory label.
func (inv *Inventory[T]) Name() string {
	return inv.name
}

// Len returns the number of items held.
func (inv *Inventory[T]) Len() int {
	return len(inv.items)
}

// Insert adds an item in O(log n).
func (inv *Inventory[T]) Insert(item T) {
	inv.seq++
	heap.Push(&inv.items, inventoryEntry[T]{item: item, seq: inv.seq})
}

// PeekMax returns the highest-quality item without removing it.
// ok is false when the inventory is empty.
func (inv *Inventory[T]) PeekMax() (item T, ok bool) {
	if len(inv.items) == 0 {
		return item, false
	}
	return inv.items[0].item, true
}

// RemoveMax removes and returns the highest-quality item in O(log n).
func (inv *Inventory[T]) RemoveMax() (T, error) {
	if len(inv.items) == 0 {
		var zero T
		return zero, ErrEmptyInventory
	}
	return heap.Pop(&inv.items).(inventoryEntry[T]).item, nil
}

// HasAbove reports whether the best item exists and, when gated, its quality
// is strictly above threshold.
func (inv *Inventory[T]) HasAbove(gated bool, threshold float64) bool {
	best, ok := inv.PeekMax()
	if !ok {
		return false
	}
	return !gated || best.Quality() > threshold
}

type inventoryEntry[T Rated] struct {
	item T
	seq  uint64
}

// inventoryHeap implements heap.Interface as a max-heap on quality.
type inventoryHeap[T Rated] []inventoryEntry[T]

func (h inventoryHeap[T]) Len() int { return len(h) }

func (h inventoryHeap[T]) Less(i, j int) bool {
	qi, qj := h[i].item.Quality(), h[j].item.Quality()
	if qi != qj {
		return qi > qj
	}
	return h[i].seq < h[j].seq
}

func (h inventoryHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *inventoryHeap[T]) Push(x any) {
	*h = append(*h, x.(inventoryEntry[T]))
}

func (h *inventoryHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}
