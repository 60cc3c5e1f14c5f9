// Package event schedules future cycle deadlines and drains them in
// increasing order, the coordinator between the cycle package's deadline
// counters and the Gb runtime's frame loop.
package event

import (
	"container/heap"
	"math"

	"github.com/sean-purcell/gbjit/cycle"
)

// Source names what kind of event fired. Ppu and FrameEnd are the original
// design's two sources; Timer and Interrupt are added (see DESIGN.md, Open
// Question 2) so that HALT/STOP can actually observe a reason to wake.
type Source int

const (
	SourcePpu Source = iota
	SourceFrameEnd
	SourceTimer
	SourceInterrupt
)

type entry struct {
	cycle  uint64
	source Source
	index  int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].cycle != h[j].cycle {
		return h[i].cycle < h[j].cycle
	}
	return h[i].source < h[j].source
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Manager is a priority queue of (cycle, Source) deadlines that keeps the
// owning cycle.State's hard limit synchronized with the soonest pending
// deadline.
type Manager struct {
	cycles *cycle.State
	events entryHeap
}

// New returns a Manager bound to cycles; cycles' hard limit is updated
// every time an event is added or drained.
func New(cycles *cycle.State) *Manager {
	m := &Manager{cycles: cycles}
	heap.Init(&m.events)
	return m
}

// AddEvent schedules source to fire at the given absolute cycle count.
func (m *Manager) AddEvent(source Source, at uint64) {
	heap.Push(&m.events, &entry{cycle: at, source: source})
	m.updateLimit()
}

func (m *Manager) updateLimit() {
	limit := uint64(math.MaxUint64)
	if len(m.events) > 0 {
		limit = m.events[0].cycle
	}
	m.cycles.SetHardLimit(limit)
}

// DueEvents pops every event whose deadline has passed (cycle <= the
// cycle.State's current count) and returns their sources in the order they
// were due (earliest first). The cycle limit is resynchronized afterward.
func (m *Manager) DueEvents() []Source {
	current := m.cycles.Cycle()
	var due []Source
	for len(m.events) > 0 && m.events[0].cycle <= current {
		e := heap.Pop(&m.events).(*entry)
		due = append(due, e.source)
	}
	m.updateLimit()
	return due
}

// Pending reports whether any event is scheduled.
func (m *Manager) Pending() bool { return len(m.events) > 0 }
