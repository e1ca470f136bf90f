package simulation

import (
	"container/heap"
	"fmt"
)

// scheduled pairs an event with its insertion sequence
type scheduled struct {
	ev  Event
	seq uint64
}

// eventQueue implements heap.Interface ordered by (time, kind, seq)
type eventQueue []scheduled

func (q eventQueue) Len() int      { return len(q) }
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q eventQueue) Less(i, j int) bool {
	ti, tj := q[i].ev.At(), q[j].ev.At()
	if ti != tj {
		return ti < tj
	}
	ki, kj := q[i].ev.Kind(), q[j].ev.Kind()
	if ki != kj {
		return ki < kj
	}
	return q[i].seq < q[j].seq
}

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(scheduled))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = scheduled{}
	*q = old[:n-1]
	return item
}

// EventHeap is the time-ordered scheduler. Events at the same time pop
// Finish before Arrival, then in insertion order.
type EventHeap struct {
	q     eventQueue
	seq   uint64
	limit int
}

// NewEventHeap creates an event heap. A limit of 0 means unbounded.
func NewEventHeap(limit int) *EventHeap {
	h := &EventHeap{limit: limit}
	heap.Init(&h.q)
	return h
}

// Insert schedules an event
func (h *EventHeap) Insert(ev Event) error {
	if h.limit > 0 && h.q.Len() >= h.limit {
		return fmt.Errorf("event heap holds %d events: %w", h.limit, ErrCapacityExceeded)
	}
	h.seq++
	heap.Push(&h.q, scheduled{ev: ev, seq: h.seq})
	return nil
}

// PopMin removes and returns the earliest event
func (h *EventHeap) PopMin() (Event, error) {
	if h.q.Len() == 0 {
		return nil, ErrEmpty
	}
	return heap.Pop(&h.q).(scheduled).ev, nil
}

// Peek returns the earliest event without removing it
func (h *EventHeap) Peek() (Event, bool) {
	if h.q.Len() == 0 {
		return nil, false
	}
	return h.q[0].ev, true
}

// Len returns the number of pending events
func (h *EventHeap) Len() int {
	return h.q.Len()
}

// pending counts scheduled events by kind and finishing station
func (h *EventHeap) pending() (arrivals int, finishes map[int]int) {
	finishes = make(map[int]int)
	for _, s := range h.q {
		switch ev := s.ev.(type) {
		case Arrival:
			arrivals++
		case Finish:
			finishes[ev.StationID]++
		}
	}
	return arrivals, finishes
}
