package simulation

import (
	"container/heap"
	"fmt"
)

// stationQueue implements heap.Interface ordered by efficiency, then id
type stationQueue []*Station

func (q stationQueue) Len() int { return len(q) }
func (q stationQueue) Less(i, j int) bool {
	if q[i].Efficiency != q[j].Efficiency {
		return q[i].Efficiency < q[j].Efficiency
	}
	return q[i].ID < q[j].ID
}
func (q stationQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *stationQueue) Push(x any) {
	*q = append(*q, x.(*Station))
}

func (q *stationQueue) Pop() any {
	old := *q
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return s
}

// IdleHeap holds the stations that are not serving anyone. The fastest
// (lowest efficiency multiplier) station is always at the top.
type IdleHeap struct {
	q stationQueue
}

// NewIdleHeap creates an empty idle heap
func NewIdleHeap() *IdleHeap {
	h := &IdleHeap{}
	heap.Init(&h.q)
	return h
}

// Insert marks a station idle. Inserting a station that is already idle
// means the loop lost track of it and panics.
func (h *IdleHeap) Insert(s *Station) {
	if s.idle {
		panic(fmt.Sprintf("station %d inserted into idle heap twice", s.ID))
	}
	s.idle = true
	heap.Push(&h.q, s)
}

// PopFastest removes the fastest idle station. ok is false when every
// station is busy.
func (h *IdleHeap) PopFastest() (s *Station, ok bool) {
	if h.q.Len() == 0 {
		return nil, false
	}
	s = heap.Pop(&h.q).(*Station)
	s.idle = false
	return s, true
}

// Len returns the number of idle stations
func (h *IdleHeap) Len() int {
	return h.q.Len()
}
