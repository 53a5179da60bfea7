package arena

import "container/heap"

// FrontierEntry is one pending product state: ref is its stable index
// into the arena's product-state table, score the heuristic hint used
// only to order exploration (spec.md §4.3's "scored edge" propagated up
// to the frontier).
type FrontierEntry struct {
	Ref   int32
	Score float64
}

// Frontier is the exploration queue the builder pops from. BFS gives a
// plain FIFO; PQ alternates between two heaps so that both very-confident
// and very-uncertain states get explored promptly.
type Frontier interface {
	Push(e FrontierEntry)
	Pop() (FrontierEntry, bool)
	Len() int
	// Filter removes every entry for which keep returns false, used after
	// a reachability analysis to drop now-unreachable frontier entries.
	Filter(keep func(ref int32) bool)
}

// BFSFrontier is a plain FIFO frontier, giving the original's strict
// breadth-first exploration order (spec.md: "negative node id for strict
// FIFO" in the original's PQ-unification trick, done here directly
// through a queue instead).
type BFSFrontier struct {
	entries []FrontierEntry
	head    int
}

// NewBFS returns an empty FIFO frontier.
func NewBFS() *BFSFrontier { return &BFSFrontier{} }

func (f *BFSFrontier) Push(e FrontierEntry) { f.entries = append(f.entries, e) }

func (f *BFSFrontier) Pop() (FrontierEntry, bool) {
	if f.head >= len(f.entries) {
		return FrontierEntry{}, false
	}
	e := f.entries[f.head]
	f.head++
	if f.head > 1024 && f.head*2 > len(f.entries) {
		f.entries = append([]FrontierEntry(nil), f.entries[f.head:]...)
		f.head = 0
	}
	return e, true
}

func (f *BFSFrontier) Len() int { return len(f.entries) - f.head }

func (f *BFSFrontier) Filter(keep func(ref int32) bool) {
	out := f.entries[:0]
	for _, e := range f.entries[f.head:] {
		if keep(e.Ref) {
			out = append(out, e)
		}
	}
	f.entries = out
	f.head = 0
}

// maxHeap/minHeap back PQFrontier's two parallel priority queues.
type maxHeap []FrontierEntry

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[i].Score > h[j].Score }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(FrontierEntry)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type minHeap []FrontierEntry

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].Score < h[j].Score }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(FrontierEntry)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// PQFrontier alternates dequeuing the maximum-score and minimum-score
// pending entry, per spec.md §4.3's "two parallel priority queues...
// alternating". Every push goes to both heaps; a lazily-deleted entry
// (popped from one heap, already consumed via the other) is skipped via
// the live set.
type PQFrontier struct {
	max     maxHeap
	min     minHeap
	live    map[int32]int // ref -> pushes not yet dequeued
	useMax  bool
}

// NewPQ returns an empty alternating priority-queue frontier.
func NewPQ() *PQFrontier {
	return &PQFrontier{live: make(map[int32]int)}
}

func (f *PQFrontier) Push(e FrontierEntry) {
	heap.Push(&f.max, e)
	heap.Push(&f.min, e)
	f.live[e.Ref]++
}

func (f *PQFrontier) Pop() (FrontierEntry, bool) {
	for {
		if f.max.Len() == 0 && f.min.Len() == 0 {
			return FrontierEntry{}, false
		}
		f.useMax = !f.useMax
		var e FrontierEntry
		if f.useMax && f.max.Len() > 0 {
			e = heap.Pop(&f.max).(FrontierEntry)
		} else if f.min.Len() > 0 {
			e = heap.Pop(&f.min).(FrontierEntry)
		} else if f.max.Len() > 0 {
			e = heap.Pop(&f.max).(FrontierEntry)
		} else {
			continue
		}
		n := f.live[e.Ref]
		if n <= 0 {
			continue // already consumed via the other heap
		}
		if n > 1 {
			f.live[e.Ref] = n - 1 // a later push of the same ref is still pending
		} else {
			delete(f.live, e.Ref)
		}
		return e, true
	}
}

func (f *PQFrontier) Len() int {
	n := 0
	for _, v := range f.live {
		if v > 0 {
			n++
		}
	}
	return n
}

func (f *PQFrontier) Filter(keep func(ref int32) bool) {
	for ref := range f.live {
		if !keep(ref) {
			delete(f.live, ref)
		}
	}
}
