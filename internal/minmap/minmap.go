// Package minmap implements BoundedMinMap: a bounded (score, key) set that
// keeps only the N smallest-scored entries ever offered, evicting the
// largest-scored entry on overflow. It backs SHARDS' fixed-size sampling,
// where "score" is a 64-bit hash of the object id and membership in the set
// decides which objects are currently sampled.
//
// Internally this is a max-heap over (score, key) pairs with a hash index
// for O(1) membership/current-score lookups, and lazy deletion: updating a
// key's score pushes a fresh heap entry instead of reheapifying in place,
// and stale entries are discarded the next time they reach the top. This is
// the standard idiom for "top-K with frequent updates" — no ecosystem
// library beats a `container/heap` wrapper here.
//
// © 2025 mrcsim authors. MIT License.
package minmap

import "container/heap"

type pair struct {
	score uint64
	key   uint64
}

// less implements the "order primarily by score then by key" comparison:
// a is smaller than b iff a would sort before b in the underlying ordered
// set (ascending score, ascending key on ties).
func (a pair) less(b pair) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.key < b.key
}

// maxHeap is a max-heap over pair, ordered so the largest (score, key) pair
// sits at index 0 — this is the candidate BoundedMinMap evicts on overflow.
type maxHeap []pair

func (h maxHeap) Len() int            { return len(h) }
func (h maxHeap) Less(i, j int) bool  { return h[j].less(h[i]) }
func (h maxHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x interface{}) { *h = append(*h, x.(pair)) }
func (h *maxHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Map is a BoundedMinMap of capacity N.
type Map struct {
	n    int
	live map[uint64]uint64 // key -> current score, authoritative
	h    maxHeap
}

// New constructs a BoundedMinMap with capacity n (n must be > 0).
func New(n int) *Map {
	return &Map{
		n:    n,
		live: make(map[uint64]uint64, n),
	}
}

// Full reports whether the map currently holds N entries.
func (m *Map) Full() bool { return len(m.live) >= m.n }

// Contains reports whether key is currently tracked.
func (m *Map) Contains(key uint64) bool {
	_, ok := m.live[key]
	return ok
}

// Len returns the number of tracked entries.
func (m *Map) Len() int { return len(m.live) }

// dropStale discards heap entries whose score no longer matches live[key]
// (superseded by a later update or already evicted) until the top is valid
// or the heap is empty.
func (m *Map) dropStale() {
	for len(m.h) > 0 {
		top := m.h[0]
		if cur, ok := m.live[top.key]; ok && cur == top.score {
			return
		}
		heap.Pop(&m.h)
	}
}

// MaxScore returns the largest score currently held. Undefined (returns 0)
// when the map is empty — callers must check Len()/Full() first per the
// component contract.
func (m *Map) MaxScore() uint64 {
	m.dropStale()
	if len(m.h) == 0 {
		return 0
	}
	return m.h[0].score
}

// Insert offers (key, score). If key is already tracked, its score is
// updated and (0, false) is returned. Else if the map is not full, the pair
// is added and (0, false) is returned. Else if score is strictly smaller
// than the current max score, the entry holding the max is evicted and
// (evictedKey, true) is returned; otherwise the offer is rejected and
// (0, false) is returned without inserting.
//
// The eviction comparison is strict '<': a score equal to the current max
// when full is rejected, never evicts. This resolves the "<=" vs "<"
// inconsistency between source variants in favor of the strict form.
func (m *Map) Insert(key, score uint64) (evictedKey uint64, evicted bool) {
	if _, ok := m.live[key]; ok {
		m.live[key] = score
		heap.Push(&m.h, pair{score: score, key: key})
		return 0, false
	}

	if len(m.live) < m.n {
		m.live[key] = score
		heap.Push(&m.h, pair{score: score, key: key})
		return 0, false
	}

	max := m.MaxScore()
	if score >= max {
		return 0, false
	}

	m.dropStale()
	victim := m.h[0]
	heap.Pop(&m.h)
	delete(m.live, victim.key)

	m.live[key] = score
	heap.Push(&m.h, pair{score: score, key: key})
	return victim.key, true
}
