// Package shards implements the SHARDS single-pass LRU miss-ratio-curve
// estimator in both its fixed-rate and fixed-size variants (spec.md §4.D):
// hash-sampled weighted stack distance accumulated into per-size hit
// counters, finalized with a compulsory-miss correction and a prefix sum.
//
// © 2025 mrcsim authors. MIT License.
package shards

import (
	"github.com/voskan/mrcsim/internal/stacktree"
)

// Result is the finalized SHARDS output: cumulative hit counters at every
// size in Sizes.
type Result struct {
	Sizes    []uint64
	HitCount []float64
	HitBytes []float64
	NReq     uint64
	BReq     uint64
}

// MissRate returns the request miss rate at Sizes[i], clipped to [0,1].
func (r *Result) MissRate(i int) float64 {
	if r.NReq == 0 {
		return 0
	}
	return clip01(1 - r.HitCount[i]/float64(r.NReq))
}

// ByteMissRate returns the byte miss rate at Sizes[i], clipped to [0,1].
func (r *Result) ByteMissRate(i int) float64 {
	if r.BReq == 0 {
		return 0
	}
	return clip01(1 - r.HitBytes[i]/float64(r.BReq))
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// core is the state machine shared by fixed-rate and fixed-size SHARDS: a
// weighted stack-distance tree plus the last-access map it must be kept
// coherent with. Design notes (spec.md §9) call for encapsulating that
// coherence as one transactional operation rather than updating the two
// structures separately at each call site — touch is that operation.
type core struct {
	tree       *stacktree.Tree
	lastAccess map[uint64]uint64 // objID -> last sampled vtime

	sizes    []uint64
	hitCount []float64
	hitBytes []float64

	nReq, bReq               uint64
	sampledReq, sampledBytes float64
}

func newCore(sizes []uint64) *core {
	return &core{
		tree:       stacktree.New(),
		lastAccess: make(map[uint64]uint64),
		sizes:      sizes,
		hitCount:   make([]float64, len(sizes)),
		hitBytes:   make([]float64, len(sizes)),
	}
}

// touch records a sampled access to objID of size bytes at vtime, scaling
// any resulting hit by 1/rate. It is the single place the reuse tree and
// the last-access map are mutated together.
func (c *core) touch(objID, vtime, size uint64, rate float64) {
	if tPrev, ok := c.lastAccess[objID]; ok {
		d := float64(c.tree.Distance(tPrev)) / rate
		c.tree.Erase(tPrev)
		c.tree.Insert(vtime, int64(size))
		c.lastAccess[objID] = vtime

		if idx := lowerBound(c.sizes, d); idx < len(c.sizes) {
			c.hitCount[idx] += 1 / rate
			c.hitBytes[idx] += float64(size) / rate
		}
		return
	}
	c.lastAccess[objID] = vtime
	c.tree.Insert(vtime, int64(size))
}

// evict drops objID's reuse-tree entry and last-access record, used when
// fixed-size mode's BoundedMinMap expels an object to make room.
func (c *core) evict(objID uint64) {
	if tPrev, ok := c.lastAccess[objID]; ok {
		c.tree.Erase(tPrev)
		delete(c.lastAccess, objID)
	}
}

// lowerBound returns the smallest index i such that sizes[i] >= d, or
// len(sizes) if none qualifies. sizes is assumed sorted ascending
// (sizevec.Parse's post-condition).
func lowerBound(sizes []uint64, d float64) int {
	lo, hi := 0, len(sizes)
	for lo < hi {
		mid := (lo + hi) / 2
		if float64(sizes[mid]) >= d {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// finalize applies the compulsory-miss correction and the prefix sum that
// turns per-bucket hit counts into cumulative hits at each size (spec.md
// §4.D "Finalization").
func (c *core) finalize() *Result {
	hitCount := append([]float64(nil), c.hitCount...)
	hitBytes := append([]float64(nil), c.hitBytes...)

	if len(hitCount) > 0 {
		hitCount[0] += float64(c.nReq) - c.sampledReq
		hitBytes[0] += float64(c.bReq) - c.sampledBytes
	}
	for i := 1; i < len(hitCount); i++ {
		hitCount[i] += hitCount[i-1]
		hitBytes[i] += hitBytes[i-1]
	}

	return &Result{
		Sizes:    c.sizes,
		HitCount: hitCount,
		HitBytes: hitBytes,
		NReq:     c.nReq,
		BReq:     c.bReq,
	}
}
