// Package belady computes OnlineBelady (spec.md §4.F): an offline-optimal
// lower-bound reference MRC point for a single fixed cache size, evaluated
// online over virtual time using a lazy-propagation segment tree as the
// occupancy function.
//
// © 2025 mrcsim authors. MIT License.
package belady

import (
	"context"
	"fmt"

	"github.com/voskan/mrcsim/internal/segtree"
	"github.com/voskan/mrcsim/pkg/trace"
)

// Result is the finalized OnlineBelady outcome for one cache size.
type Result struct {
	CacheSizeBytes uint64
	NReq           uint64
	BReq           uint64
	NHit           uint64
	HitBytes       uint64
}

// MissRate returns the request miss rate, clipped to [0,1] (it is exact by
// construction here, so clipping is a no-op except on an empty trace).
func (r *Result) MissRate() float64 {
	if r.NReq == 0 {
		return 0
	}
	return float64(r.NReq-r.NHit) / float64(r.NReq)
}

// ByteMissRate returns the byte miss rate.
func (r *Result) ByteMissRate() float64 {
	if r.BReq == 0 {
		return 0
	}
	return float64(r.BReq-r.HitBytes) / float64(r.BReq)
}

// Run drives r to completion under OnlineBelady for a single cache size.
//
// Rationale (spec.md §4.F): the segment tree represents the occupancy
// function over retained virtual time. An object can be retained from its
// previous reference to its current one iff the peak occupancy over that
// interval, plus its own size, fits within cacheSizeBytes. No eviction
// decision is ever committed retroactively for an object that is never
// re-referenced — unreferenced objects contribute zero benefit, matching
// Belady's farthest-future-reference principle without needing to know the
// future explicitly.
func Run(ctx context.Context, r trace.Reader, cacheSizeBytes uint64) (*Result, error) {
	if cacheSizeBytes == 0 {
		return nil, fmt.Errorf("belady: cache size must be > 0")
	}

	tree := segtree.New()
	lastAccess := make(map[uint64]uint64)
	res := &Result{CacheSizeBytes: cacheSizeBytes}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, ok, err := r.ReadNext(ctx)
		if err != nil {
			return nil, fmt.Errorf("belady: reading trace: %w", err)
		}
		if !ok {
			break
		}
		res.NReq++
		res.BReq += req.ObjSize

		if tPrev, seen := lastAccess[req.ObjID]; seen {
			occupancy := tree.Query(int(tPrev), int(req.VTime))
			if uint64(occupancy)+req.ObjSize <= cacheSizeBytes {
				res.NHit++
				res.HitBytes += req.ObjSize
				tree.Update(int(tPrev), int(req.VTime), int64(req.ObjSize))
			}
		}
		lastAccess[req.ObjID] = req.VTime
	}

	return res, nil
}
