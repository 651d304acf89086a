package minisim

// worker.go partitions the cache instances into up to Threads contiguous
// groups and drives the buffered sampled stream through each group
// concurrently. Ownership follows spec.md §9's "each cache must be
// constructed, used, and destroyed by the same owner": every cache instance
// is indexed into exactly one worker's contiguous slice and touched by no
// other goroutine.

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/voskan/mrcsim/pkg/policy"
	"github.com/voskan/mrcsim/pkg/trace"
)

// simulate drives requests through caches using up to threads workers, each
// owning one contiguous sub-range of caches. On the first worker error, the
// group's context is canceled so every other worker stops before its next
// request boundary (spec.md §5); the returned error is that first failure
// and the partial miss counts must not be used.
func simulate(ctx context.Context, requests []trace.Request, caches []policy.Cache, threads int) (missCount, missBytes []uint64, err error) {
	missCount = make([]uint64, len(caches))
	missBytes = make([]uint64, len(caches))

	if threads > len(caches) {
		threads = len(caches)
	}
	if threads <= 0 {
		threads = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rng := range partition(len(caches), threads) {
		rng := rng
		g.Go(func() error {
			return simulateRange(gctx, requests, caches[rng.start:rng.end], missCount[rng.start:rng.end], missBytes[rng.start:rng.end])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return missCount, missBytes, nil
}

// simulateRange drives every request through every cache in this worker's
// slice, in trace order, checking for cancellation between requests so a
// sibling worker's failure stops this one promptly.
func simulateRange(ctx context.Context, requests []trace.Request, caches []policy.Cache, missCount, missBytes []uint64) error {
	for _, req := range requests {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, c := range caches {
			if hit := c.Access(req); !hit {
				missCount[i]++
				missBytes[i] += req.ObjSize
			}
		}
	}
	return nil
}

type cacheRange struct{ start, end int }

// partition splits [0,n) into up to k contiguous, near-equal ranges.
func partition(n, k int) []cacheRange {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	base, rem := n/k, n%k
	ranges := make([]cacheRange, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := base
		if i < rem {
			size++
		}
		ranges = append(ranges, cacheRange{start: start, end: start + size})
		start += size
	}
	return ranges
}
