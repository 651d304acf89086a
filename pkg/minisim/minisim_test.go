package minisim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/voskan/mrcsim/pkg/sizevec"
	"github.com/voskan/mrcsim/pkg/trace"
)

func zipfLikeTrace(n int) []trace.Request {
	// A small, deterministic repeating-access pattern: not a real Zipf
	// generator (that lives in tools/tracegen), just enough reuse to
	// exercise hits and misses here.
	pattern := []uint64{1, 2, 3, 1, 2, 1, 4, 5, 1, 2, 3, 6, 1, 7, 2}
	reqs := make([]trace.Request, 0, n)
	for i := 0; i < n; i++ {
		reqs = append(reqs, trace.Request{
			VTime:   uint64(i + 1),
			ObjID:   pattern[i%len(pattern)],
			ObjSize: 1,
		})
	}
	return reqs
}

func TestRunRejectsUnknownPolicy(t *testing.T) {
	r := trace.NewSliceReader(zipfLikeTrace(10))
	_, err := Run(context.Background(), r, Params{
		Rate:       0.5,
		PolicyName: "arc-ghost-deluxe",
		Sizes:      sizevec.SizeVector{1, 2},
		Threads:    2,
	})
	if !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("got %v, want ErrUnknownPolicy", err)
	}
}

func TestRunRejectsEmptySizes(t *testing.T) {
	r := trace.NewSliceReader(zipfLikeTrace(10))
	_, err := Run(context.Background(), r, Params{Rate: 0.5, PolicyName: "lru"})
	if err == nil {
		t.Fatalf("expected error for empty size vector")
	}
}

func TestRunDeterministicAcrossRepeatedRunsSameSeed(t *testing.T) {
	records := zipfLikeTrace(300)
	params := Params{
		Rate:       0.3,
		Seed:       7,
		Threads:    3,
		PolicyName: "lru",
		Sizes:      sizevec.SizeVector{1, 2, 4, 8},
	}

	res1, err := Run(context.Background(), trace.NewSliceReader(records), params)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	res2, err := Run(context.Background(), trace.NewSliceReader(records), params)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if !reflect.DeepEqual(res1.HitCount, res2.HitCount) {
		t.Fatalf("non-deterministic HitCount across runs: %v vs %v", res1.HitCount, res2.HitCount)
	}
	if !reflect.DeepEqual(res1.HitBytes, res2.HitBytes) {
		t.Fatalf("non-deterministic HitBytes across runs: %v vs %v", res1.HitBytes, res2.HitBytes)
	}
}

func TestRunMonotonicHitCounts(t *testing.T) {
	records := zipfLikeTrace(300)
	res, err := Run(context.Background(), trace.NewSliceReader(records), Params{
		Rate:       0.8, // above 0.5: sampling disabled
		Seed:       3,
		Threads:    2,
		PolicyName: "fifo",
		Sizes:      sizevec.SizeVector{1, 2, 3, 5, 8},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(res.HitCount); i++ {
		if res.HitCount[i] < res.HitCount[i-1] {
			t.Fatalf("HitCount not monotonic at %d: %v", i, res.HitCount)
		}
		if res.HitBytes[i] < res.HitBytes[i-1] {
			t.Fatalf("HitBytes not monotonic at %d: %v", i, res.HitBytes)
		}
	}
	if res.NReq != 300 {
		t.Fatalf("NReq = %d, want 300", res.NReq)
	}
}

func TestPartitionCoversAllIndicesExactlyOnce(t *testing.T) {
	for _, tc := range []struct{ n, k int }{{10, 3}, {5, 5}, {5, 1}, {1, 4}, {0, 3}} {
		ranges := partition(tc.n, tc.k)
		seen := make([]bool, tc.n)
		for _, r := range ranges {
			for i := r.start; i < r.end; i++ {
				if seen[i] {
					t.Fatalf("n=%d k=%d: index %d covered twice", tc.n, tc.k, i)
				}
				seen[i] = true
			}
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("n=%d k=%d: index %d never covered", tc.n, tc.k, i)
			}
		}
	}
}
