// Package bench provides reproducible micro-benchmarks for mrcsim's
// profilers. Run via: go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// The benchmarks share a single synthetic Zipf-distributed dataset so
// results are comparable across versions:
//   1. FixedRate              — SHARDS' single-threaded admission path
//   2. FixedSize              — SHARDS' adaptive-rate admission path
//   3. MinisimThreadScaling   — the worker-pool multi-cache simulation,
//      run at 1, 2, 4 and 8 threads via b.Run subtests, to surface the
//      worker-pool's scaling behavior rather than a single fixed Threads
//      value.
//
// NOTE: correctness tests live in each package's own _test.go files; this
// file is only for performance.
//
// © 2025 mrcsim authors. MIT License.
package bench

import (
	"context"
	"math/rand"
	"testing"

	"github.com/voskan/mrcsim/pkg/minisim"
	"github.com/voskan/mrcsim/pkg/shards"
	"github.com/voskan/mrcsim/pkg/sizevec"
	"github.com/voskan/mrcsim/pkg/trace"
)

const (
	nReq    = 200_000
	nObj    = 20_000
	objSize = 4096
)

// dataset is built once and reused across benchmarks to avoid paying
// generation cost inside the timed loop.
var dataset = func() []trace.Request {
	rnd := rand.New(rand.NewSource(42))
	z := rand.NewZipf(rnd, 1.2, 1.0, nObj-1)
	reqs := make([]trace.Request, nReq)
	for i := range reqs {
		reqs[i] = trace.Request{VTime: uint64(i + 1), ObjID: z.Uint64(), ObjSize: objSize}
	}
	return reqs
}()

func benchSizes() sizevec.SizeVector {
	return sizevec.SizeVector{
		1 << 20,
		8 << 20,
		32 << 20,
		64 << 20,
	}
}

func BenchmarkFixedRate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := trace.NewSliceReader(dataset)
		_, err := shards.RunFixedRate(context.Background(), r, shards.FixedRateParams{
			Rate: 0.05, Seed: 1, Sizes: benchSizes(),
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFixedSize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := trace.NewSliceReader(dataset)
		_, err := shards.RunFixedSize(context.Background(), r, shards.FixedSizeParams{
			Capacity: 1000, Seed: 1, Sizes: benchSizes(),
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMinisimThreadScaling(b *testing.B) {
	for _, threads := range []int{1, 2, 4, 8} {
		b.Run(threadLabel(threads), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				r := trace.NewSliceReader(dataset)
				_, err := minisim.Run(context.Background(), r, minisim.Params{
					Rate: 0.1, Seed: 1, Threads: threads, PolicyName: "lru", Sizes: benchSizes(),
				})
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func threadLabel(n int) string {
	switch n {
	case 1:
		return "threads=1"
	case 2:
		return "threads=2"
	case 4:
		return "threads=4"
	case 8:
		return "threads=8"
	default:
		return "threads=N"
	}
}
