package main

// tracegen.go generates deterministic synthetic traces for exercising the
// profilers outside `go test` — the same role the teacher's
// tools/dataset_gen plays for raw key datasets, retargeted to emit full
// (vtime,obj_id,obj_size) CSV records that pkg/trace.OpenCSVFile can read
// directly.
//
// Usage:
//   go run tools/tracegen/tracegen.go -n 1000000 -dist=zipf -seed=42 -out trace.csv
//
// Flags:
//   -n        number of requests to generate (default 1e6)
//   -dist     object-id distribution: "uniform" or "zipf" (default uniform)
//   -nobj     number of distinct object ids (default 10000)
//   -zipfs    Zipf s parameter (>1)  (default 1.2)
//   -zipfv    Zipf v parameter (>0)  (default 1.0)
//   -minsize  minimum object size in bytes (default 64)
//   -maxsize  maximum object size in bytes (default 65536)
//   -seed     RNG seed (default current time)
//   -out      output file (default stdout)
//
// © 2025 mrcsim authors. MIT License.

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		n       = flag.Int("n", 1_000_000, "number of requests to generate")
		dist    = flag.String("dist", "uniform", "object-id distribution: uniform or zipf")
		nObj    = flag.Uint64("nobj", 10_000, "number of distinct object ids")
		zipfS   = flag.Float64("zipfs", 1.2, "zipf s parameter (>1)")
		zipfV   = flag.Float64("zipfv", 1.0, "zipf v parameter (>0)")
		minSize = flag.Uint64("minsize", 64, "minimum object size in bytes")
		maxSize = flag.Uint64("maxsize", 65536, "maximum object size in bytes")
		seedVal = flag.Int64("seed", time.Now().UnixNano(), "PRNG seed")
		outPath = flag.String("out", "", "output file (default stdout)")
	)
	flag.Parse()

	if *nObj == 0 {
		fmt.Fprintln(os.Stderr, "nobj must be > 0")
		os.Exit(1)
	}
	if *maxSize < *minSize {
		fmt.Fprintln(os.Stderr, "maxsize must be >= minsize")
		os.Exit(1)
	}

	rnd := rand.New(rand.NewSource(*seedVal))

	var nextObjID func() uint64
	switch *dist {
	case "uniform":
		nextObjID = func() uint64 { return rnd.Uint64() % *nObj }
	case "zipf":
		if *zipfS <= 1.0 || *zipfV <= 0 {
			fmt.Fprintln(os.Stderr, "zipfs must be >1 and zipfv >0")
			os.Exit(1)
		}
		z := rand.NewZipf(rnd, *zipfS, *zipfV, *nObj-1)
		nextObjID = z.Uint64
	default:
		fmt.Fprintln(os.Stderr, "unknown dist:", *dist)
		os.Exit(1)
	}

	// A given object id always maps to the same size — a trace replaying
	// the same id twice must see the same obj_size, matching real cache
	// workloads where object size is a property of the key, not the
	// request.
	sizeRange := *maxSize - *minSize + 1
	sizeOf := func(objID uint64) uint64 {
		if sizeRange == 1 {
			return *minSize
		}
		h := objID*2654435761 + uint64(*seedVal)
		return *minSize + h%sizeRange
	}

	var out *os.File
	var err error
	if *outPath == "" {
		out = os.Stdout
	} else {
		out, err = os.Create(*outPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create file:", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	w := bufio.NewWriterSize(out, 1<<20)
	defer w.Flush()

	for i := 1; i <= *n; i++ {
		objID := nextObjID()
		fmt.Fprintf(w, "%d,%d,%d\n", i, objID, sizeOf(objID))
	}
}
