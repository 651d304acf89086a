// Package trace defines the external collaborator mrcsim's profilers
// consume: a Reader that produces a stream of (timestamp, object id, object
// size) records. The profilers depend only on the Reader interface below.
// This package ships two implementations: the in-memory SliceReader used by
// the module's tests and benchmarks, and CSVFileReader for "csv" trace
// files (see Open). Other formats (binary traces, production log tailers,
// …) are not implemented here.
//
// © 2025 mrcsim authors. MIT License.
package trace

import "context"

// Request is one immutable trace record. VTime is the 1-based ordinal of
// the request within the trace — not a wall-clock timestamp — since every
// profiler in this module reasons about reuse distance and occupancy in
// terms of request order, not real time.
type Request struct {
	VTime   uint64
	ObjID   uint64
	ObjSize uint64
}

// WorkingSet reports the sum of unique object sizes (bytes) and the count
// of unique objects observed in a trace, used to resolve working-set
// fraction size specs.
type WorkingSet struct {
	NObjUnique   uint64
	NBytesUnique uint64
}

// Sampler is a deterministic spatial-sampling predicate: Sample(objID)
// reports whether the object is admitted into a downscaled trace. The same
// Sampler instance must return the same answer for the same objID across
// repeated calls (consistency across passes with the same seed) — this is
// what lets MINISIM install a sampler, rewind, and replay a reduced stream
// that matches the admitted fraction it measured on the first pass.
type Sampler interface {
	// Sample reports whether objID is admitted.
	Sample(objID uint64) bool
	// Rate returns the target admission fraction this sampler was built
	// with, for scale-up arithmetic (1/Rate).
	Rate() float64
}

// Reader is the trace-reading collaborator. Implementations are expected to
// be single-owner: a Reader must not be shared by two profilers
// concurrently (see spec.md §5), and Reset must rewind to the first record
// regardless of how many ReadNext calls preceded it.
type Reader interface {
	// ReadNext returns the next request, or ok=false at end of trace.
	ReadNext(ctx context.Context) (req Request, ok bool, err error)
	// Reset rewinds the reader to the first record.
	Reset(ctx context.Context) error
	// Close releases any resources held by the reader.
	Close() error
	// InstallSpatialSampler installs a deterministic sampler so that
	// subsequent ReadNext calls emit only admitted requests. Passing nil
	// removes any installed sampler.
	InstallSpatialSampler(s Sampler)
	// ComputeWorkingSet performs a full pass accumulating unique object
	// sizes, then resets itself before returning.
	ComputeWorkingSet(ctx context.Context) (WorkingSet, error)
}
