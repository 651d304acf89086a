package trace

// slicereader.go implements a trivial in-memory Reader over a []Request. It
// exists so the profilers in this module — and their tests, benchmarks, and
// examples — have a concrete collaborator to drive without depending on a
// real trace file format, which stays out of scope per spec.md §1.
//
// © 2025 mrcsim authors. MIT License.

import (
	"context"
	"sync"
)

// SliceReader is a Reader backed by an in-memory slice of requests.
type SliceReader struct {
	mu      sync.Mutex
	records []Request
	pos     int
	sampler Sampler
}

// NewSliceReader wraps records as a Reader. The slice is not copied —
// callers must not mutate it while the reader is in use.
func NewSliceReader(records []Request) *SliceReader {
	return &SliceReader{records: records}
}

// ReadNext returns the next request, skipping any that the installed
// sampler rejects.
func (r *SliceReader) ReadNext(ctx context.Context) (Request, bool, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pos < len(r.records) {
		req := r.records[r.pos]
		r.pos++
		if r.sampler == nil || r.sampler.Sample(req.ObjID) {
			return req, true, nil
		}
	}
	return Request{}, false, nil
}

// Reset rewinds to the first record.
func (r *SliceReader) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pos = 0
	return nil
}

// Close is a no-op: there is nothing to release for an in-memory reader.
func (r *SliceReader) Close() error { return nil }

// InstallSpatialSampler installs s; ReadNext filters against it from the
// current position onward.
func (r *SliceReader) InstallSpatialSampler(s Sampler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampler = s
}

// ComputeWorkingSet sums the size of every unique object id, then resets.
func (r *SliceReader) ComputeWorkingSet(ctx context.Context) (WorkingSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint64]uint64, len(r.records))
	for _, req := range r.records {
		if _, ok := seen[req.ObjID]; !ok {
			seen[req.ObjID] = req.ObjSize
		}
	}
	var ws WorkingSet
	ws.NObjUnique = uint64(len(seen))
	for _, sz := range seen {
		ws.NBytesUnique += sz
	}
	r.pos = 0
	return ws, nil
}
