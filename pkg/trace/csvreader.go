package trace

// csvreader.go implements the "open(path, kind, params) → Reader" side of
// spec.md §6 for the one concrete trace_kind this module ships: "csv",
// three unsigned columns per record (vtime,obj_id,obj_size). The file
// format itself is a boundary concern with no ecosystem library in the
// retrieval pack beyond stdlib encoding/csv (itself used the same way by
// jinterlante1206-AleutianLocal's compliance reporter) — see DESIGN.md.
//
// © 2025 mrcsim authors. MIT License.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// CSVFileReader is a Reader over a CSV file of (vtime,obj_id,obj_size)
// records.
type CSVFileReader struct {
	mu      sync.Mutex
	path    string
	f       *os.File
	csvr    *csv.Reader
	sampler Sampler
}

// OpenCSVFile opens path for reading as a CSV trace.
func OpenCSVFile(path string) (*CSVFileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening %s: %w", path, err)
	}
	r := &CSVFileReader{path: path, f: f}
	r.csvr = newCSVReader(f)
	return r, nil
}

func newCSVReader(f *os.File) *csv.Reader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.ReuseRecord = true
	return r
}

func parseCSVRecord(rec []string) (Request, error) {
	vtime, err := strconv.ParseUint(rec[0], 10, 64)
	if err != nil {
		return Request{}, fmt.Errorf("trace: invalid vtime %q: %w", rec[0], err)
	}
	objID, err := strconv.ParseUint(rec[1], 10, 64)
	if err != nil {
		return Request{}, fmt.Errorf("trace: invalid obj_id %q: %w", rec[1], err)
	}
	objSize, err := strconv.ParseUint(rec[2], 10, 64)
	if err != nil {
		return Request{}, fmt.Errorf("trace: invalid obj_size %q: %w", rec[2], err)
	}
	return Request{VTime: vtime, ObjID: objID, ObjSize: objSize}, nil
}

// ReadNext returns the next record, skipping any the installed sampler
// rejects.
func (r *CSVFileReader) ReadNext(ctx context.Context) (Request, bool, error) {
	if err := ctx.Err(); err != nil {
		return Request{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		req, ok, err := r.readRawLocked()
		if err != nil || !ok {
			return req, ok, err
		}
		if r.sampler == nil || r.sampler.Sample(req.ObjID) {
			return req, true, nil
		}
	}
}

func (r *CSVFileReader) readRawLocked() (Request, bool, error) {
	rec, err := r.csvr.Read()
	if err == io.EOF {
		return Request{}, false, nil
	}
	if err != nil {
		return Request{}, false, fmt.Errorf("trace: reading %s: %w", r.path, err)
	}
	req, err := parseCSVRecord(rec)
	if err != nil {
		return Request{}, false, err
	}
	return req, true, nil
}

// Reset rewinds the underlying file to the first record.
func (r *CSVFileReader) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("trace: rewinding %s: %w", r.path, err)
	}
	r.csvr = newCSVReader(r.f)
	return nil
}

// Close releases the underlying file handle.
func (r *CSVFileReader) Close() error {
	return r.f.Close()
}

// InstallSpatialSampler installs s; ReadNext filters against it from the
// current position onward.
func (r *CSVFileReader) InstallSpatialSampler(s Sampler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sampler = s
}

// ComputeWorkingSet scans the whole file once regardless of any installed
// sampler, then resets.
func (r *CSVFileReader) ComputeWorkingSet(ctx context.Context) (WorkingSet, error) {
	if err := r.Reset(ctx); err != nil {
		return WorkingSet{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint64]uint64)
	for {
		if err := ctx.Err(); err != nil {
			return WorkingSet{}, err
		}
		req, ok, err := r.readRawLocked()
		if err != nil {
			return WorkingSet{}, err
		}
		if !ok {
			break
		}
		if _, dup := seen[req.ObjID]; !dup {
			seen[req.ObjID] = req.ObjSize
		}
	}
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return WorkingSet{}, fmt.Errorf("trace: rewinding %s: %w", r.path, err)
	}
	r.csvr = newCSVReader(r.f)

	var ws WorkingSet
	ws.NObjUnique = uint64(len(seen))
	for _, sz := range seen {
		ws.NBytesUnique += sz
	}
	return ws, nil
}
