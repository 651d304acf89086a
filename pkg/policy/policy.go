// Package policy defines the Cache interface MINISIM drives: a byte-capacity
// eviction policy that admits and evicts objects keyed by an opaque object
// id. Concrete eviction algorithms (LRU, FIFO, ARC, …) are out of this
// module's scope per spec.md §1 — mrcsim treats them as an opaque
// collaborator and supplies only the minimal reference implementations
// below so pkg/minisim has something concrete to drive in tests, benches,
// and examples.
//
// © 2025 mrcsim authors. MIT License.
package policy

import "github.com/voskan/mrcsim/pkg/trace"

// Cache is one instance of an eviction policy bound to a fixed byte budget.
// A Cache is owned exclusively by one caller for its lifetime: spec.md §5's
// MINISIM worker-pool contract requires each worker to hold exclusive
// access to every Cache instance it drives, never sharing one across
// workers.
type Cache interface {
	// Access admits req.ObjID, reporting whether it was already resident
	// (a hit) before this call's own bookkeeping runs.
	Access(req trace.Request) (hit bool)
	// CapacityBytes returns the fixed byte budget this instance was built
	// with.
	CapacityBytes() uint64
	// OccupiedBytes returns the sum of resident object sizes.
	OccupiedBytes() uint64
}

// Factory builds a fresh Cache instance of one policy sized to capacityBytes.
// pkg/minisim calls a Factory once per target cache size.
type Factory func(capacityBytes uint64) Cache

// Registry resolves a policy name (as accepted by the CLI's --algo flag) to
// its Factory. Unknown names are the PolicyError case named in spec.md §7.
func Registry() map[string]Factory {
	return map[string]Factory{
		"lru":  func(capacityBytes uint64) Cache { return NewLRU(capacityBytes) },
		"fifo": func(capacityBytes uint64) Cache { return NewFIFO(capacityBytes) },
	}
}
