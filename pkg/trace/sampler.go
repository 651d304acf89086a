package trace

// sampler.go implements the deterministic spatial sampler used by SHARDS and
// MINISIM: admit an object iff a 64-bit hash of (objID ^ seed) falls at or
// below a rate-derived threshold.
//
// This must be reproducible given only the numeric seed — MINISIM
// constructs a fresh sampler for its first pass (to measure sampled_req/
// sampled_bytes) and another for its second, rewound pass, and both must
// agree on every admission decision. hash/maphash's Seed is deliberately
// randomized per process and per call, so it cannot serve that contract
// without smuggling in mutable global state (which the teacher's own design
// notes rule out — "avoid any mutable singletons"). hash/fnv's FNV-1a is
// the stdlib's deterministic alternative: same bytes in, same digest out,
// regardless of process or call history.
//
// © 2025 mrcsim authors. MIT License.

import (
	"encoding/binary"
	"hash/fnv"
)

// HashSampler admits an object iff hash(objID ^ seed) <= floor(MaxUint64 *
// rate). It is safe for concurrent use: all state is immutable after
// construction.
type HashSampler struct {
	rate      float64
	threshold uint64
	xorSeed   uint64
}

// NewHashSampler builds a sampler admitting approximately the given rate
// (0, 1] of object ids, deterministically for a given seed value: the same
// (rate, seed) pair always yields the same admission decision for a given
// objID, across any number of constructions.
func NewHashSampler(rate float64, seed uint64) *HashSampler {
	s := &HashSampler{
		rate:    rate,
		xorSeed: seed,
	}
	if rate >= 1 {
		s.threshold = ^uint64(0)
	} else {
		s.threshold = uint64(float64(^uint64(0)) * rate)
	}
	return s
}

// Sample reports whether objID is admitted.
func (s *HashSampler) Sample(objID uint64) bool {
	return Hash64(objID, s.xorSeed) <= s.threshold
}

// Rate returns the configured target admission fraction.
func (s *HashSampler) Rate() float64 { return s.rate }

// Hash64 is the deterministic 64-bit hash SHARDS and MINISIM admit requests
// against: FNV-1a over the little-endian bytes of objID^seed. Exported so
// pkg/shards's fixed-size mode, which needs the raw hash value (not just an
// admit/reject verdict) to compare against BoundedMinMap scores, shares the
// exact same function HashSampler uses — a spatial sampler built from one
// seed and a fixed-size SHARDS run keyed by the same seed must agree on
// every admission decision.
func Hash64(objID, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], objID^seed)
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}
