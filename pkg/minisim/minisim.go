// Package minisim implements MINISIM (spec.md §4.E): a two-pass,
// spatially-sampled multi-size cache simulator driven by a bounded worker
// pool. The first pass measures the raw and sampled request/byte totals;
// the reader is then rewound and a spatial sampler installed so the second
// pass replays only the admitted fraction through |S| concrete cache
// instances, whose miss counts are scaled back up to estimate the unsampled
// MRC.
//
// © 2025 mrcsim authors. MIT License.
package minisim

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/voskan/mrcsim/pkg/policy"
	"github.com/voskan/mrcsim/pkg/sizevec"
	"github.com/voskan/mrcsim/pkg/trace"
)

// ErrUnknownPolicy is the PolicyError case named in spec.md §7: MINISIM
// received a policy name absent from its registry.
var ErrUnknownPolicy = errors.New("minisim: unknown policy")

// Params configures a MINISIM run.
type Params struct {
	// Rate is the target spatial-sampling fraction, nominally (0, 0.5].
	// Rates above 0.5 are accepted but sampling is disabled (R is clamped
	// to 1) with a warning logged, per spec.md §4.E.
	Rate    float64
	Seed    uint64
	Threads int
	// PolicyName selects a Factory from Policies (pkg/policy.Registry() by
	// default if Policies is nil).
	PolicyName string
	Policies   map[string]policy.Factory
	Sizes      sizevec.SizeVector
	Logger     *zap.Logger
}

// Result is MINISIM's finalized, scaled-up per-size hit counters.
type Result struct {
	Sizes    []uint64
	HitCount []float64
	HitBytes []float64
	NReq     uint64
	BReq     uint64
}

// MissRate returns the request miss rate at Sizes[i], clipped to [0,1].
func (r *Result) MissRate(i int) float64 {
	if r.NReq == 0 {
		return 0
	}
	return clip(1-r.HitCount[i]/float64(r.NReq), 0, 1)
}

// ByteMissRate returns the byte miss rate at Sizes[i], clipped to [0,1].
func (r *Result) ByteMissRate(i int) float64 {
	if r.BReq == 0 {
		return 0
	}
	return clip(1-r.HitBytes[i]/float64(r.BReq), 0, 1)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run drives r through a complete MINISIM pass: raw-count pass, rewind,
// sampled replay across |Sizes| cache instances partitioned over up to
// Threads workers, and scale-up.
func Run(ctx context.Context, r trace.Reader, p Params) (*Result, error) {
	if len(p.Sizes) == 0 {
		return nil, fmt.Errorf("minisim: empty size vector")
	}
	if p.Threads <= 0 {
		p.Threads = 1
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	registry := p.Policies
	if registry == nil {
		registry = policy.Registry()
	}
	factory, ok := registry[p.PolicyName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, p.PolicyName)
	}

	rate := p.Rate
	if rate <= 0 {
		return nil, fmt.Errorf("minisim: sampling rate must be > 0, got %v", rate)
	}
	if rate > 0.5 {
		log.Warn("minisim: sampling rate above 0.5 disables sampling", zap.Float64("rate", rate))
		rate = 1.0
	}

	nReq, bReq, sampledReq, sampledBytes, err := firstPass(ctx, r, rate, p.Seed)
	if err != nil {
		return nil, err
	}

	if err := r.Reset(ctx); err != nil {
		return nil, fmt.Errorf("minisim: rewinding reader: %w", err)
	}
	sampler := trace.NewHashSampler(rate, p.Seed)
	r.InstallSpatialSampler(sampler)
	defer r.InstallSpatialSampler(nil)

	sampled, err := drainSampled(ctx, r)
	if err != nil {
		return nil, err
	}

	caches := make([]policy.Cache, len(p.Sizes))
	for i, sz := range p.Sizes {
		caches[i] = factory(uint64(float64(sz) * rate))
	}

	missCount, missBytes, err := simulate(ctx, sampled, caches, p.Threads)
	if err != nil {
		return nil, err
	}

	hitCount := make([]float64, len(p.Sizes))
	hitBytes := make([]float64, len(p.Sizes))
	for i := range p.Sizes {
		hitCount[i] = clip(float64(nReq)-float64(missCount[i])/rate, 0, float64(nReq))
		hitBytes[i] = clip(float64(bReq)-float64(missBytes[i])/rate, 0, float64(bReq))
	}

	log.Debug("minisim run complete",
		zap.Float64("rate", rate),
		zap.Uint64("n_req", nReq),
		zap.Float64("sampled_req", sampledReq),
		zap.Float64("sampled_bytes", sampledBytes),
	)

	return &Result{Sizes: p.Sizes, HitCount: hitCount, HitBytes: hitBytes, NReq: nReq, BReq: bReq}, nil
}

// firstPass accumulates the raw request/byte totals and, without installing
// a sampler on the reader, the counts that installing one would admit. It
// reads the reader to the end of the trace and leaves its sampler unset; the
// caller then calls Reset + InstallSpatialSampler.
func firstPass(ctx context.Context, r trace.Reader, rate float64, seed uint64) (nReq, bReq uint64, sampledReq, sampledBytes float64, err error) {
	sampler := trace.NewHashSampler(rate, seed)
	for {
		req, ok, readErr := r.ReadNext(ctx)
		if readErr != nil {
			return 0, 0, 0, 0, fmt.Errorf("minisim: first pass reading trace: %w", readErr)
		}
		if !ok {
			break
		}
		nReq++
		bReq += req.ObjSize
		if sampler.Sample(req.ObjID) {
			sampledReq++
			sampledBytes += float64(req.ObjSize)
		}
	}
	return nReq, bReq, sampledReq, sampledBytes, nil
}

// drainSampled reads the entire sampled stream into memory. MINISIM's
// worker pool needs every worker to observe the same request sequence in
// order (spec.md §5's "trace is broadcast" requirement); buffering once
// here and handing every worker a read-only view satisfies that without
// requiring the Reader itself to support concurrent readers, which spec.md
// §5 explicitly says it need not.
func drainSampled(ctx context.Context, r trace.Reader) ([]trace.Request, error) {
	var out []trace.Request
	for {
		req, ok, err := r.ReadNext(ctx)
		if err != nil {
			return nil, fmt.Errorf("minisim: second pass reading trace: %w", err)
		}
		if !ok {
			break
		}
		out = append(out, req)
	}
	return out, nil
}
