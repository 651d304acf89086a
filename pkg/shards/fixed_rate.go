package shards

// fixed_rate.go implements SHARDS fixed-rate mode: a constant admission
// threshold derived once from Rate, applied unchanged for the whole run.

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/voskan/mrcsim/pkg/sizevec"
	"github.com/voskan/mrcsim/pkg/trace"
)

// FixedRateParams configures a fixed-rate SHARDS run.
type FixedRateParams struct {
	// Rate is the sampling rate, in (0,1]. Rate==1 disables sampling and
	// yields the exact reuse-distance MRC (testable property 2).
	Rate float64
	Seed uint64
	// Sizes is the target cache-size vector, strictly increasing.
	Sizes sizevec.SizeVector
	// Logger receives the one summary line emitted at the end of the run.
	// Nil defaults to a no-op logger, the teacher's own WithLogger default.
	Logger *zap.Logger
}

// RunFixedRate drives r to completion under fixed-rate SHARDS, returning the
// finalized per-size hit counters.
func RunFixedRate(ctx context.Context, r trace.Reader, p FixedRateParams) (*Result, error) {
	if p.Rate <= 0 || p.Rate > 1 {
		return nil, fmt.Errorf("shards: fixed-rate sampling rate %v out of range (0,1]", p.Rate)
	}
	if len(p.Sizes) == 0 {
		return nil, fmt.Errorf("shards: empty size vector")
	}
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	threshold := admissionThreshold(p.Rate)
	c := newCore(p.Sizes)

	for {
		req, ok, err := r.ReadNext(ctx)
		if err != nil {
			return nil, fmt.Errorf("shards: reading trace: %w", err)
		}
		if !ok {
			break
		}
		c.nReq++
		c.bReq += req.ObjSize

		if trace.Hash64(req.ObjID, p.Seed) > threshold {
			continue
		}
		c.sampledReq += 1 / p.Rate
		c.sampledBytes += float64(req.ObjSize) / p.Rate
		c.touch(req.ObjID, req.VTime, req.ObjSize, p.Rate)
	}

	log.Debug("shards fixed-rate run complete",
		zap.Float64("rate", p.Rate),
		zap.Uint64("n_req", c.nReq),
		zap.Float64("sampled_req", c.sampledReq),
	)
	return c.finalize(), nil
}

// admissionThreshold returns floor(MaxUint64 * rate), or MaxUint64 exactly
// when rate==1 (floating-point multiplication would otherwise round down by
// one ULP and reject the very largest hash value).
func admissionThreshold(rate float64) uint64 {
	if rate >= 1 {
		return math.MaxUint64
	}
	return uint64(float64(math.MaxUint64) * rate)
}
