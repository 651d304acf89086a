// Package profiler implements ProfilerRunner (spec.md §4.G): it resolves a
// size specification, dispatches to the chosen profiler, and renders the
// finalized MRC table. Per spec.md §9's design note, the profiler choice is
// modeled as a tagged variant (exactly one of Spec.Shards / Spec.Minisim is
// set) rather than an interface with virtual dispatch — a closed, two-case
// set doesn't earn an abstraction the teacher itself avoids for comparable
// shapes.
//
// © 2025 mrcsim authors. MIT License.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voskan/mrcsim/pkg/belady"
	"github.com/voskan/mrcsim/pkg/minisim"
	"github.com/voskan/mrcsim/pkg/shards"
	"github.com/voskan/mrcsim/pkg/sizevec"
	"github.com/voskan/mrcsim/pkg/trace"
)

// ShardsMode selects between SHARDS' two admission strategies.
type ShardsMode int

const (
	ShardsFixedRate ShardsMode = iota
	ShardsFixedSize
)

// ShardsSpec configures a SHARDS run.
type ShardsSpec struct {
	Mode     ShardsMode
	Rate     float64 // used when Mode == ShardsFixedRate
	Capacity int     // used when Mode == ShardsFixedSize
	Seed     uint64
}

// MinisimSpec configures a MINISIM run.
type MinisimSpec struct {
	Rate       float64
	Seed       uint64
	Threads    int
	PolicyName string
}

// Spec is the tagged Profiler = Shards | Minisim variant: exactly one field
// must be non-nil.
type Spec struct {
	Shards  *ShardsSpec
	Minisim *MinisimSpec
}

func (s Spec) kind() (string, error) {
	switch {
	case s.Shards != nil && s.Minisim == nil:
		return "shards", nil
	case s.Minisim != nil && s.Shards == nil:
		return "minisim", nil
	default:
		return "", fmt.Errorf("%w: exactly one of Spec.Shards or Spec.Minisim must be set", ErrConfig)
	}
}

// RunParams parameterizes one Runner.Run call.
type RunParams struct {
	Reader   trace.Reader
	Profiler Spec
	// SizeSpec is the comma-separated size specification parsed by
	// pkg/sizevec.
	SizeSpec string
	// Fingerprint identifies this (trace, profiler, params, size spec)
	// combination for the optional result store. Empty disables caching
	// for this run regardless of whether a store is configured.
	Fingerprint string
}

// Runner binds the ambient stack (logging, metrics, result cache, policy
// registry) to repeated profiler runs.
type Runner struct {
	cfg     *config
	metrics metricsSink
}

// New builds a Runner. With no options, metrics and the result store are
// disabled and logging is a no-op — identical to the teacher's
// zero-option Cache. The metrics sink is constructed once here, not per
// Run call: a Runner is meant to serve many Run calls against the same
// registry, and promMetrics.MustRegister would
// panic on the second call if it re-registered its collectors every time.
func New(opts ...Option) *Runner {
	cfg := applyOptions(opts)
	var sink metricsSink = noopMetrics{}
	if cfg.registry != nil {
		sink = newPromMetrics(cfg.registry)
	}
	return &Runner{cfg: cfg, metrics: sink}
}

// Run resolves sizes, drives the configured profiler over p.Reader to
// completion, and returns the finalized MRC table.
func (r *Runner) Run(ctx context.Context, p RunParams) (*Table, error) {
	kind, err := p.Profiler.kind()
	if err != nil {
		return nil, err
	}

	if cached, ok, lookupErr := lookupResult(r.cfg.resultStore, p.Fingerprint); lookupErr != nil {
		r.cfg.logger.Warn("profiler: result store lookup failed", zap.Error(lookupErr))
	} else if ok {
		r.cfg.logger.Debug("profiler: result store hit", zap.String("fingerprint", p.Fingerprint))
		return cached, nil
	}

	if err := r.preValidate(kind, p.Profiler); err != nil {
		return nil, err
	}

	sizes, wss, err := r.resolveSizes(ctx, p.Reader, p.SizeSpec)
	if err != nil {
		return nil, err
	}

	metrics := r.metrics
	start := time.Now()

	var rows []Row
	var nReq uint64

	switch kind {
	case "shards":
		rows, nReq, err = r.runShards(ctx, p.Reader, *p.Profiler.Shards, sizes, wss)
	case "minisim":
		rows, nReq, err = r.runMinisim(ctx, p.Reader, *p.Profiler.Minisim, sizes, wss, metrics)
	}
	if err != nil {
		if errors.Is(err, minisim.ErrUnknownPolicy) {
			return nil, fmt.Errorf("%w: %v", ErrPolicy, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	metrics.addRequestsProcessed(kind, nReq)
	metrics.incRowsEmitted(kind, len(rows))
	metrics.observeRunDuration(kind, time.Since(start))

	table := &Table{ProfilerKind: kind, Rows: rows}
	if err := storeResult(r.cfg.resultStore, p.Fingerprint, table); err != nil {
		r.cfg.logger.Warn("profiler: result store write failed", zap.Error(err))
	}
	return table, nil
}

// preValidate catches every ConfigError/PolicyError spec.md §7 requires be
// detected before any trace read begins.
func (r *Runner) preValidate(kind string, spec Spec) error {
	switch kind {
	case "shards":
		s := spec.Shards
		switch s.Mode {
		case ShardsFixedRate:
			if s.Rate <= 0 || s.Rate > 1 {
				return fmt.Errorf("%w: shards fixed-rate sampling rate %v out of range (0,1]", ErrConfig, s.Rate)
			}
		case ShardsFixedSize:
			if s.Capacity <= 0 {
				return fmt.Errorf("%w: shards fixed-size capacity must be > 0, got %d", ErrConfig, s.Capacity)
			}
		default:
			return fmt.Errorf("%w: unknown shards mode %d", ErrConfig, s.Mode)
		}
	case "minisim":
		m := spec.Minisim
		if m.Rate <= 0 {
			return fmt.Errorf("%w: minisim sampling rate must be > 0, got %v", ErrConfig, m.Rate)
		}
		if _, ok := r.cfg.policies[m.PolicyName]; !ok {
			return fmt.Errorf("%w: %q", ErrPolicy, m.PolicyName)
		}
	}
	return nil
}

func (r *Runner) runShards(ctx context.Context, reader trace.Reader, spec ShardsSpec, sizes sizevec.SizeVector, wss *uint64) ([]Row, uint64, error) {
	var res *shards.Result
	var err error
	switch spec.Mode {
	case ShardsFixedRate:
		res, err = shards.RunFixedRate(ctx, reader, shards.FixedRateParams{
			Rate: spec.Rate, Seed: spec.Seed, Sizes: sizes, Logger: r.cfg.logger,
		})
	case ShardsFixedSize:
		res, err = shards.RunFixedSize(ctx, reader, shards.FixedSizeParams{
			Capacity: spec.Capacity, Seed: spec.Seed, Sizes: sizes, Logger: r.cfg.logger,
		})
	}
	if err != nil {
		return nil, 0, err
	}
	return rowsFromSizes(sizes, wss, res.NReq, res.MissRate, res.ByteMissRate), res.NReq, nil
}

func (r *Runner) runMinisim(ctx context.Context, reader trace.Reader, spec MinisimSpec, sizes sizevec.SizeVector, wss *uint64, metrics metricsSink) ([]Row, uint64, error) {
	res, err := minisim.Run(ctx, reader, minisim.Params{
		Rate:       spec.Rate,
		Seed:       spec.Seed,
		Threads:    spec.Threads,
		PolicyName: spec.PolicyName,
		Policies:   r.cfg.policies,
		Sizes:      sizes,
		Logger:     r.cfg.logger,
	})
	if err != nil {
		// A non-policy failure here is either a reader error from one of
		// MINISIM's two trace passes or a worker-pool failure (cancellation
		// of the pool's context) — either way it means the run's counters
		// are invalid and it is counted as a worker failure, not silently
		// dropped.
		if !errors.Is(err, minisim.ErrUnknownPolicy) {
			metrics.incWorkerFailure()
		}
		return nil, 0, err
	}
	return rowsFromSizes(sizes, wss, res.NReq, res.MissRate, res.ByteMissRate), res.NReq, nil
}

func rowsFromSizes(sizes sizevec.SizeVector, wss *uint64, nReq uint64, missRate, byteMissRate func(int) float64) []Row {
	rows := make([]Row, len(sizes))
	for i, sz := range sizes {
		var ratio *float64
		if wss != nil && *wss > 0 {
			v := float64(sz) / float64(*wss)
			ratio = &v
		}
		rows[i] = Row{WSSRatio: ratio, CacheSizeBytes: sz, MissRate: missRate(i), ByteMissRate: byteMissRate(i)}
	}
	return rows
}

// resolveSizes parses spec's size specification, lazily computing the
// trace's working-set size only if the spec requires it (sizevec.Parse
// calls wssFunc at most once). The returned *uint64 is non-nil iff a
// working-set pass actually ran, which is also what decides whether the
// rendered table carries a wss_ratio column.
func (r *Runner) resolveSizes(ctx context.Context, reader trace.Reader, spec string) (sizevec.SizeVector, *uint64, error) {
	var wss *uint64
	wssFunc := func() (uint64, error) {
		ws, err := reader.ComputeWorkingSet(ctx)
		if err != nil {
			return 0, err
		}
		v := ws.NBytesUnique
		wss = &v
		return v, nil
	}
	sizes, err := sizevec.Parse(spec, wssFunc)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return sizes, wss, nil
}

// BeladyLowerBound runs OnlineBelady (spec.md §4.F) for a single cache
// size, used to annotate an MRC table with an offline-optimal reference
// point rather than as one of the two tagged Spec variants — it is not
// itself exposed through --profiler since spec.md §2 lists it as a
// supporting component, not a third profiling strategy.
func (r *Runner) BeladyLowerBound(ctx context.Context, reader trace.Reader, cacheSizeBytes uint64) (*belady.Result, error) {
	return belady.Run(ctx, reader, cacheSizeBytes)
}
