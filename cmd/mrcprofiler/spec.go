package main

// spec.go translates the flat --profiler/--profiler-params/--algo flags
// into the profiler package's tagged profiler.Spec, keeping the
// string-wrangling out of main()'s control flow the way the teacher keeps
// HTTP response decoding out of its own main().

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/voskan/mrcsim/pkg/profiler"
)

func buildSpec(opts *options) (profiler.Spec, error) {
	params := parseParams(opts.profilerParams)

	switch strings.ToUpper(opts.profiler) {
	case "SHARDS":
		return buildShardsSpec(opts, params)
	case "MINISIM":
		return buildMinisimSpec(opts, params)
	default:
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: unknown --profiler %q (want SHARDS or MINISIM)", opts.profiler)
	}
}

func buildShardsSpec(opts *options, params map[string]string) (profiler.Spec, error) {
	if opts.algo != "" && opts.algo != "lru" {
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: SHARDS supports only --algo=lru, got %q", opts.algo)
	}
	seed, err := parseOptionalUint(params["seed"])
	if err != nil {
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid seed in --profiler-params: %w", err)
	}

	if params["mode"] == "fixed_size" {
		capacity, err := strconv.Atoi(params["capacity"])
		if err != nil {
			return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid capacity in --profiler-params: %w", err)
		}
		return profiler.Spec{Shards: &profiler.ShardsSpec{
			Mode: profiler.ShardsFixedSize, Capacity: capacity, Seed: seed,
		}}, nil
	}

	rate, err := strconv.ParseFloat(params["rate"], 64)
	if err != nil {
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid rate in --profiler-params: %w", err)
	}
	return profiler.Spec{Shards: &profiler.ShardsSpec{
		Mode: profiler.ShardsFixedRate, Rate: rate, Seed: seed,
	}}, nil
}

func buildMinisimSpec(opts *options, params map[string]string) (profiler.Spec, error) {
	rate, err := strconv.ParseFloat(params["rate"], 64)
	if err != nil {
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid rate in --profiler-params: %w", err)
	}
	seed, err := parseOptionalUint(params["seed"])
	if err != nil {
		return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid seed in --profiler-params: %w", err)
	}
	threads := 1
	if t, ok := params["threads"]; ok {
		threads, err = strconv.Atoi(t)
		if err != nil {
			return profiler.Spec{}, fmt.Errorf("mrcprofiler: invalid threads in --profiler-params: %w", err)
		}
	}
	return profiler.Spec{Minisim: &profiler.MinisimSpec{
		Rate: rate, Seed: seed, Threads: threads, PolicyName: opts.algo,
	}}, nil
}

func parseOptionalUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}
