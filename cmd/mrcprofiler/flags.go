package main

// flags.go mirrors the teacher's cmd/arena-cache-inspect flag-parsing shape
// (a private options struct, a parseFlags() constructor, fatal() for
// top-level error reporting) adapted to spec.md §6's illustrative CLI
// surface.
//
// © 2025 mrcsim authors. MIT License.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

type options struct {
	tracePath      string
	traceKind      string
	algo           string
	profiler       string
	profilerParams string
	size           string
	output         string
	numReq         uint64
	verbose        bool
}

func parseFlags() (*options, error) {
	fs := flag.NewFlagSet("mrcprofiler", flag.ContinueOnError)
	opts := &options{}

	fs.StringVar(&opts.algo, "algo", "lru", "cache eviction policy name (SHARDS accepts only \"lru\"; MINISIM resolves it from its policy registry)")
	fs.StringVar(&opts.profiler, "profiler", "SHARDS", "profiling strategy: SHARDS or MINISIM")
	fs.StringVar(&opts.profilerParams, "profiler-params", "", "comma-separated key=value pairs, e.g. mode=fixed_rate,rate=0.01,seed=42")
	fs.StringVar(&opts.size, "size", "", "size specification, e.g. 1mb,2mb,4mb or 0.1,0.5,1.0")
	fs.StringVar(&opts.output, "output", "", "output path; defaults to stdout")
	fs.Uint64Var(&opts.numReq, "num-req", 0, "cap the trace to the first N requests; 0 means unlimited")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable development-mode structured logging")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	args := fs.Args()
	if len(args) != 2 {
		return nil, fmt.Errorf("usage: mrcprofiler <trace_path> <trace_kind> --profiler=... --profiler-params=... --size=... [flags]")
	}
	opts.tracePath, opts.traceKind = args[0], args[1]
	return opts, nil
}

// parseParams splits a "k1=v1,k2=v2" string into a map; malformed pairs
// (no "=") are silently skipped, matching the teacher's tolerance for
// trailing commas in similar free-form flags.
func parseParams(s string) map[string]string {
	out := make(map[string]string)
	if s == "" {
		return out
	}
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		out[kv[0]] = kv[1]
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "mrcprofiler:", err)
	os.Exit(1)
}
