// Command mrcprofiler runs a single SHARDS or MINISIM profiling pass over a
// trace file and prints the resulting miss-ratio curve table. It is a
// one-shot CLI, not a watcher of a running service — the teacher's
// cmd/arena-cache-inspect polls a live /debug endpoint, but mrcProfiler's
// own original implementation (see original_source) runs once and exits,
// so this keeps the teacher's flag/signal-handling skeleton and drops the
// polling loop.
//
// © 2025 mrcsim authors. MIT License.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/voskan/mrcsim/pkg/profiler"
	"github.com/voskan/mrcsim/pkg/trace"
)

func main() {
	opts, err := parseFlags()
	if err != nil {
		fatal(err)
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fatal(err)
		}
		logger = l
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if err := run(ctx, opts, logger); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, opts *options, logger *zap.Logger) error {
	reader, err := trace.Open(opts.tracePath, opts.traceKind, nil)
	if err != nil {
		return err
	}
	defer reader.Close()
	reader = trace.LimitReader(reader, opts.numReq)

	spec, err := buildSpec(opts)
	if err != nil {
		return err
	}

	runner := profiler.New(profiler.WithLogger(logger))
	table, err := runner.Run(ctx, profiler.RunParams{
		Reader:   reader,
		Profiler: spec,
		SizeSpec: opts.size,
	})
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return profiler.WriteTable(out, table)
}
