package profiler

// errors.go declares the four error kinds of spec.md §7 as sentinel values,
// matching the teacher's pkg/config.go pattern of a small
// `var ( errX = errors.New(...) )` block. Call sites wrap a sentinel with
// fmt.Errorf("%w: ...") so callers can still classify a failure with
// errors.Is/errors.As without losing the specific message.

import "errors"

var (
	// ErrConfig covers spec.md §7's ConfigError: invalid size spec, invalid
	// profiler parameters, unsupported SHARDS policy (non-LRU), rate out of
	// (0,1], or a zero-length size vector.
	ErrConfig = errors.New("profiler: configuration error")
	// ErrIO covers IOError: the reader could not open or read the trace.
	ErrIO = errors.New("profiler: trace I/O error")
	// ErrPolicy covers PolicyError: MINISIM received an unknown policy
	// name.
	ErrPolicy = errors.New("profiler: unknown policy")
	// ErrInternal covers InternalError: an invariant violation, e.g. a
	// sampled request with a zero object size.
	ErrInternal = errors.New("profiler: internal invariant violation")
)
