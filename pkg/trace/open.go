package trace

// open.go implements the "open(path, kind, params) → Reader" factory named
// in spec.md §6's consumed Reader interface. "params" in the original
// design covers reader-specific options (delimiters, schemas); this module
// ships exactly one trace_kind, so there is nothing yet for params to
// select — the parameter is kept in Open's signature for forward
// compatibility with additional trace_kind values rather than reintroduced
// later as a breaking change.

import "fmt"

// Open resolves a trace_kind to a concrete Reader. Supported kinds: "csv".
func Open(path, kind string, params map[string]string) (Reader, error) {
	switch kind {
	case "csv":
		return OpenCSVFile(path)
	default:
		return nil, fmt.Errorf("trace: unsupported trace_kind %q", kind)
	}
}
