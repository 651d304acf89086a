package profiler

// config.go mirrors the teacher's pkg/config.go shape: a private config
// struct, functional options closing over it, and defaultConfig() seeding
// every field with a safe no-op default so a Runner built with zero options
// behaves identically to one explicitly wired with no-ops.

import (
	badger "github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/voskan/mrcsim/pkg/policy"
)

// Option configures a Runner.
type Option func(*config)

type config struct {
	logger      *zap.Logger
	registry    *prometheus.Registry
	resultStore *badger.DB
	policies    map[string]policy.Factory
}

func defaultConfig() *config {
	return &config{
		logger:   zap.NewNop(),
		policies: policy.Registry(),
	}
}

// WithLogger plugs an external zap.Logger. The runner never logs on the
// per-request path; only run-boundary and slow events are emitted.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection, registered against
// reg. Passing nil leaves metrics disabled (the default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithResultStore attaches a Badger database used to cache MRC results
// across runs, keyed by a caller-supplied fingerprint (see RunParams).
// Passing nil disables the cache (the default) — every run recomputes.
func WithResultStore(db *badger.DB) Option {
	return func(c *config) {
		c.resultStore = db
	}
}

// WithPolicies overrides the default policy.Registry() used to resolve
// MINISIM's --algo name, e.g. to inject test doubles or additional
// policies the caller has registered.
func WithPolicies(policies map[string]policy.Factory) Option {
	return func(c *config) {
		if policies != nil {
			c.policies = policies
		}
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
