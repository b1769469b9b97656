package columnar

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-nested/pkg/config"
	"github.com/ajitpratap0/nebula-nested/pkg/logger"
	"github.com/ajitpratap0/nebula-nested/pkg/metrics"
)

// DefaultParallelThreshold is the row count from which estimation is split
// across workers.
const DefaultParallelThreshold = 1 << 16

// Option configures a build.
type Option func(*buildOptions)

type buildOptions struct {
	logger            *zap.Logger
	metrics           *metrics.Collector
	offsetWidth       OffsetWidth
	workers           int
	parallelThreshold int
}

func newBuildOptions(opts []Option) *buildOptions {
	o := &buildOptions{
		workers:           runtime.GOMAXPROCS(0),
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Named("columnar")
	}
	return o
}

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *buildOptions) { o.logger = l }
}

// WithMetrics records build metrics into c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *buildOptions) { o.metrics = c }
}

// WithOffsetWidth selects the offset storage width.
func WithOffsetWidth(w OffsetWidth) Option {
	return func(o *buildOptions) { o.offsetWidth = w }
}

// WithParallelism estimates inputs of at least threshold rows with up to
// workers goroutines. workers <= 1 disables parallel estimation.
func WithParallelism(workers, threshold int) Option {
	return func(o *buildOptions) {
		o.workers = workers
		o.parallelThreshold = threshold
	}
}

// OptionsFromConfig maps the engine section of a config to build options.
func OptionsFromConfig(cfg config.EngineConfig) ([]Option, error) {
	width, err := ParseOffsetWidth(cfg.OffsetWidth)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithOffsetWidth(width)}
	if cfg.Workers > 0 || cfg.ParallelThreshold > 0 {
		workers, threshold := cfg.Workers, cfg.ParallelThreshold
		if workers <= 0 {
			workers = runtime.GOMAXPROCS(0)
		}
		if threshold <= 0 {
			threshold = DefaultParallelThreshold
		}
		opts = append(opts, WithParallelism(workers, threshold))
	}
	return opts, nil
}
