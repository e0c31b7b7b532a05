package pbcgo

import (
	"log/slog"

	"github.com/hupe1980/pbcgo/kdtree"
	"github.com/hupe1980/pbcgo/persistence"
)

type options struct {
	leafCapacity        int
	metricsCollector    MetricsCollector
	logger              *Logger
	snapshotCompression persistence.CompressionType
}

// Option configures Searcher constructor/load behavior.
type Option func(*options)

// WithLeafCapacity configures the k-d tree leaf bucket size.
//
// Smaller buckets mean deeper trees with tighter pruning; larger buckets
// trade build time for longer linear scans inside the leaves. The default
// of 10 is a good starting point for typical molecular point sets.
func WithLeafCapacity(leafCapacity int) Option {
	return func(o *options) {
		o.leafCapacity = leafCapacity
	}
}

// WithSnapshotCompression configures the compression algorithm used for the
// tree payload when saving snapshots. The default is no compression; LZ4
// favors speed, ZSTD favors ratio. Loading auto-detects the algorithm from
// the file header, so this option only affects saves.
func WithSnapshotCompression(compression persistence.CompressionType) Option {
	return func(o *options) {
		o.snapshotCompression = compression
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pbcgo.BasicMetricsCollector{}
//	s, _ := pbcgo.New(lengths, pbcgo.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := pbcgo.NewJSONLogger(slog.LevelInfo)
//	s, _ := pbcgo.New(lengths, pbcgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		leafCapacity:        kdtree.DefaultOptions.LeafCapacity,
		metricsCollector:    NoopMetricsCollector{},
		logger:              NoopLogger(),
		snapshotCompression: persistence.CompressionNone,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
