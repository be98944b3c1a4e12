// Package orchestrator implements the Parallel Orchestrator:
// it drives Preload, the Sync Scanner, the Range Splitter, a worker.Pool,
// and the final k-way merge, exposing a single Run entry point.
package orchestrator

import (
	"runtime"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/internal/options"
)

// RunningMode selects the worker execution strategy.
type RunningMode uint8

const (
	// RunningModeThread runs workers as goroutines sharing the mapped
	// file, preferred when the host language has true parallel threads.
	RunningModeThread RunningMode = iota
	// RunningModeProcess runs workers as re-exec'd subprocesses of
	// cmd/ardulog-worker, preferred for CPU-bound decode loops that
	// benefit from bypassing a single-process scheduler.
	RunningModeProcess
)

func (m RunningMode) String() string {
	switch m {
	case RunningModeThread:
		return "thread"
	case RunningModeProcess:
		return "process"
	default:
		return "unknown"
	}
}

// Config holds the full set of options enumerated in this format.
type Config struct {
	// FilePath is the path to the .BIN input file.
	FilePath string

	// NumWorkers is the worker count. Zero selects runtime.NumCPU().
	NumWorkers int

	// RunningMode selects the worker execution strategy.
	RunningMode RunningMode

	// RoundFloats, if true, rounds f32/f64 fields to 4 decimal digits.
	RoundFloats bool

	// MessageFilter, when non-empty, restricts decoding to these
	// message-type names; all others are skipped.
	MessageFilter []string

	// CollectWarnings, if true, accumulates warnings in memory on the
	// returned Result. If false, warnings are still computed (dropping
	// them mid-decode would require re-deriving record counts) but are
	// discarded rather than retained.
	CollectWarnings bool

	// SpillDir is the directory used for per-segment spill files. An
	// empty value selects os.TempDir().
	SpillDir string

	// SpillCompression selects the codec used for spill batches
	// (klauspost/compress s2 by default, selectable to pierrec/lz4 or
	// klauspost/compress zstd).
	SpillCompression compress.CompressionType
}

// Option configures a Config, mirroring the teacher's
// options.Option[*NumericEncoderConfig] pattern.
type Option = options.Option[*Config]

// WithNumWorkers sets the worker count.
func WithNumWorkers(n int) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return errs.ErrInvalidNumWorkers
		}
		c.NumWorkers = n

		return nil
	})
}

// WithRunningMode selects the worker execution strategy.
func WithRunningMode(mode RunningMode) Option {
	return options.NoError(func(c *Config) { c.RunningMode = mode })
}

// WithRoundFloats toggles 4-decimal rounding of float fields.
func WithRoundFloats(enabled bool) Option {
	return options.NoError(func(c *Config) { c.RoundFloats = enabled })
}

// WithMessageFilter restricts decoding to the named message types.
func WithMessageFilter(names ...string) Option {
	return options.NoError(func(c *Config) { c.MessageFilter = names })
}

// WithCollectWarnings toggles in-memory warning retention.
func WithCollectWarnings(enabled bool) Option {
	return options.NoError(func(c *Config) { c.CollectWarnings = enabled })
}

// WithSpillDir sets the directory used for per-segment spill files.
func WithSpillDir(dir string) Option {
	return options.NoError(func(c *Config) { c.SpillDir = dir })
}

// WithSpillCompression selects the spill batch codec.
func WithSpillCompression(t compress.CompressionType) Option {
	return options.NoError(func(c *Config) { c.SpillCompression = t })
}

// NewConfig builds a Config for filePath with default settings (thread
// pool, hardware-parallelism worker count, S2 spill compression),
// applying any additional options.
func NewConfig(filePath string, opts ...Option) (*Config, error) {
	if filePath == "" {
		return nil, errs.ErrEmptyFilePath
	}

	cfg := &Config{
		FilePath:         filePath,
		NumWorkers:       runtime.NumCPU(),
		RunningMode:      RunningModeThread,
		SpillCompression: compress.CompressionS2,
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.NumWorkers <= 0 {
		return nil, errs.ErrInvalidNumWorkers
	}

	return cfg, nil
}
