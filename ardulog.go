// Package ardulog provides a high-throughput decoder for ArduPilot binary
// flight-controller log files (".BIN").
//
// The decoder ingests a single log file and emits a time-ordered sequence
// of decoded telemetry records, one per binary message, each tagged by its
// message type and carrying its typed field values. Internally, the file
// is split into frame-aligned byte ranges decoded in parallel by a pool of
// workers, then merged back into a single ordered stream.
//
// # Basic Usage
//
//	cfg, err := ardulog.NewConfig("flight.bin", ardulog.WithNumWorkers(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := ardulog.Run(context.Background(), cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for rec, err := range result.Records {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s @ %d\n", rec.MessageType, rec.TimeUS)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the
// orchestrator package, simplifying the most common use case: decoding a
// whole file with a single call. For access to the underlying
// subsystems (format compiler, scanner, splitter, segment decoder, spill
// writer/reader, merge), use those packages directly.
package ardulog

import (
	"context"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/orchestrator"
	"github.com/ardulog/ardulog/record"
)

// Config is the full set of decode options.
type Config = orchestrator.Config

// Option configures a Config via the functional-option pattern.
type Option = orchestrator.Option

// RunningMode selects the worker execution strategy.
type RunningMode = orchestrator.RunningMode

// Worker execution strategies.
const (
	RunningModeThread  = orchestrator.RunningModeThread
	RunningModeProcess = orchestrator.RunningModeProcess
)

// Spill batch compression codecs.
const (
	CompressionNone = compress.CompressionNone
	CompressionS2   = compress.CompressionS2
	CompressionLZ4  = compress.CompressionLZ4
	CompressionZstd = compress.CompressionZstd
)

// Result is the outcome of a successful Run.
type Result = orchestrator.Result

// DecodedRecord is one decoded message frame.
type DecodedRecord = record.DecodedRecord

// Warning is a non-fatal decode issue.
type Warning = record.Warning

// FatalError is the structured error returned when a run aborts.
type FatalError = errs.FatalError

// Configuration options, re-exported from orchestrator for convenience.
var (
	WithNumWorkers       = orchestrator.WithNumWorkers
	WithRunningMode      = orchestrator.WithRunningMode
	WithRoundFloats      = orchestrator.WithRoundFloats
	WithMessageFilter    = orchestrator.WithMessageFilter
	WithCollectWarnings  = orchestrator.WithCollectWarnings
	WithSpillDir         = orchestrator.WithSpillDir
	WithSpillCompression = orchestrator.WithSpillCompression
)

// NewConfig builds a Config for filePath with default settings (thread
// pool, hardware-parallelism worker count, S2 spill compression),
// applying any additional options.
//
// Parameters:
//   - filePath: path to the .BIN input file
//   - opts: optional configuration functions (see WithNumWorkers,
//     WithRunningMode, WithRoundFloats, WithMessageFilter,
//     WithCollectWarnings, WithSpillDir, WithSpillCompression)
//
// Returns an error if filePath is empty or an option's value is invalid.
func NewConfig(filePath string, opts ...Option) (*Config, error) {
	return orchestrator.NewConfig(filePath, opts...)
}

// Run decodes cfg.FilePath end to end: preload, scan, split, dispatch,
// merge. The returned Result's Records is a lazy, single-use
// iterator; draining it to completion is required to observe every
// record and to release the workers' spill files.
//
// Returns a *FatalError if the run cannot complete; a run that
// produces a complete merged record sequence is successful regardless of
// how many warnings it collected along the way.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	return orchestrator.Run(ctx, cfg)
}
