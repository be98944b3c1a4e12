package orchestrator

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/merge"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/scan"
	"github.com/ardulog/ardulog/schema"
	"github.com/ardulog/ardulog/split"
	"github.com/ardulog/ardulog/worker"
)

// Result is the outcome of a successful Run.
type Result struct {
	// Records is the final merged, timestamp-ordered stream. It is lazy and single-use.
	Records iter.Seq2[record.DecodedRecord, error]

	// Warnings holds every warning collected across all segments, with
	// segment_id preserved, when cfg.CollectWarnings is true.
	Warnings []record.Warning
}

// Run drives the full pipeline described in this format: open the file,
// preload the Format Registry, scan for valid frame-start offsets,
// split them into per-worker ranges, dispatch a worker.Pool, and return
// a k-way-merged record stream over the resulting spill files.
//
// A non-nil error is always an *errs.FatalError; Run never
// returns a bare error from an internal package.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	data, err := openFile(cfg.FilePath)
	if err != nil {
		return nil, err
	}

	registry := schema.NewFormatRegistry()
	preloadWarnings := schema.Preload(data, registry)
	snapshot := registry.Snapshot()

	offsets := scan.FindValidSyncPositions(data, snapshot)

	numWorkers := cfg.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}

	ranges := split.Ranges(offsets, int64(len(data)), numWorkers)

	spillDir := cfg.SpillDir
	if spillDir == "" {
		spillDir = os.TempDir()
	}

	tasks := make([]worker.Task, len(ranges))
	for i, rng := range ranges {
		tasks[i] = worker.Task{
			SegmentID:   i,
			Range:       rng,
			SpillPath:   filepath.Join(spillDir, fmt.Sprintf("ardulog-spill-%d.bin", i)),
			Filter:      filterSet(cfg.MessageFilter),
			RoundFloats: cfg.RoundFloats,
		}
	}
	// Removing a spill file here, after merge sources have os.Open'd it
	// below, is safe: unlink only drops the directory entry, and each
	// already-open descriptor keeps reading until closingReader closes
	// it once that source is exhausted.
	defer cleanupSpillFiles(tasks)

	pool := newPool(cfg)

	results, err := pool.Run(ctx, cfg.FilePath, data, snapshot, tasks)
	if err != nil {
		if fe, ok := err.(*errs.FatalError); ok {
			return nil, fe
		}

		return nil, errs.NewFatal(errs.KindWorker, 0, err)
	}

	allWarnings := append([]record.Warning{}, preloadWarnings...)
	sources := make([]merge.Source, len(tasks))
	for i, task := range tasks {
		f, err := os.Open(task.SpillPath)
		if err != nil {
			return nil, errs.NewSegmentFatal(errs.KindIO, task.SegmentID, task.Range.Start, fmt.Errorf("opening spill file: %w", err))
		}

		sources[i] = merge.Source{SegmentID: task.SegmentID, Reader: newClosingReader(f)}
	}

	for _, r := range results {
		allWarnings = append(allWarnings, r.Warnings...)
	}

	result := &Result{Records: merge.Merge(sources)}
	if cfg.CollectWarnings {
		result.Warnings = allWarnings
	}

	return result, nil
}

func newPool(cfg *Config) worker.Pool {
	if cfg.RunningMode == RunningModeProcess {
		exe, err := os.Executable()
		if err != nil {
			exe = "ardulog-worker"
		}

		return worker.NewProcessPool(filepath.Join(filepath.Dir(exe), "ardulog-worker"), cfg.SpillDir, cfg.SpillCompression)
	}

	return worker.NewThreadPool(cfg.SpillCompression, 0)
}

func filterSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return set
}

func cleanupSpillFiles(tasks []worker.Task) {
	for _, t := range tasks {
		os.Remove(t.SpillPath)
	}
}
