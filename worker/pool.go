// Package worker implements the two worker execution strategies the
// Parallel Orchestrator dispatches segments to: ThreadPool (goroutines sharing the mapped file) and
// ProcessPool (re-exec'd cmd/ardulog-worker subprocesses). Both
// implement Pool and must produce bit-identical decoded output for the
// same input.
package worker

import (
	"context"

	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/schema"
)

// Task is one segment's worth of dispatch instructions.
type Task struct {
	SegmentID   int
	Range       record.ByteRange
	SpillPath   string
	Filter      map[string]bool
	RoundFloats bool
}

// Result is one segment's outcome after a worker completes it.
type Result struct {
	SegmentID int
	Warnings  []record.Warning
}

// Pool dispatches Tasks to workers and waits for all of them to
// complete, or returns the first fatal error encountered.
type Pool interface {
	// Run executes every task in tasks against data (the orchestrator's
	// mapped file bytes) using the given read-only schema snapshot, and
	// returns one Result per task once all of them complete.
	//
	// filePath is passed through for worker variants (ProcessPool) that
	// re-open the file independently rather than share data directly.
	Run(ctx context.Context, filePath string, data []byte, snapshot *schema.Snapshot, tasks []Task) ([]Result, error)
}
