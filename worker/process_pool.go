package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/schema"
)

// ProcessPool runs one cmd/ardulog-worker subprocess per Task (spec
// §4.5's process worker variant). Each subprocess re-reads the input
// file independently rather than sharing the parent's bytes.
type ProcessPool struct {
	// WorkerBinary is the path to the cmd/ardulog-worker executable.
	WorkerBinary string

	// TaskDir is the directory task files are written to; an empty value
	// selects os.TempDir(). Each worker's warnings come back on its
	// stdout, not in a file.
	TaskDir string

	// SpillCompression selects the codec each worker subprocess uses for
	// its spill file, mirroring ThreadPool's codec field.
	SpillCompression compress.CompressionType
}

var _ Pool = (*ProcessPool)(nil)

// NewProcessPool creates a ProcessPool that re-execs workerBinary.
func NewProcessPool(workerBinary, taskDir string, codec compress.CompressionType) *ProcessPool {
	return &ProcessPool{WorkerBinary: workerBinary, TaskDir: taskDir, SpillCompression: codec}
}

// Run implements Pool. filePath is passed through to each subprocess so
// it can re-open and re-read the input independently of data.
func (p *ProcessPool) Run(ctx context.Context, filePath string, _ []byte, snapshot *schema.Snapshot, tasks []Task) ([]Result, error) {
	dtos := SnapshotToDTOs(snapshot)

	results := make([]Result, len(tasks))
	errCh := make(chan error, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()

			result, err := p.runOne(ctx, filePath, dtos, task)
			if err != nil {
				errCh <- err

				return
			}
			results[i] = result
		}(i, task)
	}
	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return nil, err
	}

	return results, nil
}

func (p *ProcessPool) runOne(ctx context.Context, filePath string, dtos []SchemaDTO, task Task) (Result, error) {
	taskDir := p.TaskDir
	if taskDir == "" {
		taskDir = os.TempDir()
	}

	filterNames := make([]string, 0, len(task.Filter))
	for name := range task.Filter {
		filterNames = append(filterNames, name)
	}

	taskPath := filepath.Join(taskDir, fmt.Sprintf("ardulog-task-%d.json", task.SegmentID))
	tf := TaskFile{
		FilePath:         filePath,
		SegmentID:        task.SegmentID,
		RangeStart:       task.Range.Start,
		RangeEnd:         task.Range.End,
		SpillPath:        task.SpillPath,
		SpillCompression: uint8(p.SpillCompression),
		Filter:           filterNames,
		RoundFloats:      task.RoundFloats,
		Schemas:          dtos,
	}

	if err := WriteTaskFile(taskPath, tf); err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindIO, task.SegmentID, task.Range.Start, fmt.Errorf("writing task file: %w", err))
	}
	defer os.Remove(taskPath)

	cmd := exec.CommandContext(ctx, p.WorkerBinary, taskPath)

	out, err := cmd.Output()
	if err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindWorker, task.SegmentID, task.Range.Start, fmt.Errorf("worker process failed: %w", err))
	}

	var wr WarningsResultFile
	if err := json.Unmarshal(out, &wr); err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindWorker, task.SegmentID, task.Range.Start, fmt.Errorf("parsing worker output: %w", err))
	}

	return Result{SegmentID: task.SegmentID, Warnings: wr.Warnings}, nil
}
