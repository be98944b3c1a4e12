package worker

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/decode"
	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/schema"
	"github.com/ardulog/ardulog/spill"
)

// ThreadPool runs one goroutine per Task, all sharing the orchestrator's
// single mapped-file byte slice directly.
type ThreadPool struct {
	codec        compress.CompressionType
	batchRecords int
}

var _ Pool = (*ThreadPool)(nil)

// NewThreadPool creates a ThreadPool that writes spill batches using
// codec, batched every batchRecords records (0 selects
// spill.DefaultBatchRecords).
func NewThreadPool(codec compress.CompressionType, batchRecords int) *ThreadPool {
	return &ThreadPool{codec: codec, batchRecords: batchRecords}
}

// Run implements Pool.
func (p *ThreadPool) Run(ctx context.Context, _ string, data []byte, snapshot *schema.Snapshot, tasks []Task) ([]Result, error) {
	results := make([]Result, len(tasks))
	errCh := make(chan error, len(tasks))

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()

			result, err := p.runOne(ctx, data, snapshot, task)
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

func (p *ThreadPool) runOne(ctx context.Context, data []byte, snapshot *schema.Snapshot, task Task) (Result, error) {
	f, err := os.Create(task.SpillPath)
	if err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindIO, task.SegmentID, task.Range.Start, fmt.Errorf("creating spill file: %w", err))
	}
	defer f.Close()

	w, err := spill.NewWriter(f, p.codec, p.batchRecords)
	if err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindWorker, task.SegmentID, task.Range.Start, err)
	}

	d := decode.New(data, task.Range, snapshot, task.Filter, task.RoundFloats, task.SegmentID)

	for rec := range d.All() {
		if ctx.Err() != nil {
			return Result{}, errs.NewSegmentFatal(errs.KindWorker, task.SegmentID, task.Range.Start, errs.ErrRunCancelled)
		}

		if err := w.Write(rec); err != nil {
			return Result{}, errs.NewSegmentFatal(errs.KindIO, task.SegmentID, task.Range.Start, fmt.Errorf("writing spill record: %w", err))
		}
	}

	if err := w.Close(); err != nil {
		return Result{}, errs.NewSegmentFatal(errs.KindIO, task.SegmentID, task.Range.Start, fmt.Errorf("closing spill writer: %w", err))
	}

	return Result{SegmentID: task.SegmentID, Warnings: d.Warnings()}, nil
}
