// Command ardulog-worker is the process-mode worker helper spawned by
// worker.ProcessPool. It is
// internal plumbing, not the decoder's CLI entry point: it takes a
// single task-file path, decodes exactly one segment, writes that
// segment's spill file, and prints its collected warnings as JSON to
// stdout.
//
// Usage:
//
//	ardulog-worker <task-file-path>
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/decode"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/spill"
	"github.com/ardulog/ardulog/worker"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: ardulog-worker <task-file-path>")
		os.Exit(2)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, "ardulog-worker:", err)
		os.Exit(1)
	}
}

func run(taskPath string) error {
	tf, err := worker.ReadTaskFile(taskPath)
	if err != nil {
		return fmt.Errorf("reading task file: %w", err)
	}

	data, err := os.ReadFile(tf.FilePath)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}

	snapshot, err := worker.BuildSnapshot(tf.Schemas)
	if err != nil {
		return fmt.Errorf("rebuilding registry snapshot: %w", err)
	}

	rng := record.ByteRange{Start: tf.RangeStart, End: tf.RangeEnd}
	filter := worker.FilterSet(tf.Filter)

	d := decode.New(data, rng, snapshot, filter, tf.RoundFloats, tf.SegmentID)

	spillFile, err := os.Create(tf.SpillPath)
	if err != nil {
		return fmt.Errorf("creating spill file: %w", err)
	}
	defer spillFile.Close()

	w, err := spillWriter(spillFile, tf)
	if err != nil {
		return err
	}

	for rec := range d.All() {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("writing spill record: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing spill writer: %w", err)
	}

	out, err := json.Marshal(worker.WarningsResultFile{Warnings: d.Warnings()})
	if err != nil {
		return fmt.Errorf("marshaling warnings: %w", err)
	}

	_, err = os.Stdout.Write(out)

	return err
}

func spillWriter(f *os.File, tf worker.TaskFile) (*spill.Writer, error) {
	w, err := spill.NewWriter(f, compress.CompressionType(tf.SpillCompression), 0)
	if err != nil {
		return nil, fmt.Errorf("creating spill writer: %w", err)
	}

	return w, nil
}
