package worker

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/schema"
	"github.com/ardulog/ardulog/spill"
	"github.com/stretchr/testify/require"
)

func gpsFrame(timeUS uint64) []byte {
	frame := make([]byte, 15)
	frame[0] = 0xA3
	frame[1] = 0x95
	frame[2] = 100
	binary.LittleEndian.PutUint64(frame[3:11], timeUS)

	return frame
}

func buildTestSnapshot(t *testing.T) *schema.Snapshot {
	t.Helper()

	registry := schema.NewFormatRegistry()
	s, err := schema.New(100, "GPS", 15, "Qf", []string{"TimeUS", "Alt"})
	require.NoError(t, err)
	registry.Insert(s)

	return registry.Snapshot()
}

func TestThreadPool_RunWritesSpillFiles(t *testing.T) {
	snap := buildTestSnapshot(t)
	data := append(gpsFrame(10), gpsFrame(20)...)

	dir := t.TempDir()
	tasks := []Task{
		{SegmentID: 0, Range: record.ByteRange{Start: 0, End: 15}, SpillPath: filepath.Join(dir, "s0.bin")},
		{SegmentID: 1, Range: record.ByteRange{Start: 15, End: 30}, SpillPath: filepath.Join(dir, "s1.bin")},
	}

	p := NewThreadPool(compress.CompressionNone, 0)
	results, err := p.Run(context.Background(), "", data, snap, tasks)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for i, task := range tasks {
		f, err := os.Open(task.SpillPath)
		require.NoError(t, err)

		r := spill.NewReader(f)
		rec, err := r.Next()
		require.NoError(t, err)
		require.Equal(t, uint64(10+i*10), rec.TimeUS)
		f.Close()
	}
}

func TestThreadPool_RunRespectsCancellation(t *testing.T) {
	snap := buildTestSnapshot(t)
	data := append(gpsFrame(10), gpsFrame(20)...)

	dir := t.TempDir()
	tasks := []Task{
		{SegmentID: 0, Range: record.ByteRange{Start: 0, End: int64(len(data))}, SpillPath: filepath.Join(dir, "s0.bin")},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewThreadPool(compress.CompressionNone, 0)
	_, err := p.Run(ctx, "", data, snap, tasks)
	require.Error(t, err)
}

func TestThreadPool_RunPropagatesWarnings(t *testing.T) {
	snap := buildTestSnapshot(t)
	truncated := gpsFrame(10)[:10]

	dir := t.TempDir()
	tasks := []Task{
		{SegmentID: 0, Range: record.ByteRange{Start: 0, End: int64(len(truncated))}, SpillPath: filepath.Join(dir, "s0.bin")},
	}

	p := NewThreadPool(compress.CompressionNone, 0)
	results, err := p.Run(context.Background(), "", truncated, snap, tasks)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Warnings, 1)
}
