package main

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardulog/ardulog/spill"
	"github.com/ardulog/ardulog/worker"
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

func TestRun_DecodesSegmentAndWritesSpillAndWarnings(t *testing.T) {
	dir := t.TempDir()

	data := append(gpsFrame(10), gpsFrame(20)...)
	inputPath := filepath.Join(dir, "flight.bin")
	require.NoError(t, os.WriteFile(inputPath, data, 0o600))

	spillPath := filepath.Join(dir, "spill.bin")
	taskPath := filepath.Join(dir, "task.json")

	tf := worker.TaskFile{
		FilePath:         inputPath,
		SegmentID:        0,
		RangeStart:       0,
		RangeEnd:         int64(len(data)),
		SpillPath:        spillPath,
		SpillCompression: 1, // compress.CompressionNone
		Schemas: []worker.SchemaDTO{
			{TypeID: 100, Name: "GPS", FrameLength: 15, FormatString: "Qf", FieldNames: []string{"TimeUS", "Alt"}},
		},
	}
	require.NoError(t, worker.WriteTaskFile(taskPath, tf))

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := run(taskPath)

	w.Close()
	os.Stdout = origStdout
	require.NoError(t, runErr)

	out := make([]byte, 4096)
	n, _ := r.Read(out)

	var wr worker.WarningsResultFile
	require.NoError(t, json.Unmarshal(out[:n], &wr))
	require.Empty(t, wr.Warnings)

	f, err := os.Open(spillPath)
	require.NoError(t, err)
	defer f.Close()

	reader := spill.NewReader(f)
	rec, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, uint64(10), rec.TimeUS)
}
