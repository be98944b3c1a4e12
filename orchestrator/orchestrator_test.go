package orchestrator

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardulog/ardulog/section"
	"github.com/stretchr/testify/require"
)

func buildFMTFrame(typeID, length byte, name, format, columns string) []byte {
	frame := make([]byte, section.FMTFrameLength)
	frame[0] = section.SyncByte0
	frame[1] = section.SyncByte1
	frame[2] = section.FMTTypeID

	payload := frame[3:]
	payload[0] = typeID
	payload[1] = length
	copy(payload[2:2+section.FMTNameLen], name)
	copy(payload[6:6+section.FMTFormatLen], format)
	copy(payload[22:22+section.FMTColumnsLen], columns)

	return frame
}

func gpsFrame(timeUS uint64, alt float32) []byte {
	frame := make([]byte, 15)
	frame[0] = section.SyncByte0
	frame[1] = section.SyncByte1
	frame[2] = 100
	binary.LittleEndian.PutUint64(frame[3:11], timeUS)
	binary.LittleEndian.PutUint32(frame[11:15], math.Float32bits(alt))

	return frame
}

func writeTempBIN(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "flight.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func TestRun_MergesInTimeUSOrder(t *testing.T) {
	var data []byte
	data = append(data, buildFMTFrame(100, 15, "GPS", "Qf", "TimeUS,Alt")...)
	data = append(data, gpsFrame(100, 1)...)
	data = append(data, gpsFrame(50, 2)...)
	data = append(data, gpsFrame(200, 3)...)
	data = append(data, gpsFrame(10, 4)...)

	path := writeTempBIN(t, data)

	cfg, err := NewConfig(path, WithNumWorkers(2), WithSpillDir(t.TempDir()), WithCollectWarnings(true))
	require.NoError(t, err)

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	var timestamps []uint64
	for rec, err := range result.Records {
		require.NoError(t, err)
		timestamps = append(timestamps, rec.TimeUS)
	}

	require.Equal(t, []uint64{10, 50, 100, 200}, timestamps)
	require.Empty(t, result.Warnings)
}

func TestRun_SingleWorkerMatchesMultiWorker(t *testing.T) {
	var data []byte
	data = append(data, buildFMTFrame(100, 15, "GPS", "Qf", "TimeUS,Alt")...)
	for i := uint64(0); i < 20; i++ {
		data = append(data, gpsFrame((i*37)%101, float32(i))...)
	}

	path := writeTempBIN(t, data)

	collect := func(numWorkers int) []uint64 {
		cfg, err := NewConfig(path, WithNumWorkers(numWorkers), WithSpillDir(t.TempDir()))
		require.NoError(t, err)

		result, err := Run(context.Background(), cfg)
		require.NoError(t, err)

		var timestamps []uint64
		for rec, err := range result.Records {
			require.NoError(t, err)
			timestamps = append(timestamps, rec.TimeUS)
		}

		return timestamps
	}

	single := collect(1)
	multi := collect(4)

	require.Equal(t, single, multi)
	require.True(t, len(single) == 20)
}

func TestRun_UnknownFilePath(t *testing.T) {
	cfg, err := NewConfig(filepath.Join(t.TempDir(), "missing.bin"))
	require.NoError(t, err)

	_, err = Run(context.Background(), cfg)
	require.Error(t, err)
}

func TestNewConfig_EmptyFilePath(t *testing.T) {
	_, err := NewConfig("")
	require.Error(t, err)
}

func TestNewConfig_InvalidNumWorkers(t *testing.T) {
	_, err := NewConfig("x.bin", WithNumWorkers(-1))
	require.Error(t, err)
}
