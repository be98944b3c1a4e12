package worker

import (
	"path/filepath"
	"testing"

	"github.com/ardulog/ardulog/schema"
	"github.com/stretchr/testify/require"
)

func TestSnapshotToDTOsAndBuildSnapshot_RoundTrip(t *testing.T) {
	registry := schema.NewFormatRegistry()
	gps, err := schema.New(100, "GPS", 15, "Qf", []string{"TimeUS", "Alt"})
	require.NoError(t, err)
	imu, err := schema.New(101, "IMU", 15, "Qf", []string{"TimeUS", "Gyr"})
	require.NoError(t, err)
	require.NoError(t, imu.SetScaleFactors([]float64{1, 0.5}))
	registry.Insert(gps)
	registry.Insert(imu)

	dtos := SnapshotToDTOs(registry.Snapshot())
	require.Len(t, dtos, 2)

	rebuilt, err := BuildSnapshot(dtos)
	require.NoError(t, err)

	s, ok := rebuilt.Get(100)
	require.True(t, ok)
	require.Equal(t, "GPS", s.Name)

	s, ok = rebuilt.Get(101)
	require.True(t, ok)
	require.Equal(t, []float64{1, 0.5}, s.ScaleFactors)
}

func TestWriteReadTaskFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "task.json")

	tf := TaskFile{
		FilePath:         "flight.bin",
		SegmentID:        3,
		RangeStart:       10,
		RangeEnd:         100,
		SpillPath:        "spill-3.bin",
		SpillCompression: 1,
		Filter:           []string{"GPS", "IMU"},
		RoundFloats:      true,
		Schemas: []SchemaDTO{
			{TypeID: 100, Name: "GPS", FrameLength: 15, FormatString: "Qf", FieldNames: []string{"TimeUS", "Alt"}},
		},
	}

	require.NoError(t, WriteTaskFile(path, tf))

	got, err := ReadTaskFile(path)
	require.NoError(t, err)
	require.Equal(t, tf, got)
}

func TestFilterSet(t *testing.T) {
	require.Nil(t, FilterSet(nil))
	require.Nil(t, FilterSet([]string{}))

	set := FilterSet([]string{"GPS", "IMU"})
	require.Equal(t, map[string]bool{"GPS": true, "IMU": true}, set)
}
