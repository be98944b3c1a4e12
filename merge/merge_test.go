package merge

import (
	"bytes"
	"testing"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/format"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/spill"
	"github.com/stretchr/testify/require"
)

func writeSpill(t *testing.T, recs []record.DecodedRecord) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	w, err := spill.NewWriter(&buf, compress.CompressionS2, 2)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	return &buf
}

func rec(timeUS uint64, offset int64) record.DecodedRecord {
	return record.DecodedRecord{
		MessageType: "GPS",
		TimeUS:      timeUS,
		Offset:      offset,
		Fields:      []record.Field{{Name: "TimeUS", Value: record.UintValue(format.KindU64, timeUS)}},
	}
}

func TestMerge_OrdersByTimeUS(t *testing.T) {
	buf0 := writeSpill(t, []record.DecodedRecord{rec(100, 0), rec(300, 15)})
	buf1 := writeSpill(t, []record.DecodedRecord{rec(50, 30), rec(200, 45)})

	sources := []Source{
		{SegmentID: 0, Reader: spill.NewReader(buf0)},
		{SegmentID: 1, Reader: spill.NewReader(buf1)},
	}

	var timestamps []uint64
	for r, err := range Merge(sources) {
		require.NoError(t, err)
		timestamps = append(timestamps, r.TimeUS)
	}

	require.Equal(t, []uint64{50, 100, 200, 300}, timestamps)
}

func TestMerge_TieBreaksBySegmentThenOffset(t *testing.T) {
	buf0 := writeSpill(t, []record.DecodedRecord{rec(100, 20)})
	buf1 := writeSpill(t, []record.DecodedRecord{rec(100, 5)})

	sources := []Source{
		{SegmentID: 0, Reader: spill.NewReader(buf0)},
		{SegmentID: 1, Reader: spill.NewReader(buf1)},
	}

	var offsets []int64
	for r, err := range Merge(sources) {
		require.NoError(t, err)
		offsets = append(offsets, r.Offset)
	}

	// segment 0 sorts before segment 1 regardless of its larger offset.
	require.Equal(t, []int64{20, 5}, offsets)
}

func TestMerge_EmptySources(t *testing.T) {
	count := 0
	for range Merge(nil) {
		count++
	}
	require.Equal(t, 0, count)
}

func TestMerge_EarlyStop(t *testing.T) {
	buf0 := writeSpill(t, []record.DecodedRecord{rec(1, 0), rec(2, 1), rec(3, 2)})

	sources := []Source{{SegmentID: 0, Reader: spill.NewReader(buf0)}}

	count := 0
	for range Merge(sources) {
		count++
		if count == 1 {
			break
		}
	}
	require.Equal(t, 1, count)
}
