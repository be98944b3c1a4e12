package spill

import (
	"bytes"
	"io"
	"testing"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/format"
	"github.com/ardulog/ardulog/record"
	"github.com/stretchr/testify/require"
)

func sampleRecords(n int) []record.DecodedRecord {
	recs := make([]record.DecodedRecord, n)
	for i := 0; i < n; i++ {
		recs[i] = record.DecodedRecord{
			MessageType: "GPS",
			TimeUS:      uint64(i * 1000),
			Offset:      int64(i * 15),
			Fields: []record.Field{
				{Name: "TimeUS", Value: record.UintValue(format.KindU64, uint64(i*1000))},
				{Name: "Alt", Value: record.FloatValue(format.KindF32, float64(i)*0.5)},
			},
		}
	}

	return recs
}

func TestWriterReader_RoundTrip_NoOp(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, compress.CompressionNone, 4)
	require.NoError(t, err)

	recs := sampleRecords(10)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	require.Equal(t, 10, w.RecordsWritten())

	r := NewReader(&buf)

	var got []record.DecodedRecord
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}

	require.Len(t, got, 10)
	for i, rec := range got {
		require.Equal(t, uint64(i*1000), rec.TimeUS)
		require.Equal(t, int64(i*15), rec.Offset)
	}
}

func TestWriterReader_RoundTrip_S2(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, compress.CompressionS2, 3)
	require.NoError(t, err)

	recs := sampleRecords(7)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	r := NewReader(&buf)

	count := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		count++
	}
	require.Equal(t, 7, count)
}

func TestReader_EmptyInput(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.Next()
	require.ErrorIs(t, err, io.EOF)
}

func TestNewWriter_InvalidCodec(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf, compress.CompressionType(0xFF), 0)
	require.Error(t, err)
}
