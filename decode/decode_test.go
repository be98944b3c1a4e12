package decode

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/schema"
	"github.com/stretchr/testify/require"
)

// buildSnapshot registers a single GPS-like schema (TimeUS uint64 + one
// float) at typeID and returns an immutable snapshot.
func buildSnapshot(t *testing.T, typeID uint8, name, formatString string, fieldNames []string, frameLength uint8) *schema.Snapshot {
	t.Helper()

	registry := schema.NewFormatRegistry()
	s, err := schema.New(typeID, name, frameLength, formatString, fieldNames)
	require.NoError(t, err)
	require.False(t, s.Undecodable)
	registry.Insert(s)

	return registry.Snapshot()
}

func gpsFrame(typeID byte, timeUS uint64, extra float32) []byte {
	frame := make([]byte, 3+8+4)
	frame[0] = 0xA3
	frame[1] = 0x95
	frame[2] = typeID
	binary.LittleEndian.PutUint64(frame[3:11], timeUS)
	binary.LittleEndian.PutUint32(frame[11:15], math.Float32bits(extra))

	return frame
}

func TestDecoder_BasicDecode(t *testing.T) {
	snap := buildSnapshot(t, 100, "GPS", "Qf", []string{"TimeUS", "Alt"}, 15)

	data := append(gpsFrame(100, 50, 1.5), gpsFrame(100, 100, 2.5)...)
	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, nil, false, 0)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Empty(t, d.Warnings())
	require.Len(t, records, 2)
	require.Equal(t, uint64(50), records[0].TimeUS)
	require.Equal(t, uint64(100), records[1].TimeUS)
	require.Equal(t, int64(0), records[0].Offset)
	require.Equal(t, int64(15), records[1].Offset)

	alt, ok := records[0].Get("Alt")
	require.True(t, ok)
	f, ok := alt.Float64()
	require.True(t, ok)
	require.InDelta(t, 1.5, f, 1e-5)
}

func TestDecoder_UnknownTypeWarns(t *testing.T) {
	snap := buildSnapshot(t, 100, "GPS", "Qf", []string{"TimeUS", "Alt"}, 15)

	unknown := []byte{0xA3, 0x95, 0x42, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append(append(gpsFrame(100, 10, 0), unknown...), gpsFrame(100, 20, 0)...)

	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, nil, false, 3)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Len(t, records, 2)
	require.Len(t, d.Warnings(), 1)
	require.Equal(t, "unknown-type", d.Warnings()[0].Kind.String())
	require.Equal(t, 3, d.Warnings()[0].SegmentID)
}

func TestDecoder_ShortReadAtTail(t *testing.T) {
	snap := buildSnapshot(t, 100, "GPS", "Qf", []string{"TimeUS", "Alt"}, 15)

	full := gpsFrame(100, 10, 0)
	truncated := full[:10] // short by 5 bytes
	data := truncated

	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, nil, false, 0)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Empty(t, records)
	require.Len(t, d.Warnings(), 1)
	require.Equal(t, "short-read", d.Warnings()[0].Kind.String())
}

func TestDecoder_FilterSkipsOtherTypes(t *testing.T) {
	registry := schema.NewFormatRegistry()
	gps, err := schema.New(100, "GPS", 15, "Qf", []string{"TimeUS", "Alt"})
	require.NoError(t, err)
	imu, err := schema.New(101, "IMU", 15, "Qf", []string{"TimeUS", "Gyr"})
	require.NoError(t, err)
	registry.Insert(gps)
	registry.Insert(imu)
	snap := registry.Snapshot()

	data := append(gpsFrame(100, 5, 0), gpsFrame(101, 6, 0)...)
	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, map[string]bool{"GPS": true}, false, 0)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Len(t, records, 1)
	require.Equal(t, "GPS", records[0].MessageType)
}

func TestDecoder_SuppressesSchemaDefinitionFrames(t *testing.T) {
	registry := schema.NewFormatRegistry()
	fmtSchema, err := schema.New(0x80, "FMT", 89, "BBnNZ", []string{"Type", "Length", "Name", "Format", "Columns"})
	require.NoError(t, err)
	gps, err := schema.New(100, "GPS", 15, "Qf", []string{"TimeUS", "Alt"})
	require.NoError(t, err)
	registry.Insert(fmtSchema)
	registry.Insert(gps)
	snap := registry.Snapshot()

	fmtFrame := make([]byte, 89)
	fmtFrame[0] = 0xA3
	fmtFrame[1] = 0x95
	fmtFrame[2] = 0x80

	data := append(fmtFrame, gpsFrame(100, 50, 1.5)...)
	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, nil, false, 0)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Empty(t, d.Warnings())
	require.Len(t, records, 1)
	require.Equal(t, "GPS", records[0].MessageType)
}

func TestDecoder_TimeUSInheritance(t *testing.T) {
	registry := schema.NewFormatRegistry()
	gps, err := schema.New(100, "GPS", 15, "Qf", []string{"TimeUS", "Alt"})
	require.NoError(t, err)
	noTime, err := schema.New(102, "EV", 7, "f", []string{"Val"})
	require.NoError(t, err)
	registry.Insert(gps)
	registry.Insert(noTime)
	snap := registry.Snapshot()

	evFrame := make([]byte, 7)
	evFrame[0] = 0xA3
	evFrame[1] = 0x95
	evFrame[2] = 102

	data := append(gpsFrame(100, 77, 0), evFrame...)
	d := New(data, record.ByteRange{Start: 0, End: int64(len(data))}, snap, nil, false, 0)

	var records []record.DecodedRecord
	for r := range d.All() {
		records = append(records, r)
	}

	require.Len(t, records, 2)
	require.Equal(t, uint64(77), records[1].TimeUS)
	require.True(t, records[1].Inherited)
}
