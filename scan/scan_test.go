package scan

import (
	"testing"

	"github.com/ardulog/ardulog/schema"
	"github.com/stretchr/testify/require"
)

func newSnapshot(t *testing.T, types map[byte]uint8) *schema.Snapshot {
	t.Helper()

	registry := schema.NewFormatRegistry()
	for typeID, frameLength := range types {
		s, err := schema.New(typeID, "X", frameLength, "B", []string{"V"})
		require.NoError(t, err)
		registry.Insert(s)
	}

	return registry.Snapshot()
}

func frame(typeID byte, payload ...byte) []byte {
	return append([]byte{0xA3, 0x95, typeID}, payload...)
}

func TestFindValidSyncPositions_SimpleTwoFrames(t *testing.T) {
	snap := newSnapshot(t, map[byte]uint8{10: 4})

	data := append(frame(10, 0x01), frame(10, 0x02)...)
	offsets := FindValidSyncPositions(data, snap)

	require.Equal(t, []int64{0, 4}, offsets)
}

func TestFindValidSyncPositions_RejectsSyncLikeBytesInsidePayload(t *testing.T) {
	snap := newSnapshot(t, map[byte]uint8{10: 6})

	// A single frame of type 10, frame length 6, whose 3-byte payload
	// happens to contain the sync prefix.
	data := frame(10, 0xA3, 0x95, 0x00)
	offsets := FindValidSyncPositions(data, snap)

	require.Equal(t, []int64{0}, offsets)
}

func TestFindValidSyncPositions_UnknownTypeRejected(t *testing.T) {
	snap := newSnapshot(t, map[byte]uint8{10: 4})

	data := frame(99, 0x01)
	offsets := FindValidSyncPositions(data, snap)

	require.Empty(t, offsets)
}

func TestFindValidSyncPositions_TruncatedFrameRejected(t *testing.T) {
	snap := newSnapshot(t, map[byte]uint8{10: 10})

	data := frame(10, 0x01) // shorter than the declared frame_length of 10
	offsets := FindValidSyncPositions(data, snap)

	require.Empty(t, offsets)
}
