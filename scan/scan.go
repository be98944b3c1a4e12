// Package scan implements the Sync Scanner: a single-threaded,
// single-pass enumeration of every valid frame-start offset in a BIN file.
package scan

import (
	"github.com/ardulog/ardulog/schema"
	"github.com/ardulog/ardulog/section"
)

// FindValidSyncPositions scans data for valid frame-start offsets, using
// snapshot to resolve each candidate type_id's frame_length.
//
// An offset is accepted iff: the two sync bytes are present, the
// following type_id is known to snapshot, the frame fits within data, and
// the byte immediately after the frame is either EOF or the start of
// another sync prefix. This two-stage check is what rejects a sync-like
// byte pattern that happens to appear inside a payload.
//
// Preload must have already run against the same data and the same
// registry snapshot was taken after it completed; otherwise recently
// discovered type_ids won't be recognized and their frames will be
// silently skipped rather than accepted.
func FindValidSyncPositions(data []byte, snapshot *schema.Snapshot) []int64 {
	var offsets []int64

	n := len(data)
	for i := 0; i+3 <= n; i++ {
		if data[i] != section.SyncByte0 || data[i+1] != section.SyncByte1 {
			continue
		}

		typeID := data[i+2]
		frameLength, ok := snapshot.FrameLength(typeID)
		if !ok {
			continue
		}

		end := i + int(frameLength)
		if end > n {
			continue
		}

		if end == n || data[end] == section.SyncByte0 {
			offsets = append(offsets, int64(i))
		}
	}

	return offsets
}
