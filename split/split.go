// Package split implements the Range Splitter: it partitions
// a sorted list of valid frame-start offsets into up to N contiguous
// byte ranges of roughly equal offset count, aligned to frame boundaries
// by construction.
package split

import "github.com/ardulog/ardulog/record"

// Ranges partitions offsets (ascending, as returned by package scan) into
// up to numWorkers record.ByteRanges covering every offset exactly once.
// fileLen is used as the final range's end (EOF).
//
// Chunks are sized by offset count, not byte count. Empty
// chunks are dropped, so the result may have fewer than numWorkers
// ranges; it always has at least one range when offsets is non-empty.
func Ranges(offsets []int64, fileLen int64, numWorkers int) []record.ByteRange {
	if len(offsets) == 0 {
		return nil
	}

	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(offsets) {
		numWorkers = len(offsets)
	}

	base := len(offsets) / numWorkers
	rem := len(offsets) % numWorkers

	ranges := make([]record.ByteRange, 0, numWorkers)
	start := 0
	for w := 0; w < numWorkers; w++ {
		count := base
		if w < rem {
			count++
		}
		if count == 0 {
			continue
		}

		startOffset := offsets[start]
		var endOffset int64
		if start+count < len(offsets) {
			endOffset = offsets[start+count]
		} else {
			endOffset = fileLen
		}

		ranges = append(ranges, record.ByteRange{Start: startOffset, End: endOffset})
		start += count
	}

	return ranges
}
