// Package merge implements the final k-way merge step of the Parallel
// Orchestrator: it combines each worker's spilled
// record stream into a single sequence ordered by (TimeUS, segment_id,
// __offset__).
package merge

import (
	"container/heap"
	"io"
	"iter"

	"github.com/ardulog/ardulog/record"
)

// RecordReader is the minimal interface a spilled record stream must
// satisfy to participate in the merge; spill.Reader implements it, as
// does any wrapper that needs to close an underlying file once
// exhausted.
type RecordReader interface {
	Next() (record.DecodedRecord, error)
}

// Source is one worker's spilled record stream, tagged with the segment
// index it came from for merge tie-breaking.
type Source struct {
	SegmentID int
	Reader    RecordReader
}

// Merge returns a pull-based iterator over the fully-ordered record
// stream. Iteration stops and yields
// a non-nil error the first time any source's Reader returns an error
// other than io.EOF; the caller should treat that as the orchestrator's
// fatal I/O condition.
func Merge(sources []Source) iter.Seq2[record.DecodedRecord, error] {
	return func(yield func(record.DecodedRecord, error) bool) {
		h := &itemHeap{}
		heap.Init(h)

		for i, src := range sources {
			item, ok, err := pull(src, i)
			if err != nil {
				yield(record.DecodedRecord{}, err)

				return
			}
			if ok {
				heap.Push(h, item)
			}
		}

		for h.Len() > 0 {
			top := heap.Pop(h).(heapItem)

			if !yield(top.rec, nil) {
				return
			}

			next, ok, err := pull(sources[top.srcIdx], top.srcIdx)
			if err != nil {
				yield(record.DecodedRecord{}, err)

				return
			}
			if ok {
				heap.Push(h, next)
			}
		}
	}
}

func pull(src Source, idx int) (heapItem, bool, error) {
	rec, err := src.Reader.Next()
	if err == io.EOF {
		return heapItem{}, false, nil
	}
	if err != nil {
		return heapItem{}, false, err
	}

	return heapItem{rec: rec, segmentID: src.SegmentID, srcIdx: idx}, true, nil
}

// heapItem is one in-flight record from one source, ordered by the spec
// §4.6 merge key.
type heapItem struct {
	rec       record.DecodedRecord
	segmentID int
	srcIdx    int
}

// itemHeap is a container/heap min-heap over heapItems, ordered by
// (TimeUS, segment_id, __offset__).
type itemHeap []heapItem

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	if a.rec.TimeUS != b.rec.TimeUS {
		return a.rec.TimeUS < b.rec.TimeUS
	}
	if a.segmentID != b.segmentID {
		return a.segmentID < b.segmentID
	}

	return a.rec.Offset < b.rec.Offset
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(heapItem))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}
