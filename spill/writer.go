package spill

import (
	"io"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/internal/pool"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/section"
)

// DefaultBatchRecords is the number of records a Writer accumulates before
// compressing and flushing a batch, absent an explicit override.
const DefaultBatchRecords = 4096

// Writer serializes decoded records to an underlying io.Writer as a
// sequence of compressed batches. It is not safe for
// concurrent use; each worker owns exactly one Writer for its segment.
type Writer struct {
	w             io.Writer
	codec         compress.Codec
	codecType     compress.CompressionType
	batchRecords  int
	pending       *pool.ByteBuffer
	pendingCount  int
	recordsWritten int
}

// NewWriter creates a Writer that flushes batches compressed with
// codecType. batchRecords caps how many records accumulate per batch
// before a flush; 0 selects DefaultBatchRecords.
func NewWriter(w io.Writer, codecType compress.CompressionType, batchRecords int) (*Writer, error) {
	codec, err := compress.GetCodec(codecType)
	if err != nil {
		return nil, err
	}

	if batchRecords <= 0 {
		batchRecords = DefaultBatchRecords
	}

	return &Writer{
		w:            w,
		codec:        codec,
		codecType:    codecType,
		batchRecords: batchRecords,
		pending:      pool.GetSpillBuffer(),
	}, nil
}

// Write appends one decoded record to the writer's pending batch, flushing
// automatically once the batch reaches its configured record count.
func (wr *Writer) Write(rec record.DecodedRecord) error {
	encodeRecord(wr.pending, rec)
	wr.pendingCount++
	wr.recordsWritten++

	if wr.pendingCount >= wr.batchRecords {
		return wr.flush()
	}

	return nil
}

// Close flushes any remaining pending records and releases the writer's
// pooled buffer. It does not close the underlying io.Writer.
func (wr *Writer) Close() error {
	if wr.pendingCount > 0 {
		if err := wr.flush(); err != nil {
			return err
		}
	}

	pool.PutSpillBuffer(wr.pending)
	wr.pending = nil

	return nil
}

// RecordsWritten returns the total number of records written so far,
// across all flushed and pending batches.
func (wr *Writer) RecordsWritten() int { return wr.recordsWritten }

func (wr *Writer) flush() error {
	uncompressed := wr.pending.Bytes()

	compressed, err := wr.codec.Compress(uncompressed)
	if err != nil {
		return err
	}

	header := section.SpillBatchHeader{
		Codec:            uint8(wr.codecType),
		RecordCount:      uint32(wr.pendingCount),
		UncompressedSize: uint32(len(uncompressed)),
		CompressedSize:   uint32(len(compressed)),
	}

	headerBuf := pool.GetSpillBatchBuffer()
	defer pool.PutSpillBatchBuffer(headerBuf)

	headerBuf.Grow(section.SpillBatchHeaderSize)
	headerBuf.B = headerBuf.B[:section.SpillBatchHeaderSize]
	header.Put(headerBuf.B)

	if _, err := wr.w.Write(headerBuf.B); err != nil {
		return err
	}
	if _, err := wr.w.Write(compressed); err != nil {
		return err
	}

	wr.pending.Reset()
	wr.pendingCount = 0

	return nil
}
