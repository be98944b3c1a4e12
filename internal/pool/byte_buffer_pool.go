// Package pool provides reusable byte and slice buffers for the hot paths
// of the segment decoder and spill writer, adapted from the teacher's
// blob-buffer pool to ardulog's spill-batch sizes.
package pool

import (
	"io"
	"sync"
)

// Default and maximum sizes for pooled spill buffers. A spill batch buffers
// the serialized records for one worker before they are handed to a
// compress.Codec and flushed to disk (see package spill).
const (
	SpillBufferDefaultSize  = 1024 * 16       // 16KiB, enough for a few hundred small frames
	SpillBufferMaxThreshold = 1024 * 128      // 128KiB, buffers larger than this are discarded rather than pooled
	SpillBatchDefaultSize   = 1024 * 1024     // 1MiB, default size of GetSpillBatchBuffer buffers (spill.Writer stages each batch header in one)
	SpillBatchMaxThreshold  = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice with amortized growth, avoiding the
// repeated reallocation a naive append loop would incur when serializing
// many small fixed-width records back to back.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its backing array for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes currently in the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the buffer's current capacity.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Grow ensures the buffer can hold requiredBytes more bytes without a
// further reallocation.
//
// Growth strategy:
//   - Small buffers (<=4x default size): grow by SpillBufferDefaultSize.
//   - Larger buffers: grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := SpillBufferDefaultSize
	if cap(bb.B) > 4*SpillBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool pools ByteBuffers to reduce allocations on the decode and
// spill hot paths. Buffers larger than maxThreshold are dropped instead of
// retained, so a few oversized segments don't bloat steady-state memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool that allocates buffers of defaultSize
// and discards any returned buffer larger than maxThreshold.
func NewByteBufferPool(defaultSize, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var (
	spillBufferPool = NewByteBufferPool(SpillBufferDefaultSize, SpillBufferMaxThreshold)
	spillBatchPool  = NewByteBufferPool(SpillBatchDefaultSize, SpillBatchMaxThreshold)
)

// GetSpillBuffer retrieves a ByteBuffer from the default per-record pool.
func GetSpillBuffer() *ByteBuffer { return spillBufferPool.Get() }

// PutSpillBuffer returns a ByteBuffer to the default per-record pool.
func PutSpillBuffer(bb *ByteBuffer) { spillBufferPool.Put(bb) }

// GetSpillBatchBuffer retrieves a ByteBuffer from the compressed-batch pool.
func GetSpillBatchBuffer() *ByteBuffer { return spillBatchPool.Get() }

// PutSpillBatchBuffer returns a ByteBuffer to the compressed-batch pool.
func PutSpillBatchBuffer(bb *ByteBuffer) { spillBatchPool.Put(bb) }
