package spill

import (
	"io"

	"github.com/ardulog/ardulog/compress"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/section"
)

// Reader reads decoded records back out of a spill file written by Writer,
// one batch at a time, decompressing each batch lazily on first access
//.
type Reader struct {
	r io.Reader

	batch    []byte // current batch's decompressed bytes
	batchPos int
	remaining int // records left undecoded in the current batch

	err error
}

// NewReader creates a Reader over r, which must yield exactly the bytes a
// Writer produced (a concatenation of SpillBatchHeader-prefixed
// compressed batches).
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next decoded record, or io.EOF once the spill file is
// exhausted. Once Next returns a non-nil error (including io.EOF), every
// subsequent call returns the same error.
func (rd *Reader) Next() (record.DecodedRecord, error) {
	if rd.err != nil {
		return record.DecodedRecord{}, rd.err
	}

	for rd.remaining == 0 {
		if err := rd.loadBatch(); err != nil {
			rd.err = err

			return record.DecodedRecord{}, err
		}
	}

	rec, next, err := decodeRecord(rd.batch, rd.batchPos)
	if err != nil {
		rd.err = err

		return record.DecodedRecord{}, err
	}

	rd.batchPos = next
	rd.remaining--

	return rec, nil
}

func (rd *Reader) loadBatch() error {
	var headerBuf [section.SpillBatchHeaderSize]byte
	if _, err := io.ReadFull(rd.r, headerBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return io.EOF
		}

		return err
	}

	header := section.ParseSpillBatchHeader(headerBuf[:])

	compressed := make([]byte, header.CompressedSize)
	if _, err := io.ReadFull(rd.r, compressed); err != nil {
		return err
	}

	codec, err := compress.GetCodec(compress.CompressionType(header.Codec))
	if err != nil {
		return err
	}

	decompressed, err := codec.Decompress(compressed)
	if err != nil {
		return err
	}

	rd.batch = decompressed
	rd.batchPos = 0
	rd.remaining = int(header.RecordCount)

	return nil
}
