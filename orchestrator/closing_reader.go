package orchestrator

import (
	"io"
	"os"

	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/spill"
)

// closingReader wraps a spill.Reader over an *os.File, closing the file
// the first time Next reports the stream is exhausted or broken. This
// lets Run hand merge.Merge a lazy iterator without keeping every
// segment's spill file open for the merged stream's entire lifetime
// beyond what merge.Merge itself needs.
type closingReader struct {
	f      *os.File
	reader *spill.Reader
	closed bool
}

func newClosingReader(f *os.File) *closingReader {
	return &closingReader{f: f, reader: spill.NewReader(f)}
}

func (c *closingReader) Next() (record.DecodedRecord, error) {
	rec, err := c.reader.Next()
	if err != nil && !c.closed {
		c.closed = true
		_ = c.f.Close()
	}

	if err == io.EOF {
		return record.DecodedRecord{}, io.EOF
	}

	return rec, err
}
