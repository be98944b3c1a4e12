package orchestrator

import (
	"fmt"
	"io"

	"golang.org/x/exp/mmap"

	"github.com/ardulog/ardulog/errs"
)

// openFile memory-maps filePath read-only and copies its full contents
// into a single byte slice.
//
// golang.org/x/exp/mmap.ReaderAt only exposes a ReadAt method, not a raw
// mapped byte slice, so the zero-copy benefit of the mapping is a single
// read into one buffer shared by every thread-mode worker rather than a
// truly zero-copy view; process-mode workers re-read the file
// independently in cmd/ardulog-worker (with os.ReadFile, not a mapping).
func openFile(path string) ([]byte, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errs.NewFatal(errs.KindIO, 0, fmt.Errorf("opening %s: %w", path, err))
	}
	defer r.Close()

	size := r.Len()
	if size < 0 {
		return nil, errs.NewFatal(errs.KindIO, 0, fmt.Errorf("mmap reported negative length for %s", path))
	}

	buf := make([]byte, size)
	if n, err := r.ReadAt(buf, 0); err != nil && !(err == io.EOF && n == size) {
		return nil, errs.NewFatal(errs.KindIO, 0, fmt.Errorf("reading %s: %w", path, err))
	}

	return buf, nil
}
