//go:build nobuild

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses one spill batch's payload using Zstandard compression
// via the cgo gozstd binding.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses a Zstd-compressed spill batch payload.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
