package compress

import "github.com/klauspost/compress/s2"

// S2Compressor is the default codec for spill batches: fast enough to keep
// pace with a segment decoder's own throughput, with a compression ratio
// good enough for the repetitive field-tagged records spill.codec produces.
type S2Compressor struct{}

var _ Codec = (*S2Compressor)(nil)

// NewS2Compressor creates a new S2 compressor.
func NewS2Compressor() S2Compressor {
	return S2Compressor{}
}

// Compress compresses one spill batch's payload using S2 compression.
func (c S2Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

// Decompress decompresses one spill batch's payload using S2 decompression.
func (c S2Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}
