package compress

// ZstdCompressor provides Zstandard compression optimized for spill batch data.
//
// This compressor favors compression ratio over speed, making it the right
// choice for spill_dir on constrained or network-mounted storage, or for a
// log with many repeated message layouts (dense GPS/IMU streams) where the
// ratio gain outweighs the extra CPU per batch.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
