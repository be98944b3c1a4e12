package compress

import (
	"fmt"
)

// Compressor compresses one spill batch's serialized record payload (see
// package spill) before it is written to disk.
//
// A spill batch holds a run of spill.DefaultBatchRecords decoded records,
// field-tag encoded by spill.codec; that byte slice, typically a few KB to
// a few hundred KB depending on field count and string payloads, is what
// gets handed to Compress.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller; it is newly allocated,
	//     except for NoOpCompressor, which returns data itself
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses Compressor: it restores one spill batch's encoded
// record bytes from what a matching Compressor produced.
//
// spill.Reader selects the Decompressor matching the compress.CompressionType
// recorded in each batch's section.SpillBatchHeader, so a reader never needs
// to be told out of band which codec wrote a given batch.
type Decompressor interface {
	// Decompress decompresses data and returns the original result.
	//
	// Returns an error if data is corrupted or was not produced by the
	// matching Compressor.
	//
	// Memory management:
	//   - Returned slice is owned by the caller; it is newly allocated,
	//     except for NoOpCompressor, which returns data itself
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
//
// This interface is useful for implementations that can handle both operations
// efficiently with shared internal state or optimizations.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Compressor instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType CompressionType, target string) (Codec, error) {
	switch compressionType {
	case CompressionNone:
		return NewNoOpCompressor(), nil
	case CompressionZstd:
		return NewZstdCompressor(), nil
	case CompressionS2:
		return NewS2Compressor(), nil
	case CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[CompressionType]Codec{
	CompressionNone: NewNoOpCompressor(),
	CompressionZstd: NewZstdCompressor(),
	CompressionS2:   NewS2Compressor(),
	CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
