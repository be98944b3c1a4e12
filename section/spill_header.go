package section

// SpillBatchHeaderSize is the fixed size, in bytes, of a SpillBatchHeader as
// written to a spill file by package spill.
const SpillBatchHeaderSize = 1 + 4 + 4 + 4

// SpillBatchHeader precedes each compressed batch of serialized
// record.DecodedRecord values in a worker's spill file.
type SpillBatchHeader struct {
	// Codec identifies the compress.Codec (by its compress.CompressionType
	// numeric value) used for this batch's payload.
	Codec uint8 // byte offset 0

	// RecordCount is the number of records encoded in this batch.
	RecordCount uint32 // byte offset 1-4

	// UncompressedSize is the length, in bytes, of the serialized record
	// stream before compression.
	UncompressedSize uint32 // byte offset 5-8

	// CompressedSize is the length, in bytes, of the payload that
	// immediately follows this header on disk.
	CompressedSize uint32 // byte offset 9-12
}

// Put serializes the header into dst, which must be at least
// SpillBatchHeaderSize bytes long.
func (h SpillBatchHeader) Put(dst []byte) {
	dst[0] = h.Codec
	putUint32(dst[1:5], h.RecordCount)
	putUint32(dst[5:9], h.UncompressedSize)
	putUint32(dst[9:13], h.CompressedSize)
}

// ParseSpillBatchHeader parses a SpillBatchHeader from the front of data,
// which must be at least SpillBatchHeaderSize bytes long.
func ParseSpillBatchHeader(data []byte) SpillBatchHeader {
	return SpillBatchHeader{
		Codec:            data[0],
		RecordCount:      getUint32(data[1:5]),
		UncompressedSize: getUint32(data[5:9]),
		CompressedSize:   getUint32(data[9:13]),
	}
}

func putUint32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

func getUint32(src []byte) uint32 {
	return uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24
}
