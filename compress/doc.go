// Package compress provides compression and decompression codecs for decoder spill batches.
//
// Segment workers (package worker) serialize the DecodedRecords they produce into
// fixed-format spill batches (package spill) before the orchestrator's merge phase
// reads them back. This package supplies the codec applied to each batch's payload
// bytes, selectable independently of the serialization format itself.
//
// # Overview
//
// The compress package supports four general-purpose algorithms:
//   - None: no compression, fastest, largest spill files
//   - Zstd: best compression ratio, moderate speed, good for logs with many
//     repeated message layouts (dense GPS/IMU streams)
//   - S2: balanced compression and speed, the default for spill batches
//   - LZ4: fastest decompression, moderate compression, favors the merge
//     phase's read-heavy access pattern over write-time cost
//
// # Architecture
//
// The package defines three core interfaces:
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Choosing a codec for spill batches
//
// A spill batch holds a run of decoded records tagged by field name and type
// (package spill's wire format); highly repetitive message layouts (a dense
// GPS or IMU stream) compress well under any of the three real codecs, while
// a segment dominated by one-off message types sees less benefit.
//
//   - Use S2 (the default: orchestrator.NewConfig sets
//     Config.SpillCompression to CompressionS2) when decode throughput matters more than
//     spill file size: its encode/decode speed keeps pace with the segment
//     decoder's own throughput.
//   - Use Zstd when the input file is large enough that spill directory size
//     becomes the bottleneck (bounded local disk, network-mounted spill_dir).
//   - Use LZ4 when the merge phase (which only decompresses, never
//     compresses) dominates wall-clock time, e.g. many small segments merged
//     from a fast local disk.
//   - Use None only for debugging a spill batch's raw bytes, or when
//     spill_dir is already backed by a compressing filesystem.
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use: worker.ThreadPool
// runs one Decoder and one spill.Writer per segment goroutine, so each
// worker gets its own Compressor call sequence, but the package-level
// Zstd/LZ4 buffer pools (see zstd_pure.go, lz4.go) are shared and
// synchronized via sync.Pool.
//
// # Integration with the Spill Package
//
// The spill package uses this package internally. Configure compression via
// orchestrator.Config:
//
//	cfg, _ := ardulog.NewConfig("flight.bin", ardulog.WithSpillCompression(ardulog.CompressionS2))
//
// spill.Reader detects the codec from the batch header written by
// spill.Writer and requires no out-of-band configuration to read a batch
// back.
package compress
