// Package section defines the fixed binary layout of ArduPilot BIN frames and
// of ardulog's own spill-batch framing, in the byte-offset-commented struct
// style the rest of this module follows for on-disk layouts.
package section

const (
	// SyncByte0 and SyncByte1 are the two-byte sync prefix preceding every
	// message frame.
	SyncByte0 byte = 0xA3
	SyncByte1 byte = 0x95

	// HeaderSize is the number of bytes in a frame header: the two sync
	// bytes plus the one-byte type_id.
	HeaderSize = 3

	// FMTTypeID is the reserved type_id of the self-describing FMT message
	//.
	FMTTypeID uint8 = 0x80

	// FMTNameLen, FMTFormatLen, and FMTColumnsLen are the fixed field
	// widths of the bootstrap FMT schema's own payload:
	// Type:u8, Length:u8, Name:char[4], Format:char[16], Columns:char[64].
	FMTNameLen    = 4
	FMTFormatLen  = 16
	FMTColumnsLen = 64

	// FMTPayloadLen is the total payload width of a FMT frame, excluding
	// the 3-byte header: 1 (Type) + 1 (Length) + 4 + 16 + 64.
	FMTPayloadLen = 1 + 1 + FMTNameLen + FMTFormatLen + FMTColumnsLen

	// FMTFrameLength is the total frame length (header + payload) of a FMT
	// frame, which is also the value its own schema reports for itself.
	FMTFrameLength = HeaderSize + FMTPayloadLen
)
