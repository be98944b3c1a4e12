package section

import (
	"github.com/ardulog/ardulog/errs"
)

// FMTPayload is the parsed payload of a FMT frame (type_id 0x80), which
// describes the schema of another message type.
type FMTPayload struct {
	Type    uint8  // byte offset 0 of payload: the type_id being described
	Length  uint8  // byte offset 1: frame_length for that type_id, header included
	Name    string // byte offset 2-5: up to 4 ASCII chars, NUL-padded
	Format  string // byte offset 6-21: up to 16 format codes, NUL-padded
	Columns string // byte offset 22-85: up to 64 ASCII field names, comma separated, NUL-padded
}

// ParseFMTPayload parses the fixed-width payload of a FMT frame.
//
// Returns errs.ErrShortRead if fewer than FMTPayloadLen bytes are available.
func ParseFMTPayload(payload []byte) (FMTPayload, error) {
	if len(payload) < FMTPayloadLen {
		return FMTPayload{}, errs.ErrShortRead
	}

	return FMTPayload{
		Type:    payload[0],
		Length:  payload[1],
		Name:    trimNUL(payload[2 : 2+FMTNameLen]),
		Format:  trimNUL(payload[6 : 6+FMTFormatLen]),
		Columns: trimNUL(payload[22 : 22+FMTColumnsLen]),
	}, nil
}

func trimNUL(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}

	return string(b[:n])
}
