package section

import (
	"testing"

	"github.com/ardulog/ardulog/errs"
	"github.com/stretchr/testify/require"
)

func buildFMTPayload(typeID, length byte, name, format, columns string) []byte {
	payload := make([]byte, FMTPayloadLen)
	payload[0] = typeID
	payload[1] = length
	copy(payload[2:2+FMTNameLen], name)
	copy(payload[6:6+FMTFormatLen], format)
	copy(payload[22:22+FMTColumnsLen], columns)

	return payload
}

func TestParseFMTPayload(t *testing.T) {
	payload := buildFMTPayload(100, 24, "GPS", "Qffff", "TimeUS,Lat,Lng,Alt,Spd")

	parsed, err := ParseFMTPayload(payload)
	require.NoError(t, err)
	require.Equal(t, uint8(100), parsed.Type)
	require.Equal(t, uint8(24), parsed.Length)
	require.Equal(t, "GPS", parsed.Name)
	require.Equal(t, "Qffff", parsed.Format)
	require.Equal(t, "TimeUS,Lat,Lng,Alt,Spd", parsed.Columns)
}

func TestParseFMTPayload_ShortRead(t *testing.T) {
	_, err := ParseFMTPayload(make([]byte, FMTPayloadLen-1))
	require.ErrorIs(t, err, errs.ErrShortRead)
}
