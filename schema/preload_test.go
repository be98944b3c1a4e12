package schema

import (
	"testing"

	"github.com/ardulog/ardulog/section"
	"github.com/stretchr/testify/require"
)

func buildFMTFrame(typeID, length byte, name, format, columns string) []byte {
	frame := make([]byte, section.FMTFrameLength)
	frame[0] = section.SyncByte0
	frame[1] = section.SyncByte1
	frame[2] = section.FMTTypeID

	payload := frame[3:]
	payload[0] = typeID
	payload[1] = length
	copy(payload[2:2+section.FMTNameLen], name)
	copy(payload[6:6+section.FMTFormatLen], format)
	copy(payload[22:22+section.FMTColumnsLen], columns)

	return frame
}

func TestPreloadBootstrapOnly(t *testing.T) {
	registry := NewFormatRegistry()
	warnings := Preload([]byte{}, registry)

	require.Empty(t, warnings)

	s, ok := registry.Get(section.FMTTypeID)
	require.True(t, ok)
	require.Equal(t, "FMT", s.Name)
}

func TestPreloadDiscoversGPSSchema(t *testing.T) {
	gpsFrame := buildFMTFrame(100, 27, "GPS", "Qffff", "TimeUS,Lat,Lng,Alt,Spd")

	registry := NewFormatRegistry()
	warnings := Preload(gpsFrame, registry)
	require.Empty(t, warnings)

	s, ok := registry.Get(100)
	require.True(t, ok)
	require.Equal(t, "GPS", s.Name)
	require.Equal(t, []string{"TimeUS", "Lat", "Lng", "Alt", "Spd"}, s.FieldNames)
	require.False(t, s.Undecodable)
}

func TestPreloadMarksBadFormatUndecodable(t *testing.T) {
	badFrame := buildFMTFrame(101, 10, "BAD", "x", "Value")

	registry := NewFormatRegistry()
	warnings := Preload(badFrame, registry)
	require.Len(t, warnings, 1)
	require.Equal(t, "bad-format", warnings[0].Kind.String())

	s, ok := registry.Get(101)
	require.True(t, ok)
	require.True(t, s.Undecodable)
}
