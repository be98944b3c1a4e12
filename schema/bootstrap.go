package schema

import "github.com/ardulog/ardulog/section"

// bootstrapFMTSchema returns the hard-coded schema for type_id 0x80, the
// FMT message that describes every other message type:
// Type:u8, Length:u8, Name:char[4], Format:char[16], Columns:char[64].
func bootstrapFMTSchema() *MessageSchema {
	s, err := New(
		section.FMTTypeID,
		"FMT",
		section.FMTFrameLength,
		"BBnNZ",
		[]string{"Type", "Length", "Name", "Format", "Columns"},
	)
	if err != nil {
		// The bootstrap schema's own layout is fixed at compile time and
		// always well-formed; a failure here would be a programming error.
		panic(err)
	}

	return s
}
