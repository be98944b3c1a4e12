// Package format compiles ArduPilot field-format strings into reusable binary decoders, and caches the
// compiled decoder per distinct format string so sibling schemas that
// share a format string share the same decoding function.
package format

import (
	"fmt"

	"github.com/ardulog/ardulog/errs"
)

// Kind classifies the Go-level type a compiled field decodes to.
type Kind uint8

const (
	KindI8 Kind = iota
	KindU8
	KindI16
	KindU16
	KindI32
	KindU32
	KindI64
	KindU64
	KindF32
	KindF64
	KindString
	KindI16Array
)

// codeSpec describes one field-format code from the table: its
// fixed byte width, the Kind it decodes to, and its implicit scale factor
// (1.0 when the code carries no implicit scaling).
type codeSpec struct {
	width        int
	kind         Kind
	implicitScale float64
}

// codeTable is the complete field-code alphabet the decoder must support.
// Unknown codes are rejected by Compile with errs.ErrUnknownFieldCode.
var codeTable = map[byte]codeSpec{
	'b': {1, KindI8, 1},
	'B': {1, KindU8, 1},
	'h': {2, KindI16, 1},
	'H': {2, KindU16, 1},
	'i': {4, KindI32, 1},
	'I': {4, KindU32, 1},
	'q': {8, KindI64, 1},
	'Q': {8, KindU64, 1},
	'f': {4, KindF32, 1},
	'd': {8, KindF64, 1},
	'n': {4, KindString, 1},
	'N': {16, KindString, 1},
	'Z': {64, KindString, 1},
	'c': {2, KindI16, 0.01},
	'C': {2, KindU16, 0.01},
	'e': {4, KindI32, 0.01},
	'E': {4, KindU32, 0.01},
	'L': {4, KindI32, 1e-7},
	'M': {1, KindU8, 1},
	'a': {64, KindI16Array, 1},
}

// Width returns the fixed byte width of a field-format code and whether
// the code is recognized.
func Width(code byte) (int, bool) {
	spec, ok := codeTable[code]
	if !ok {
		return 0, false
	}

	return spec.width, true
}

// ImplicitScale returns the implicit scale factor for a recognized
// field-format code, or 1.0 (and false) if the code is unknown.
func ImplicitScale(code byte) (float64, bool) {
	spec, ok := codeTable[code]
	if !ok {
		return 1, false
	}

	return spec.implicitScale, true
}

// PayloadWidth returns the total byte width a format string's fields
// occupy, i.e. the frame's payload length excluding the 3-byte header.
//
// Returns errs.ErrUnknownFieldCode naming the position of the first
// unrecognized code.
func PayloadWidth(formatString string) (int, error) {
	total := 0
	for i := 0; i < len(formatString); i++ {
		w, ok := Width(formatString[i])
		if !ok {
			return 0, fmt.Errorf("%w at position %d", errs.ErrUnknownFieldCode, i)
		}
		total += w
	}

	return total, nil
}
