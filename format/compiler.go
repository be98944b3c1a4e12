package format

import (
	"math"

	"github.com/ardulog/ardulog/endian"
	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/internal/pool"
	"github.com/ardulog/ardulog/record"
)

// fieldSpec is one compiled field: its byte offset and width within the
// payload, and how to turn those bytes into a record.FieldValue.
type fieldSpec struct {
	offset int
	width  int
	code   byte
	kind   Kind
	// scale is the factor applied to this field's decoded value. It is
	// the field code's implicit scale unless a schema-level
	// override (a FMTU/FUNIT multiplier) replaces it at Compile time
	//.
	scale float64
}

// CompiledDecoder turns a payload byte slice into an ordered list of
// record.FieldValue, one per fieldSpec, using the little-endian engine
// every ArduPilot BIN frame is encoded with.
type CompiledDecoder struct {
	fields       []fieldSpec
	payloadWidth int
}

// PayloadWidth returns the total payload byte width this decoder expects.
func (d *CompiledDecoder) PayloadWidth() int { return d.payloadWidth }

// Compile builds a CompiledDecoder for a format string, optionally
// overriding each field's scale factor (len(scales) must equal
// len(formatString) when non-nil; pass nil to use each code's implicit
// scale).
//
// Returns errs.ErrUnknownFieldCode for an unrecognized code.
func Compile(formatString string, scales []float64) (*CompiledDecoder, error) {
	fields := make([]fieldSpec, 0, len(formatString))
	offset := 0

	for i := 0; i < len(formatString); i++ {
		code := formatString[i]
		spec, ok := codeTable[code]
		if !ok {
			return nil, errs.ErrUnknownFieldCode
		}

		scale := spec.implicitScale
		if scales != nil {
			scale = scales[i]
		}

		fields = append(fields, fieldSpec{
			offset: offset,
			width:  spec.width,
			code:   code,
			kind:   spec.kind,
			scale:  scale,
		})
		offset += spec.width
	}

	return &CompiledDecoder{fields: fields, payloadWidth: offset}, nil
}

// Decode converts a payload byte slice into an ordered list of
// record.FieldValue, one per compiled field.
//
// payload must be at least PayloadWidth() bytes; the caller (package
// decode) is responsible for the short-read check against frame_length.
func (d *CompiledDecoder) Decode(payload []byte) []record.FieldValue {
	engine := endian.GetLittleEndianEngine()
	out := make([]record.FieldValue, len(d.fields))

	for i, f := range d.fields {
		b := payload[f.offset : f.offset+f.width]
		out[i] = decodeField(f, b, engine)
	}

	return out
}

func decodeField(f fieldSpec, b []byte, engine endian.EndianEngine) record.FieldValue {
	switch f.kind {
	case KindI8:
		return scaleOrInt(f, int64(int8(b[0])))
	case KindU8:
		return scaleOrUint(f, uint64(b[0]))
	case KindI16:
		return scaleOrInt(f, int64(int16(engine.Uint16(b))))
	case KindU16:
		return scaleOrUint(f, uint64(engine.Uint16(b)))
	case KindI32:
		return scaleOrInt(f, int64(int32(engine.Uint32(b))))
	case KindU32:
		return scaleOrUint(f, uint64(engine.Uint32(b)))
	case KindI64:
		return scaleOrInt(f, int64(engine.Uint64(b)))
	case KindU64:
		return scaleOrUint(f, engine.Uint64(b))
	case KindF32:
		return scaleOrFloat(f, KindF32, float64(math.Float32frombits(engine.Uint32(b))))
	case KindF64:
		return scaleOrFloat(f, KindF64, math.Float64frombits(engine.Uint64(b)))
	case KindString:
		return record.StringValue(trimNUL(b))
	case KindI16Array:
		n := len(b) / 2
		arr, cleanup := pool.GetInt16Slice(n)
		for i := 0; i < n; i++ {
			arr[i] = int16(engine.Uint16(b[i*2 : i*2+2]))
		}
		out := make([]int16, n)
		copy(out, arr)
		cleanup()

		return record.ArrayValue(out)
	default:
		return record.FieldValue{}
	}
}

func scaleOrInt(f fieldSpec, v int64) record.FieldValue {
	if f.scale == 1 {
		return record.IntValue(f.kind, v)
	}

	return record.ScaledValue(f.kind, float64(v)*f.scale)
}

func scaleOrUint(f fieldSpec, v uint64) record.FieldValue {
	if f.scale == 1 {
		return record.UintValue(f.kind, v)
	}

	return record.ScaledValue(f.kind, float64(v)*f.scale)
}

func scaleOrFloat(f fieldSpec, kind Kind, v float64) record.FieldValue {
	if f.scale == 1 {
		return record.FloatValue(kind, v)
	}

	return record.ScaledValue(kind, v*f.scale)
}

func trimNUL(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}

	return string(b[:n])
}
