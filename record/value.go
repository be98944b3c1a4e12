package record

import "github.com/ardulog/ardulog/format"

// FieldValue is a typed value decoded from one field of a message frame.
// Exactly one accessor is meaningful for a given Kind; see the
// field-code table in package format.
//
// Integer kinds (c/C/e/E/L in the field-code table) that carry an implicit
// or explicit scale factor, and f32/f64 kinds that carry an explicit
// scale factor, are stored post-scaling as a float; Scaled reports whether
// that happened, in which case Float64 (not Int64/Uint64) is the accessor
// to use.
type FieldValue struct {
	Kind   format.Kind
	scaled bool

	i   int64   // KindI8, KindI16, KindI32, KindI64 (unscaled)
	u   uint64  // KindU8, KindU16, KindU32, KindU64 (unscaled)
	f   float64 // KindF32, KindF64, or any scaled integer kind
	s   string  // KindString
	arr []int16 // KindI16Array
}

// IntValue builds an unscaled signed-integer FieldValue.
func IntValue(kind format.Kind, v int64) FieldValue { return FieldValue{Kind: kind, i: v} }

// UintValue builds an unscaled unsigned-integer FieldValue.
func UintValue(kind format.Kind, v uint64) FieldValue { return FieldValue{Kind: kind, u: v} }

// ScaledValue builds a numeric FieldValue (integer or f32/f64 kind) whose
// value has already been multiplied by its scale factor.
func ScaledValue(kind format.Kind, v float64) FieldValue {
	return FieldValue{Kind: kind, f: v, scaled: true}
}

// FloatValue builds a native f32/f64 FieldValue.
func FloatValue(kind format.Kind, v float64) FieldValue { return FieldValue{Kind: kind, f: v} }

// StringValue builds a KindString FieldValue.
func StringValue(v string) FieldValue { return FieldValue{Kind: format.KindString, s: v} }

// ArrayValue builds a KindI16Array FieldValue (the "a" field code).
func ArrayValue(v []int16) FieldValue { return FieldValue{Kind: format.KindI16Array, arr: v} }

// Scaled reports whether this value holds a post-scaling float rather than
// its raw integer storage.
func (v FieldValue) Scaled() bool { return v.scaled }

// Int64 returns the value as an int64 for unscaled signed integer kinds.
// ok is false for any other Kind, and for a scaled integer kind.
func (v FieldValue) Int64() (int64, bool) {
	if v.scaled {
		return 0, false
	}

	switch v.Kind {
	case format.KindI8, format.KindI16, format.KindI32, format.KindI64:
		return v.i, true
	default:
		return 0, false
	}
}

// Uint64 returns the value as a uint64 for unscaled unsigned integer
// kinds. ok is false for any other Kind, and for a scaled integer kind.
func (v FieldValue) Uint64() (uint64, bool) {
	if v.scaled {
		return 0, false
	}

	switch v.Kind {
	case format.KindU8, format.KindU16, format.KindU32, format.KindU64:
		return v.u, true
	default:
		return 0, false
	}
}

// Float64 returns the value as a float64: directly for f32/f64 kinds and
// for scaled integer kinds, or converted for unscaled integer kinds. ok is
// false for string and array kinds.
func (v FieldValue) Float64() (float64, bool) {
	if v.scaled {
		return v.f, true
	}

	switch v.Kind {
	case format.KindF32, format.KindF64:
		return v.f, true
	case format.KindI8, format.KindI16, format.KindI32, format.KindI64:
		return float64(v.i), true
	case format.KindU8, format.KindU16, format.KindU32, format.KindU64:
		return float64(v.u), true
	default:
		return 0, false
	}
}

// String returns the value for KindString, trimmed of trailing NULs by
// the decoder that produced it.
func (v FieldValue) String() (string, bool) {
	if v.Kind != format.KindString {
		return "", false
	}

	return v.s, true
}

// Int16Array returns the value for KindI16Array (the "a" field code: an
// ordered list of 32 i16 values).
func (v FieldValue) Int16Array() ([]int16, bool) {
	if v.Kind != format.KindI16Array {
		return nil, false
	}

	return v.arr, true
}
