// Package spill implements the worker-side spill file:
// each worker serializes its decoded records to a local scratch file,
// batched and compressed with a compress.Codec, so the orchestrator never
// has to hold a whole file's records in memory at once before merging.
package spill

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ardulog/ardulog/format"
	"github.com/ardulog/ardulog/internal/pool"
	"github.com/ardulog/ardulog/record"
)

// scaledBit marks a field tag byte whose payload is a post-scaling float64
// rather than the Kind's native integer storage.
const scaledBit = 0x80

// encodeRecord appends rec's wire encoding to buf. The encoding is not tied
// to any schema: each field carries its own name and type tag, so a spill
// reader never needs the original FormatRegistry to decode a batch back.
//
// Layout per record:
//
//	u64  TimeUS
//	u8   Inherited (0 or 1)
//	i64  Offset
//	u16  len(MessageType), then MessageType bytes
//	u16  field count
//	  per field:
//	    u16 len(Name), then Name bytes
//	    u8  tag (format.Kind, with scaledBit set for scaled values)
//	    payload, sized by tag:
//	      int/uint kinds, scaled, f32/f64: 8 bytes
//	      string:   u16 len, then bytes
//	      i16array: 64 bytes (32 * int16)
func encodeRecord(buf *pool.ByteBuffer, rec record.DecodedRecord) {
	var scratch [8]byte

	binary.LittleEndian.PutUint64(scratch[:8], rec.TimeUS)
	buf.MustWrite(scratch[:8])

	if rec.Inherited {
		buf.MustWrite([]byte{1})
	} else {
		buf.MustWrite([]byte{0})
	}

	binary.LittleEndian.PutUint64(scratch[:8], uint64(rec.Offset))
	buf.MustWrite(scratch[:8])

	putString(buf, rec.MessageType)

	binary.LittleEndian.PutUint16(scratch[:2], uint16(len(rec.Fields)))
	buf.MustWrite(scratch[:2])

	for _, f := range rec.Fields {
		putString(buf, f.Name)
		encodeFieldValue(buf, f.Value)
	}
}

func putString(buf *pool.ByteBuffer, s string) {
	var scratch [2]byte
	binary.LittleEndian.PutUint16(scratch[:], uint16(len(s)))
	buf.MustWrite(scratch[:])
	buf.MustWrite([]byte(s))
}

func encodeFieldValue(buf *pool.ByteBuffer, v record.FieldValue) {
	tag := byte(v.Kind)
	if v.Scaled() {
		tag |= scaledBit
	}
	buf.MustWrite([]byte{tag})

	var scratch [8]byte

	switch {
	case v.Scaled():
		f, _ := v.Float64()
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		buf.MustWrite(scratch[:])
	case v.Kind == format.KindF32 || v.Kind == format.KindF64:
		f, _ := v.Float64()
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
		buf.MustWrite(scratch[:])
	case v.Kind == format.KindString:
		s, _ := v.String()
		putString(buf, s)
	case v.Kind == format.KindI16Array:
		arr, _ := v.Int16Array()
		out := make([]byte, 64)
		for i := 0; i < 32 && i < len(arr); i++ {
			binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(arr[i]))
		}
		buf.MustWrite(out)
	case v.Kind == format.KindI8, v.Kind == format.KindI16, v.Kind == format.KindI32, v.Kind == format.KindI64:
		i, _ := v.Int64()
		binary.LittleEndian.PutUint64(scratch[:], uint64(i))
		buf.MustWrite(scratch[:])
	default: // unsigned integer kinds
		u, _ := v.Uint64()
		binary.LittleEndian.PutUint64(scratch[:], u)
		buf.MustWrite(scratch[:])
	}
}

// decodeRecord reads one wire-encoded record from data starting at offset,
// returning the record and the offset immediately past it.
func decodeRecord(data []byte, offset int) (record.DecodedRecord, int, error) {
	if offset+17 > len(data) {
		return record.DecodedRecord{}, 0, fmt.Errorf("spill: truncated record header at offset %d", offset)
	}

	timeUS := binary.LittleEndian.Uint64(data[offset : offset+8])
	offset += 8

	inherited := data[offset] == 1
	offset++

	recOffset := int64(binary.LittleEndian.Uint64(data[offset : offset+8]))
	offset += 8

	msgType, next, err := getString(data, offset)
	if err != nil {
		return record.DecodedRecord{}, 0, err
	}
	offset = next

	if offset+2 > len(data) {
		return record.DecodedRecord{}, 0, fmt.Errorf("spill: truncated field count at offset %d", offset)
	}
	fieldCount := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2

	fields := make([]record.Field, fieldCount)
	for i := 0; i < fieldCount; i++ {
		name, next, err := getString(data, offset)
		if err != nil {
			return record.DecodedRecord{}, 0, err
		}
		offset = next

		v, next, err := decodeFieldValue(data, offset)
		if err != nil {
			return record.DecodedRecord{}, 0, err
		}
		offset = next

		fields[i] = record.Field{Name: name, Value: v}
	}

	return record.DecodedRecord{
		MessageType: msgType,
		Fields:      fields,
		TimeUS:      timeUS,
		Inherited:   inherited,
		Offset:      recOffset,
	}, offset, nil
}

func getString(data []byte, offset int) (string, int, error) {
	if offset+2 > len(data) {
		return "", 0, fmt.Errorf("spill: truncated string length at offset %d", offset)
	}
	n := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
	offset += 2

	if offset+n > len(data) {
		return "", 0, fmt.Errorf("spill: truncated string body at offset %d", offset)
	}

	return string(data[offset : offset+n]), offset + n, nil
}

func decodeFieldValue(data []byte, offset int) (record.FieldValue, int, error) {
	if offset+1 > len(data) {
		return record.FieldValue{}, 0, fmt.Errorf("spill: truncated field tag at offset %d", offset)
	}
	tag := data[offset]
	offset++

	scaled := tag&scaledBit != 0
	kind := format.Kind(tag &^ scaledBit)

	switch {
	case scaled:
		if offset+8 > len(data) {
			return record.FieldValue{}, 0, fmt.Errorf("spill: truncated scaled field at offset %d", offset)
		}
		f := math.Float64frombits(binary.LittleEndian.Uint64(data[offset : offset+8]))

		return record.ScaledValue(kind, f), offset + 8, nil
	case kind == format.KindF32, kind == format.KindF64:
		if offset+8 > len(data) {
			return record.FieldValue{}, 0, fmt.Errorf("spill: truncated float field at offset %d", offset)
		}
		f := math.Float64frombits(binary.LittleEndian.Uint64(data[offset : offset+8]))

		return record.FloatValue(kind, f), offset + 8, nil
	case kind == format.KindString:
		s, next, err := getString(data, offset)
		if err != nil {
			return record.FieldValue{}, 0, err
		}

		return record.StringValue(s), next, nil
	case kind == format.KindI16Array:
		if offset+64 > len(data) {
			return record.FieldValue{}, 0, fmt.Errorf("spill: truncated array field at offset %d", offset)
		}
		arr := make([]int16, 32)
		for i := 0; i < 32; i++ {
			arr[i] = int16(binary.LittleEndian.Uint16(data[offset+i*2 : offset+i*2+2]))
		}

		return record.ArrayValue(arr), offset + 64, nil
	case kind == format.KindI8, kind == format.KindI16, kind == format.KindI32, kind == format.KindI64:
		if offset+8 > len(data) {
			return record.FieldValue{}, 0, fmt.Errorf("spill: truncated int field at offset %d", offset)
		}
		i := int64(binary.LittleEndian.Uint64(data[offset : offset+8]))

		return record.IntValue(kind, i), offset + 8, nil
	default:
		if offset+8 > len(data) {
			return record.FieldValue{}, 0, fmt.Errorf("spill: truncated uint field at offset %d", offset)
		}
		u := binary.LittleEndian.Uint64(data[offset : offset+8])

		return record.UintValue(kind, u), offset + 8, nil
	}
}
