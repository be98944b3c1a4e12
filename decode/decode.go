// Package decode implements the Segment Decoder: it converts a
// frame-aligned byte range into a sequence of record.DecodedRecords using a
// registry snapshot's cached compiled decoders.
package decode

import (
	"fmt"
	"iter"
	"math"

	"github.com/ardulog/ardulog/format"
	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/schema"
	"github.com/ardulog/ardulog/section"
)

// Decoder decodes one segment's worth of frames in file order (spec
// §4.4). It is not safe for concurrent use; each segment gets its own
// Decoder, mirroring the teacher's per-goroutine NumericDecoder instances.
type Decoder struct {
	data      []byte
	rng       record.ByteRange
	snapshot  *schema.Snapshot
	filter    map[string]bool // nil means "no filter": decode every type
	roundFlt  bool
	segmentID int

	warnings   []record.Warning
	lastTimeUS uint64
	sawTimeUS  bool
}

// New creates a Decoder for one segment.
//
// data is the full file's bytes (or a worker-local copy of the segment);
// rng bounds decoding to [rng.Start, rng.End). filter, when non-nil,
// restricts decoding to the named message types; other frames are still
// walked (to keep position tracking correct) but skipped without being
// materialized into a record.
func New(data []byte, rng record.ByteRange, snapshot *schema.Snapshot, filter map[string]bool, roundFloats bool, segmentID int) *Decoder {
	return &Decoder{
		data:      data,
		rng:       rng,
		snapshot:  snapshot,
		filter:    filter,
		roundFlt:  roundFloats,
		segmentID: segmentID,
	}
}

// All returns a pull-based iterator over this segment's decoded records,
// in file-byte order.
//
// Warnings encountered during iteration accumulate and are available via
// Warnings once the iterator has been fully drained (or abandoned after a
// halting condition); they are not returned through the iterator itself
// since warnings never gate record emission.
func (d *Decoder) All() iter.Seq[record.DecodedRecord] {
	return func(yield func(record.DecodedRecord) bool) {
		pos := d.rng.Start

		for pos < d.rng.End {
			if !d.hasSyncAt(pos) {
				next, ok := d.resync(pos)
				if !ok {
					d.warn(pos, record.WarningDecodeError, "no further sync prefix found in segment")

					return
				}
				pos = next

				continue
			}

			typeID := d.data[pos+section.HeaderSize-1]

			s, ok := d.snapshot.Get(typeID)
			if !ok {
				d.warn(pos, record.WarningUnknownType, fmt.Sprintf("unknown type_id %d", typeID))
				pos += section.HeaderSize

				continue
			}

			frameEnd := pos + int64(s.FrameLength)
			if frameEnd > d.rng.End || frameEnd > int64(len(d.data)) {
				d.warn(pos, record.WarningShortRead, fmt.Sprintf("frame of type %s needs %d bytes, segment/file ends sooner", s.Name, s.FrameLength))

				return
			}

			payloadStart := pos + section.HeaderSize
			payload := d.data[payloadStart:frameEnd]

			if isSchemaDefinitionType(s.Name) || (d.filter != nil && !d.filter[s.Name]) {
				pos = frameEnd

				continue
			}

			rec, err := d.decodeFrame(s, payload, pos)
			if err != nil {
				d.warn(pos, record.WarningDecodeError, err.Error())
				pos = frameEnd

				continue
			}

			pos = frameEnd

			if !yield(rec) {
				return
			}
		}
	}
}

// Warnings returns the warnings accumulated so far. Call after fully
// draining All's iterator for a complete list.
func (d *Decoder) Warnings() []record.Warning { return d.warnings }

// isSchemaDefinitionType reports whether name identifies a frame that
// describes message layout rather than carrying telemetry (the FMT
// frame itself, and its FMTU/FUNIT multiplier-carrying variants).
// These are fully consumed during Preload and never surface as
// DecodedRecords.
func isSchemaDefinitionType(name string) bool {
	return name == "FMT" || name == "FMTU" || name == "FUNIT"
}

func (d *Decoder) hasSyncAt(pos int64) bool {
	return pos+section.HeaderSize <= int64(len(d.data)) &&
		d.data[pos] == section.SyncByte0 &&
		d.data[pos+1] == section.SyncByte1
}

// resync advances byte-by-byte until the next sync prefix within the
// segment, step (i).
func (d *Decoder) resync(pos int64) (int64, bool) {
	for p := pos + 1; p < d.rng.End; p++ {
		if d.hasSyncAt(p) {
			return p, true
		}
	}

	return 0, false
}

func (d *Decoder) decodeFrame(s *schema.MessageSchema, payload []byte, offset int64) (record.DecodedRecord, error) {
	if s.Undecodable {
		return record.DecodedRecord{}, fmt.Errorf("schema %s is undecodable", s.Name)
	}

	decoder, err := s.Decoder(d.snapshot.Cache())
	if err != nil {
		return record.DecodedRecord{}, err
	}

	values := decoder.Decode(payload)
	fields := make([]record.Field, len(values))

	var timeUS uint64
	var haveTimeUS bool

	for i, v := range values {
		if d.roundFlt {
			v = roundFieldFloats(v)
		}

		name := s.FieldNames[i]
		fields[i] = record.Field{Name: name, Value: v}

		if name == "TimeUS" {
			if u, ok := v.Uint64(); ok {
				timeUS = u
				haveTimeUS = true
			}
		}
	}

	rec := record.DecodedRecord{
		MessageType: s.Name,
		Fields:      fields,
		Offset:      offset,
	}

	if haveTimeUS {
		rec.TimeUS = timeUS
		d.lastTimeUS = timeUS
		d.sawTimeUS = true
	} else if d.sawTimeUS {
		rec.TimeUS = d.lastTimeUS
		rec.Inherited = true
	}

	return rec, nil
}

// roundFieldFloats applies this format step (viii): round f32/f64 fields (and
// any field already expressed as a scaled float) to 4 decimal digits.
func roundFieldFloats(v record.FieldValue) record.FieldValue {
	if v.Scaled() {
		f, _ := v.Float64()

		return record.ScaledValue(v.Kind, math.Round(f*1e4)/1e4)
	}

	if v.Kind == format.KindF32 || v.Kind == format.KindF64 {
		f, _ := v.Float64()

		return record.FloatValue(v.Kind, math.Round(f*1e4)/1e4)
	}

	return v
}

func (d *Decoder) warn(offset int64, kind record.WarningKind, detail string) {
	d.warnings = append(d.warnings, record.Warning{
		SegmentID: d.segmentID,
		Offset:    offset,
		Kind:      kind,
		Detail:    detail,
	})
}
