package schema

import (
	"fmt"

	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/section"
)

// multTable maps a MultIds character to a scale factor. ArduPilot's real
// FMTU frames index a firmware-side unit/multiplier table this spec does
// not otherwise define; this table is this
// implementation's resolution, applied uniformly. '0' means "no scaling"
// (multiplier 1).
var multTable = map[byte]float64{
	'0': 1,
	'1': 0.01,
	'2': 0.0001,
	'3': 1e-7,
	'4': 10,
	'5': 100,
}

// parseMultIDs converts a FMTU/FUNIT MultIds string into one scale factor
// per character, defaulting to 1 (no scaling) for an unrecognized digit.
func parseMultIDs(multIDs string) []float64 {
	out := make([]float64, len(multIDs))
	for i := 0; i < len(multIDs); i++ {
		if v, ok := multTable[multIDs[i]]; ok {
			out[i] = v
		} else {
			out[i] = 1
		}
	}

	return out
}

// Preload performs the bootstrap scan: it seeds registry with
// the hard-coded FMT schema, then linearly scans the whole file for FMT
// frames and inserts every schema they describe. It must run, and fully
// complete, before the Sync Scanner and before any Snapshot is taken,
// since a segment may reference a type_id whose FMT frame lies earlier in
// the file than the segment's own start offset.
func Preload(data []byte, registry *FormatRegistry) []record.Warning {
	registry.Insert(bootstrapFMTSchema())

	var warnings []record.Warning

	for i := 0; i+section.FMTFrameLength <= len(data); i++ {
		if !isFMTFrameAt(data, i) {
			continue
		}

		payload := data[i+section.HeaderSize : i+section.FMTFrameLength]
		fmtPayload, err := section.ParseFMTPayload(payload)
		if err != nil {
			warnings = append(warnings, record.Warning{
				Offset: int64(i),
				Kind:   record.WarningBadFormat,
				Detail: "malformed FMT payload",
			})
			i += section.FMTFrameLength - 1

			continue
		}

		fieldNames := splitColumns(fmtPayload.Columns)
		msgSchema, err := New(fmtPayload.Type, fmtPayload.Name, fmtPayload.Length, fmtPayload.Format, fieldNames)
		if err != nil {
			warnings = append(warnings, record.Warning{
				Offset: int64(i),
				Kind:   record.WarningBadFormat,
				Detail: fmt.Sprintf("schema for type %d (%s): %v", fmtPayload.Type, fmtPayload.Name, err),
			})
			i += section.FMTFrameLength - 1

			continue
		}

		if msgSchema.Undecodable {
			warnings = append(warnings, record.Warning{
				Offset: int64(i),
				Kind:   record.WarningBadFormat,
				Detail: fmt.Sprintf("schema for type %d (%s) is undecodable", fmtPayload.Type, fmtPayload.Name),
			})
		}

		registry.Insert(msgSchema)
		i += section.FMTFrameLength - 1
	}

	warnings = append(warnings, applyMultiplierFrames(data, registry)...)

	return warnings
}

func isFMTFrameAt(data []byte, i int) bool {
	return data[i] == section.SyncByte0 && data[i+1] == section.SyncByte1 && data[i+2] == section.FMTTypeID
}

// splitColumns turns a FMT frame's comma-separated Columns string into an
// ordered field-name list.
func splitColumns(columns string) []string {
	if columns == "" {
		return nil
	}

	names := make([]string, 0, 8)
	start := 0
	for i := 0; i <= len(columns); i++ {
		if i == len(columns) || columns[i] == ',' {
			names = append(names, columns[start:i])
			start = i + 1
		}
	}

	return names
}

// applyMultiplierFrames locates every FMTU/FUNIT-named schema's frames in
// the file and applies their per-field multipliers to the schema they
// reference. This runs after the main bootstrap pass so every
// schema, including the FMTU/FUNIT schema itself, is already known.
func applyMultiplierFrames(data []byte, registry *FormatRegistry) []record.Warning {
	var warnings []record.Warning

	for _, multSchema := range multiplierSchemas(registry) {
		frameLen := int(multSchema.FrameLength)
		decoder, err := multSchema.Decoder(registry.Cache())
		if err != nil {
			continue
		}

		for i := 0; i+frameLen <= len(data); i++ {
			if data[i] != section.SyncByte0 || data[i+1] != section.SyncByte1 || data[i+2] != multSchema.TypeID {
				continue
			}

			payload := data[i+section.HeaderSize : i+frameLen]
			values := decoder.Decode(payload)

			fields := make([]record.Field, len(values))
			for j, v := range values {
				fields[j] = record.Field{Name: multSchema.FieldNames[j], Value: v}
			}

			targetID, multIDs, ok := extractMultiplierRefs(fields)
			if !ok {
				continue
			}

			target, ok := registry.Get(targetID)
			if !ok {
				warnings = append(warnings, record.Warning{
					Offset: int64(i),
					Kind:   record.WarningUnknownType,
					Detail: fmt.Sprintf("%s references unknown type %d", multSchema.Name, targetID),
				})

				continue
			}

			scales := parseMultIDs(multIDs)
			if len(scales) != len(target.FieldNames) {
				// Pad or trim so SetScaleFactors' length check never spuriously
				// fails; a short/overlong MultIds string is itself a
				// malformed-frame condition, not cause to abort preload.
				scales = resize(scales, len(target.FieldNames))
			}

			_ = target.SetScaleFactors(scales)

			i += frameLen - 1
		}
	}

	return warnings
}

func resize(scales []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i < len(scales) {
			out[i] = scales[i]
		} else {
			out[i] = 1
		}
	}

	return out
}

func multiplierSchemas(registry *FormatRegistry) []*MessageSchema {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	var out []*MessageSchema
	for _, s := range registry.schemas {
		if s.Name == "FMTU" || s.Name == "FUNIT" {
			out = append(out, s)
		}
	}

	return out
}

func extractMultiplierRefs(fields []record.Field) (typeID uint8, multIDs string, ok bool) {
	var foundType, foundMult bool

	for _, f := range fields {
		switch f.Name {
		case "FmtType":
			if u, uok := f.Value.Uint64(); uok {
				typeID = uint8(u)
				foundType = true
			}
		case "MultIds":
			if s, sok := f.Value.String(); sok {
				multIDs = s
				foundMult = true
			}
		}
	}

	return typeID, multIDs, foundType && foundMult
}
