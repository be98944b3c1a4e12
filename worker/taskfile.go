package worker

import (
	"encoding/json"
	"os"

	"github.com/ardulog/ardulog/record"
	"github.com/ardulog/ardulog/schema"
)

// SchemaDTO is the JSON-serializable projection of a schema.MessageSchema
// used to hand a registry snapshot to a re-exec'd cmd/ardulog-worker
// process.
type SchemaDTO struct {
	TypeID       uint8     `json:"type_id"`
	Name         string    `json:"name"`
	FrameLength  uint8     `json:"frame_length"`
	FormatString string    `json:"format_string"`
	FieldNames   []string  `json:"field_names"`
	ScaleFactors []float64 `json:"scale_factors,omitempty"`
}

// TaskFile is the complete payload written to disk for one ProcessPool
// worker invocation: enough to independently re-open the input file,
// rebuild a registry snapshot, decode one segment, and write its spill
// file.
type TaskFile struct {
	FilePath    string      `json:"file_path"`
	SegmentID   int         `json:"segment_id"`
	RangeStart  int64       `json:"range_start"`
	RangeEnd    int64       `json:"range_end"`
	SpillPath        string      `json:"spill_path"`
	SpillCompression uint8       `json:"spill_compression"`
	Filter           []string    `json:"filter,omitempty"`
	RoundFloats      bool        `json:"round_floats"`
	Schemas          []SchemaDTO `json:"schemas"`
}

// SnapshotToDTOs projects every schema in snapshot into its JSON form.
func SnapshotToDTOs(snap *schema.Snapshot) []SchemaDTO {
	typeIDs := snap.TypeIDs()

	dtos := make([]SchemaDTO, 0, len(typeIDs))
	for _, id := range typeIDs {
		s, ok := snap.Get(id)
		if !ok {
			continue
		}
		dtos = append(dtos, SchemaDTO{
			TypeID:       s.TypeID,
			Name:         s.Name,
			FrameLength:  s.FrameLength,
			FormatString: s.FormatString,
			FieldNames:   s.FieldNames,
			ScaleFactors: s.ScaleFactors,
		})
	}

	return dtos
}

// BuildSnapshot reconstructs a registry snapshot from dtos, recompiling
// each schema and re-applying any scale factor overrides.
func BuildSnapshot(dtos []SchemaDTO) (*schema.Snapshot, error) {
	registry := schema.NewFormatRegistry()

	for _, dto := range dtos {
		s, err := schema.New(dto.TypeID, dto.Name, dto.FrameLength, dto.FormatString, dto.FieldNames)
		if err != nil {
			return nil, err
		}
		if len(dto.ScaleFactors) > 0 {
			if err := s.SetScaleFactors(dto.ScaleFactors); err != nil {
				return nil, err
			}
		}
		registry.Insert(s)
	}

	return registry.Snapshot(), nil
}

// WriteTaskFile serializes a TaskFile as JSON to path.
func WriteTaskFile(path string, tf TaskFile) error {
	data, err := json.Marshal(tf)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// ReadTaskFile deserializes a TaskFile previously written by
// WriteTaskFile.
func ReadTaskFile(path string) (TaskFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TaskFile{}, err
	}

	var tf TaskFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return TaskFile{}, err
	}

	return tf, nil
}

// FilterSet converts a TaskFile's filter name list into the map shape
// decode.Decoder and Task expect (nil means "no filter").
func FilterSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return set
}

// WarningsResultFile is the JSON payload cmd/ardulog-worker writes to
// its stdout on successful completion: the segment's accumulated
// warnings, since a subprocess cannot return them as in-memory Go
// values to its parent.
type WarningsResultFile struct {
	Warnings []record.Warning `json:"warnings"`
}
