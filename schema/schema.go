// Package schema implements the Format Registry subsystem:
// MessageSchema, FormatRegistry, and the bootstrap Preload scan that
// populates the registry from a BIN file's FMT/FMTU/FUNIT frames.
package schema

import (
	"sync"

	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/format"
)

// MessageSchema is one message type's decoded layout.
//
// A MessageSchema is created once, when its FMT frame is decoded, and is
// never mutated afterward except for ScaleFactors, which a later
// FMTU/FUNIT frame for the same type_id may populate.
type MessageSchema struct {
	TypeID       uint8
	Name         string
	FrameLength  uint8
	FormatString string
	FieldNames   []string

	// ScaleFactors is empty until a FMTU/FUNIT frame supplies explicit
	// per-field multipliers; until then, each field's implicit scale
	// (format.ImplicitScale) applies.
	ScaleFactors []float64

	// Undecodable is true when FormatString contains a code outside
	// format's alphabet, or when its payload width plus the 3-byte header
	// does not equal FrameLength. Frames of this type become warnings.
	Undecodable bool

	// decoderMu guards decoder: a Snapshot hands out the same *MessageSchema
	// pointer to every worker, so two segments decoding the same message
	// type concurrently both read and write it.
	decoderMu sync.Mutex
	decoder   *format.CompiledDecoder
}

// New validates and constructs a MessageSchema.
func New(typeID uint8, name string, frameLength uint8, formatString string, fieldNames []string) (*MessageSchema, error) {
	if len(fieldNames) != len(formatString) {
		return nil, errs.ErrFieldNameCountMismatch
	}

	s := &MessageSchema{
		TypeID:       typeID,
		Name:         name,
		FrameLength:  frameLength,
		FormatString: formatString,
		FieldNames:   fieldNames,
	}

	width, err := format.PayloadWidth(formatString)
	if err != nil || width+3 != int(frameLength) {
		s.Undecodable = true
	}

	return s, nil
}

// SetScaleFactors installs explicit per-field multipliers from a
// FMTU/FUNIT frame, replacing (not compounding) each field's implicit
// scale.
func (s *MessageSchema) SetScaleFactors(scales []float64) error {
	if len(scales) != len(s.FieldNames) {
		return errs.ErrScaleFactorCountMismatch
	}

	s.decoderMu.Lock()
	defer s.decoderMu.Unlock()

	s.ScaleFactors = scales
	s.decoder = nil // force recompilation with the new scale overrides

	return nil
}

// Decoder returns (compiling on first use) the CompiledDecoder for this
// schema, honoring any explicit ScaleFactors override.
//
// cache is consulted only when ScaleFactors is empty, since a scale
// override makes this schema's compiled decoder unique to it and
// therefore not shareable via the cache. A Snapshot shares the same
// *MessageSchema across every worker, so the cached decoder read/write
// is guarded by decoderMu rather than left racy.
func (s *MessageSchema) Decoder(cache *format.Cache) (*format.CompiledDecoder, error) {
	if s.Undecodable {
		return nil, errs.ErrSchemaUndecodable
	}

	s.decoderMu.Lock()
	defer s.decoderMu.Unlock()

	if s.decoder != nil {
		return s.decoder, nil
	}

	if len(s.ScaleFactors) == 0 {
		decoder, err := cache.Get(s.FormatString)
		if err != nil {
			return nil, err
		}
		s.decoder = decoder

		return decoder, nil
	}

	decoder, err := format.Compile(s.FormatString, s.ScaleFactors)
	if err != nil {
		return nil, err
	}
	s.decoder = decoder

	return decoder, nil
}
