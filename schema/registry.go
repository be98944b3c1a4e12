package schema

import (
	"sync"

	"github.com/ardulog/ardulog/errs"
	"github.com/ardulog/ardulog/format"
)

// FormatRegistry maps type_id to MessageSchema. The orchestrator
// owns the canonical registry and mutates it only during Preload; workers
// receive an immutable Snapshot.
type FormatRegistry struct {
	mu      sync.RWMutex
	schemas map[uint8]*MessageSchema
	cache   *format.Cache
}

// NewFormatRegistry creates an empty registry.
func NewFormatRegistry() *FormatRegistry {
	return &FormatRegistry{
		schemas: make(map[uint8]*MessageSchema),
		cache:   format.NewCache(),
	}
}

// Insert adds or replaces the schema for its TypeID.
func (r *FormatRegistry) Insert(s *MessageSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas[s.TypeID] = s
}

// Get returns the schema for typeID, if any.
func (r *FormatRegistry) Get(typeID uint8) (*MessageSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[typeID]

	return s, ok
}

// Cache returns the shared compiled-decoder cache backing this registry.
func (r *FormatRegistry) Cache() *format.Cache { return r.cache }

// Snapshot returns an immutable, independently-readable copy of the
// registry's current schemas, safe to hand to a worker.
//
// Snapshot must only be called after Preload has fully completed: a
// segment may reference a type_id whose FMT frame appears earlier in the
// file than the segment's own start offset, so the registry is only
// complete once the whole file has been scanned.
func (r *FormatRegistry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make(map[uint8]*MessageSchema, len(r.schemas))
	for k, v := range r.schemas {
		schemas[k] = v
	}

	return &Snapshot{schemas: schemas, cache: r.cache}
}

// Snapshot is an immutable, read-only view of a FormatRegistry; one
// Snapshot is shared by every worker of a run.
type Snapshot struct {
	schemas map[uint8]*MessageSchema
	cache   *format.Cache
}

// Get returns the schema for typeID, if any.
func (s *Snapshot) Get(typeID uint8) (*MessageSchema, bool) {
	schema, ok := s.schemas[typeID]

	return schema, ok
}

// Cache returns the shared compiled-decoder cache backing this snapshot.
func (s *Snapshot) Cache() *format.Cache { return s.cache }

// TypeIDs returns every type_id this snapshot carries a schema for, in
// no particular order. Used by worker.SnapshotToDTOs to project a full
// snapshot for a re-exec'd process-mode worker.
func (s *Snapshot) TypeIDs() []uint8 {
	ids := make([]uint8, 0, len(s.schemas))
	for id := range s.schemas {
		ids = append(ids, id)
	}

	return ids
}

// FrameLength returns the frame_length for typeID, and whether typeID is
// known, without requiring the caller to go through MessageSchema.
func (s *Snapshot) FrameLength(typeID uint8) (uint8, bool) {
	schema, ok := s.schemas[typeID]
	if !ok {
		return 0, false
	}

	return schema.FrameLength, true
}

// Decoder returns the compiled decoder for typeID's schema.
func (s *Snapshot) Decoder(typeID uint8) (*format.CompiledDecoder, error) {
	schema, ok := s.schemas[typeID]
	if !ok {
		return nil, errs.ErrUnknownTypeID
	}

	return schema.Decoder(s.cache)
}
