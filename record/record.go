package record

// Field pairs a field name with its decoded value, preserving the order
// the schema's field_names list declares.
type Field struct {
	Name  string
	Value FieldValue
}

// DecodedRecord is one decoded message frame.
type DecodedRecord struct {
	// MessageType is the schema's Name (e.g. "GPS"), not the raw type_id.
	MessageType string

	// Fields holds the record's values in schema field-order.
	Fields []Field

	// TimeUS is the record's microsecond timestamp. For frames that
	// declare a TimeUS field, this is that field's value. For frames
	// that don't, this is inherited from the last TimeUS seen earlier in
	// the same segment (or 0), tie-break rule; Inherited
	// distinguishes the two cases.
	TimeUS uint64

	// Inherited is true when TimeUS did not come from this record's own
	// fields.
	Inherited bool

	// Offset is the synthetic __offset__: the byte offset the frame
	// began at, used to break ties during merge.
	Offset int64
}

// Get returns the value of the named field and whether it was present.
func (r DecodedRecord) Get(name string) (FieldValue, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}

	return FieldValue{}, false
}
