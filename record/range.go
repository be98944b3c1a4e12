package record

// ByteRange is a half-open [Start, End) span of file bytes aligned to
// frame boundaries: Start is always a valid frame-start offset
// from the Sync Scanner, and End is either EOF or another valid
// frame-start offset.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes the range spans.
func (r ByteRange) Len() int64 { return r.End - r.Start }
