package pool

import "sync"

// int16SlicePool backs the "a" format code (a 32-element int16 array
// field, this format table): a scratch destination is pulled from the pool
// while the field bytes are decoded, then copied into the exactly-sized
// slice that is attached to the final record.FieldValue.
var int16SlicePool = sync.Pool{
	New: func() any { return &[]int16{} },
}

// GetInt16Slice retrieves and resizes an int16 scratch slice from the pool.
//
// The returned slice has length equal to size. The caller must invoke the
// returned cleanup function (typically via defer) once the slice's
// contents have been copied out, since the backing array is returned to
// the pool and may be overwritten by a future caller.
func GetInt16Slice(size int) ([]int16, func()) {
	ptr, _ := int16SlicePool.Get().(*[]int16)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int16, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int16SlicePool.Put(ptr) }
}
