package columnar

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// OffsetWidth selects the storage width of offset arrays.
type OffsetWidth int

const (
	// OffsetWidthAuto uses 32-bit offsets unless the child total needs more.
	OffsetWidthAuto OffsetWidth = iota
	// OffsetWidth32 forces 32-bit offsets; building fails if they overflow.
	OffsetWidth32
	// OffsetWidth64 forces 64-bit offsets.
	OffsetWidth64
)

// String returns the config spelling of the width.
func (w OffsetWidth) String() string {
	switch w {
	case OffsetWidth32:
		return "32"
	case OffsetWidth64:
		return "64"
	default:
		return "auto"
	}
}

// ParseOffsetWidth parses "auto", "32" or "64".
func ParseOffsetWidth(s string) (OffsetWidth, error) {
	switch s {
	case "", "auto":
		return OffsetWidthAuto, nil
	case "32":
		return OffsetWidth32, nil
	case "64":
		return OffsetWidth64, nil
	}
	return OffsetWidthAuto, errors.Newf(errors.ErrorTypeConfig, "invalid offset width %q", s)
}

// wide decides the storage width for a layout whose largest offset is total.
func (w OffsetWidth) wide(total int64) (bool, error) {
	fits := total <= math.MaxUint32
	switch w {
	case OffsetWidth64:
		return true, nil
	case OffsetWidth32:
		if !fits {
			return false, errors.Newf(errors.ErrorTypeValidation,
				"offset total %d overflows 32-bit offsets", total).
				WithDetail("total", total)
		}
		return false, nil
	}
	return !fits, nil
}

// OffsetArray is a run of unsigned offsets stored either as uint32 or
// uint64. Exactly one of the two buffers is set.
type OffsetArray struct {
	narrow *Buffer[uint32]
	wide   *Buffer[uint64]
}

// NewOffsetArray allocates n zeroed offsets.
func NewOffsetArray(alloc memory.Allocator, n int, wide bool) *OffsetArray {
	if wide {
		return &OffsetArray{wide: NewBuffer[uint64](alloc, n)}
	}
	return &OffsetArray{narrow: NewBuffer[uint32](alloc, n)}
}

// Wide reports whether the offsets use 64-bit storage.
func (o *OffsetArray) Wide() bool { return o.wide != nil }

// Len returns the number of offsets.
func (o *OffsetArray) Len() int {
	if o.wide != nil {
		return o.wide.Len()
	}
	return o.narrow.Len()
}

// At returns offset i.
func (o *OffsetArray) At(i int) uint64 {
	if o.wide != nil {
		return o.wide.At(i)
	}
	return uint64(o.narrow.At(i))
}

// Set writes offset i. Callers have already checked that v fits the width.
func (o *OffsetArray) Set(i int, v uint64) {
	if o.wide != nil {
		o.wide.Set(i, v)
		return
	}
	o.narrow.Set(i, uint32(v))
}

// Values copies the offsets out as uint64.
func (o *OffsetArray) Values() []uint64 {
	out := make([]uint64, o.Len())
	for i := range out {
		out[i] = o.At(i)
	}
	return out
}

// Monotonic reports whether the offsets never decrease.
func (o *OffsetArray) Monotonic() bool {
	for i := 1; i < o.Len(); i++ {
		if o.At(i) < o.At(i-1) {
			return false
		}
	}
	return true
}

// NBytes returns the storage size in bytes.
func (o *OffsetArray) NBytes() int {
	if o.wide != nil {
		return o.wide.NBytes()
	}
	return o.narrow.NBytes()
}

// Release frees the offsets.
func (o *OffsetArray) Release() {
	if o == nil {
		return
	}
	o.narrow.Release()
	o.wide.Release()
}

// copyRange copies n offsets of src starting at from into o starting at to.
// Both arrays must have the same width.
func (o *OffsetArray) copyRange(to int, src *OffsetArray, from, n int) {
	if o.wide != nil {
		copy(o.wide.Values()[to:to+n], src.wide.Values()[from:from+n])
		return
	}
	copy(o.narrow.Values()[to:to+n], src.narrow.Values()[from:from+n])
}
