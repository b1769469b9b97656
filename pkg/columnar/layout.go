package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// ListLayout describes variable-length spans over a child array: an
// offset array of rows+1 entries, a validity bitmap and the append cursors
// used by the population pass.
//
// Spans are fixed once populated. Overwriting a row with a shorter value
// keeps the allocated span and records the live length in a sizes overlay,
// which is only allocated the first time a row shrinks.
type ListLayout struct {
	alloc    memory.Allocator
	offsets  *OffsetArray
	sizes    *OffsetArray
	validity *NullBitmap

	rows  int
	total int64

	next     int
	cursor   int64
	overflow bool
}

// AllocateListLayout allocates a layout for rows spans covering total child
// elements.
func AllocateListLayout(alloc memory.Allocator, rows int, total int64, wide bool) *ListLayout {
	return &ListLayout{
		alloc:    alloc,
		offsets:  NewOffsetArray(alloc, rows+1, wide),
		validity: NewNullBitmap(alloc, rows),
		rows:     rows,
		total:    total,
	}
}

// AppendSpan appends a valid row of n child elements and returns the index
// of its first element in the child array.
func (l *ListLayout) AppendSpan(n int) int {
	start := l.cursor
	if l.next >= l.rows || start+int64(n) > l.total {
		l.overflow = true
		return int(start)
	}
	l.cursor += int64(n)
	l.next++
	l.offsets.Set(l.next, uint64(l.cursor))
	return int(start)
}

// AppendNull appends a null row with an empty span.
func (l *ListLayout) AppendNull() {
	if l.next >= l.rows {
		l.overflow = true
		return
	}
	l.validity.Set(l.next, false)
	l.next++
	l.offsets.Set(l.next, uint64(l.cursor))
}

// Finish verifies that population consumed exactly the estimated counts.
func (l *ListLayout) Finish() error {
	switch {
	case l.overflow:
		return errors.New(errors.ErrorTypeMalformedLayout, "population overran the estimated counts").
			WithDetail("rows", l.rows).
			WithDetail("total", l.total)
	case l.next != l.rows:
		return errors.Newf(errors.ErrorTypeMalformedLayout, "populated %d of %d rows", l.next, l.rows)
	case l.cursor != l.total:
		return errors.Newf(errors.ErrorTypeMalformedLayout, "populated %d of %d child elements", l.cursor, l.total)
	case l.offsets.At(l.rows) != uint64(l.total):
		return errors.New(errors.ErrorTypeMalformedLayout, "final offset does not match child length")
	case !l.offsets.Monotonic():
		return errors.New(errors.ErrorTypeMalformedLayout, "offsets are not monotonic")
	}
	return nil
}

// Len returns the number of rows.
func (l *ListLayout) Len() int { return l.rows }

// Total returns the number of child elements covered by the layout.
func (l *ListLayout) Total() int64 { return l.total }

// IsValid reports whether row i is non-null.
func (l *ListLayout) IsValid(i int) bool { return l.validity.Get(i) }

// SetValid sets the presence bit of row i.
func (l *ListLayout) SetValid(i int, valid bool) { l.validity.Set(i, valid) }

// NullN returns the number of null rows.
func (l *ListLayout) NullN() int { return l.rows - l.validity.CountValid() }

// Capacity returns the allocated length of row i.
func (l *ListLayout) Capacity(i int) int {
	return int(l.offsets.At(i+1) - l.offsets.At(i))
}

// Span returns the live child range of row i.
func (l *ListLayout) Span(i int) (start, end int) {
	start = int(l.offsets.At(i))
	if l.sizes != nil {
		return start, start + int(l.sizes.At(i))
	}
	return start, int(l.offsets.At(i + 1))
}

// Size returns the live length of row i.
func (l *ListLayout) Size(i int) int {
	start, end := l.Span(i)
	return end - start
}

// Resize sets the live length of row i; n must not exceed Capacity(i).
func (l *ListLayout) Resize(i, n int) {
	if l.sizes == nil {
		if n == l.Capacity(i) {
			return
		}
		l.sizes = NewOffsetArray(l.alloc, l.rows, l.offsets.Wide())
		for r := 0; r < l.rows; r++ {
			l.sizes.Set(r, uint64(l.Capacity(r)))
		}
	}
	l.sizes.Set(i, uint64(n))
}

// Offsets returns the offset array.
func (l *ListLayout) Offsets() *OffsetArray { return l.offsets }

// Validity returns the row bitmap.
func (l *ListLayout) Validity() *NullBitmap { return l.validity }

// NBytes returns the bytes held by offsets, sizes and validity.
func (l *ListLayout) NBytes() int {
	n := l.offsets.NBytes() + l.validity.NBytes()
	if l.sizes != nil {
		n += l.sizes.NBytes()
	}
	return n
}

// Release frees the layout buffers.
func (l *ListLayout) Release() {
	l.offsets.Release()
	l.sizes.Release()
	l.validity.Release()
}
