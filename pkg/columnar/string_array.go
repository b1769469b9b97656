package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// StringArray stores UTF-8 strings as byte spans over one character buffer.
type StringArray struct {
	layout *ListLayout
	chars  *Buffer[byte]
}

func newStringArray(alloc memory.Allocator, rows int, nbytes int64, wide bool) *StringArray {
	return &StringArray{
		layout: AllocateListLayout(alloc, rows, nbytes, wide),
		chars:  NewBuffer[byte](alloc, int(nbytes)),
	}
}

// BuildStringArray builds a string column from rows of String or nil.
func BuildStringArray(alloc memory.Allocator, rows []Value, opts ...Option) (*StringArray, error) {
	arr, err := Build(alloc, UTF8(), rows, opts...)
	if err != nil {
		return nil, err
	}
	return arr.(*StringArray), nil
}

func (a *StringArray) Shape() Shape       { return UTF8() }
func (a *StringArray) Len() int           { return a.layout.Len() }
func (a *StringArray) NullN() int         { return a.layout.NullN() }
func (a *StringArray) IsValid(i int) bool { return a.layout.IsValid(i) }

// Layout returns the offsets and validity of the strings.
func (a *StringArray) Layout() *ListLayout { return a.layout }

// Chars returns the shared character buffer.
func (a *StringArray) Chars() *Buffer[byte] { return a.chars }

// Bytes returns the bytes of row i. The slice aliases the array.
func (a *StringArray) Bytes(i int) []byte {
	start, end := a.layout.Span(i)
	return a.chars.Values()[start:end]
}

// At returns row i without copying; the string is only valid while the
// array is alive. Null rows return "".
func (a *StringArray) At(i int) string {
	return strings.BytesToString(a.Bytes(i))
}

func (a *StringArray) Value(i int) (Value, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.value(i, true), nil
}

func (a *StringArray) NBytes() int { return a.layout.NBytes() + a.chars.NBytes() }

func (a *StringArray) Release() {
	a.layout.Release()
	a.chars.Release()
}

func (a *StringArray) appendValue(v Value) {
	s, ok := v.(String)
	if !ok {
		a.layout.AppendNull()
		return
	}
	start := a.layout.AppendSpan(len(s))
	if start+len(s) <= a.chars.Len() {
		copy(a.chars.Values()[start:], string(s))
	}
}

func (a *StringArray) finish() error {
	if err := a.layout.Finish(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeMalformedLayout, "utf8")
	}
	return nil
}

func (a *StringArray) value(i int, _ bool) Value {
	if !a.layout.IsValid(i) {
		return nil
	}
	return String(strings.Clone(a.At(i)))
}

func (a *StringArray) fits(i int, v Value) error {
	if isNull(v) {
		return nil
	}
	s, ok := v.(String)
	if !ok {
		return mismatch(UTF8(), v)
	}
	if capacity := a.layout.Capacity(i); len(s) > capacity {
		return errors.Newf(errors.ErrorTypeCapacityExceeded,
			"string of %d bytes does not fit slot of %d bytes", len(s), capacity).
			WithDetail("row", i)
	}
	return nil
}

func (a *StringArray) overwrite(i int, v Value) {
	s, ok := v.(String)
	if !ok {
		a.layout.Resize(i, 0)
		a.layout.SetValid(i, false)
		return
	}
	start, _ := a.layout.Span(i)
	copy(a.chars.Values()[start:], string(s))
	a.layout.Resize(i, len(s))
	a.layout.SetValid(i, true)
}

func (a *StringArray) measure(c Counts) {
	c[0] += int64(a.Len())
	c[1] += a.layout.Total()
}
