package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// Converter moves rows between host values and flat arrays. It carries the
// allocator and build options so callers at the boundary do not have to.
type Converter struct {
	alloc memory.Allocator
	opts  []Option
}

// NewConverter returns a converter allocating from alloc.
func NewConverter(alloc memory.Allocator, opts ...Option) *Converter {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	return &Converter{alloc: alloc, opts: opts}
}

// Allocator returns the converter's allocator.
func (c *Converter) Allocator() memory.Allocator { return c.alloc }

// Build builds an array of any shape.
func (c *Converter) Build(shape Shape, rows []Value) (Array, error) {
	return Build(c.alloc, shape, rows, c.opts...)
}

// BuildMap builds a map array from rows of Map or nil.
func (c *Converter) BuildMap(key, value Shape, rows []Value) (*MapArray, error) {
	return BuildMapArray(c.alloc, key, value, rows, c.opts...)
}

// ReadMap reconstructs row i of m.
func (c *Converter) ReadMap(m *MapArray, i int) (Map, error) {
	return m.Get(i)
}

// BuildStrings builds a string array.
func (c *Converter) BuildStrings(rows []Value) (*StringArray, error) {
	return BuildStringArray(c.alloc, rows, c.opts...)
}

// BuildSplit builds a split view over src.
func (c *Converter) BuildSplit(src *StringArray, sep rune) (*SplitStringView, error) {
	return BuildSplitView(src, sep, c.opts...)
}

// ReadSplit returns the tokens of row i of v.
func (c *Converter) ReadSplit(v *SplitStringView, i int) ([]string, error) {
	return v.Get(i)
}

// Filter keeps the rows of v selected by mask.
func (c *Converter) Filter(v *SplitStringView, mask []bool) (*SplitStringView, error) {
	return v.FilterMask(mask)
}

// Rows materializes every row of arr.
func (c *Converter) Rows(arr Array) ([]Value, error) {
	rows := make([]Value, arr.Len())
	for i := range rows {
		v, err := arr.Value(i)
		if err != nil {
			return nil, err
		}
		rows[i] = v
	}
	return rows, nil
}

// ToArrow exports arr as an arrow array.
func (c *Converter) ToArrow(arr Array) (arrow.Array, error) {
	return ToArrow(c.alloc, arr)
}

// FromArrow imports an arrow array and rebuilds it as a flat array.
func (c *Converter) FromArrow(arr arrow.Array) (Array, error) {
	shape, rows, err := FromArrow(arr)
	if err != nil {
		return nil, err
	}
	out, err := c.Build(shape, rows)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTypeMismatch, "arrow import")
	}
	return out, nil
}
