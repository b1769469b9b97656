package columnar

import (
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// ListArray stores variable-length lists as spans over a child array.
type ListArray struct {
	shape  ListShape
	layout *ListLayout
	child  column
}

func (a *ListArray) Shape() Shape       { return a.shape }
func (a *ListArray) Len() int           { return a.layout.Len() }
func (a *ListArray) NullN() int         { return a.layout.NullN() }
func (a *ListArray) IsValid(i int) bool { return a.layout.IsValid(i) }

// Layout returns the offsets and validity of the lists.
func (a *ListArray) Layout() *ListLayout { return a.layout }

// Child returns the flattened element array.
func (a *ListArray) Child() Array { return a.child }

func (a *ListArray) Value(i int) (Value, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.value(i, true), nil
}

func (a *ListArray) NBytes() int { return a.layout.NBytes() + a.child.NBytes() }

func (a *ListArray) Release() {
	a.layout.Release()
	a.child.Release()
}

func (a *ListArray) appendValue(v Value) {
	list, ok := v.(List)
	if !ok || list == nil {
		a.layout.AppendNull()
		return
	}
	a.layout.AppendSpan(len(list))
	for _, e := range list {
		a.child.appendValue(e)
	}
}

func (a *ListArray) finish() error {
	if err := a.layout.Finish(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeMalformedLayout, a.shape.String())
	}
	return a.child.finish()
}

func (a *ListArray) value(i int, dedup bool) Value {
	if !a.layout.IsValid(i) {
		return nil
	}
	start, end := a.layout.Span(i)
	out := make(List, 0, end-start)
	for j := start; j < end; j++ {
		out = append(out, a.child.value(j, dedup))
	}
	return out
}

func (a *ListArray) fits(i int, v Value) error {
	if isNull(v) {
		return nil
	}
	list, ok := v.(List)
	if !ok {
		return mismatch(a.shape, v)
	}
	if capacity := a.layout.Capacity(i); len(list) > capacity {
		return errors.Newf(errors.ErrorTypeCapacityExceeded,
			"list of %d elements does not fit slot of %d", len(list), capacity).
			WithDetail("row", i)
	}
	start := int(a.layout.Offsets().At(i))
	for j, e := range list {
		if err := a.child.fits(start+j, e); err != nil {
			return err
		}
	}
	return nil
}

func (a *ListArray) overwrite(i int, v Value) {
	list, ok := v.(List)
	if !ok || list == nil {
		a.layout.Resize(i, 0)
		a.layout.SetValid(i, false)
		return
	}
	start := int(a.layout.Offsets().At(i))
	for j, e := range list {
		a.child.overwrite(start+j, e)
	}
	a.layout.Resize(i, len(list))
	a.layout.SetValid(i, true)
}

func (a *ListArray) measure(c Counts) {
	c[0] += int64(a.Len())
	a.child.measure(c[1:])
}
