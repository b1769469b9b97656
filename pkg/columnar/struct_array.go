package columnar

import (
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// StructArray stores fixed-arity records as co-indexed child arrays. It
// backs both StructShape and TupleShape.
type StructArray struct {
	shape    Shape
	names    []string
	fields   []column
	validity *NullBitmap
	rows     int
	next     int
}

func (a *StructArray) Shape() Shape       { return a.shape }
func (a *StructArray) Len() int           { return a.rows }
func (a *StructArray) NullN() int         { return a.rows - a.validity.CountValid() }
func (a *StructArray) IsValid(i int) bool { return a.validity.Get(i) }

// NumField returns the number of children.
func (a *StructArray) NumField() int { return len(a.fields) }

// Field returns child k.
func (a *StructArray) Field(k int) Array { return a.fields[k] }

// FieldName returns the name of child k.
func (a *StructArray) FieldName(k int) string { return a.names[k] }

// FieldByName returns the child called name.
func (a *StructArray) FieldByName(name string) (Array, bool) {
	for k, n := range a.names {
		if n == name {
			return a.fields[k], true
		}
	}
	return nil, false
}

func (a *StructArray) Value(i int) (Value, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.value(i, true), nil
}

func (a *StructArray) NBytes() int {
	n := a.validity.NBytes()
	for _, f := range a.fields {
		n += f.NBytes()
	}
	return n
}

func (a *StructArray) Release() {
	a.validity.Release()
	for _, f := range a.fields {
		f.Release()
	}
}

func (a *StructArray) appendValue(v Value) {
	s, ok := v.(Struct)
	if !ok || s == nil {
		if a.next < a.rows {
			a.validity.Set(a.next, false)
		}
		for _, f := range a.fields {
			f.appendValue(nil)
		}
		a.next++
		return
	}
	for k, f := range a.fields {
		f.appendValue(s[k])
	}
	a.next++
}

// appendEntry writes one map pair as a valid row.
func (a *StructArray) appendEntry(e Entry) {
	a.fields[0].appendValue(e.Key)
	a.fields[1].appendValue(e.Value)
	a.next++
}

func (a *StructArray) finish() error {
	if err := rowCursor(a.shape.String(), a.next, a.rows); err != nil {
		return err
	}
	for k, f := range a.fields {
		if f.Len() != a.rows {
			return errors.Newf(errors.ErrorTypeMalformedLayout,
				"field %q has %d rows, struct has %d", a.names[k], f.Len(), a.rows)
		}
		if err := f.finish(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeMalformedLayout, strings.Sprintf("field %q", a.names[k]))
		}
	}
	return nil
}

func (a *StructArray) value(i int, dedup bool) Value {
	if !a.validity.Get(i) {
		return nil
	}
	out := make(Struct, len(a.fields))
	for k, f := range a.fields {
		out[k] = f.value(i, dedup)
	}
	return out
}

func (a *StructArray) fits(i int, v Value) error {
	if isNull(v) {
		return nil
	}
	s, ok := v.(Struct)
	if !ok {
		return mismatch(a.shape, v)
	}
	if len(s) != len(a.fields) {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"%s has %d fields, value has %d", a.shape.String(), len(a.fields), len(s))
	}
	for k, f := range a.fields {
		if err := f.fits(i, s[k]); err != nil {
			return err
		}
	}
	return nil
}

func (a *StructArray) overwrite(i int, v Value) {
	s, ok := v.(Struct)
	if !ok || s == nil {
		a.validity.Set(i, false)
		for _, f := range a.fields {
			f.overwrite(i, nil)
		}
		return
	}
	for k, f := range a.fields {
		f.overwrite(i, s[k])
	}
	a.validity.Set(i, true)
}

// overwriteEntry writes one map pair over row i.
func (a *StructArray) overwriteEntry(i int, e Entry) {
	a.fields[0].overwrite(i, e.Key)
	a.fields[1].overwrite(i, e.Value)
	a.validity.Set(i, true)
}

func (a *StructArray) measure(c Counts) {
	c[0] += int64(a.rows)
	off := 1
	for _, f := range a.fields {
		f.measure(c[off:])
		off += Levels(f.Shape())
	}
}
