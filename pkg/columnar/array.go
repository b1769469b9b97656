package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// Array is a built, immutable-shape column of nested values.
type Array interface {
	// Shape returns the static shape of every row.
	Shape() Shape
	// Len returns the number of rows.
	Len() int
	// NullN returns the number of null rows.
	NullN() int
	// IsValid reports whether row i is non-null.
	IsValid(i int) bool
	// Value reconstructs row i as a host value. Strings are copied out of
	// the array; maps are deduplicated by key.
	Value(i int) (Value, error)
	// NBytes returns the number of bytes held by the array's buffers.
	NBytes() int
	// Release frees the array's buffers.
	Release()
}

// column is implemented by every array that can be nested inside another.
type column interface {
	Array

	// appendValue writes the next row. The value has already been checked
	// against the shape by the estimation pass.
	appendValue(v Value)
	// finish verifies that every cursor reached its estimated total.
	finish() error
	// value reconstructs row i without bounds checks. dedup collapses
	// duplicate map keys.
	value(i int, dedup bool) Value
	// fits reports whether v can overwrite row i in place.
	fits(i int, v Value) error
	// overwrite writes v over row i after fits succeeded.
	overwrite(i int, v Value)
	// measure adds the number of elements held at each level to c.
	measure(c Counts)
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return errors.IndexOutOfRange(i, n)
	}
	return nil
}

func rowCursor(name string, next, rows int) error {
	if next != rows {
		return errors.Newf(errors.ErrorTypeMalformedLayout, "%s: populated %d of %d rows", name, next, rows)
	}
	return nil
}

// PrimitiveArray stores fixed-width numeric scalars contiguously.
type PrimitiveArray[T int64 | float64] struct {
	shape    ScalarShape
	values   *Buffer[T]
	validity *NullBitmap
	next     int
}

// Int64Array is a column of int64 values.
type Int64Array = PrimitiveArray[int64]

// Float64Array is a column of float64 values.
type Float64Array = PrimitiveArray[float64]

func newPrimitiveArray[T int64 | float64](alloc memory.Allocator, shape ScalarShape, rows int) *PrimitiveArray[T] {
	return &PrimitiveArray[T]{
		shape:    shape,
		values:   NewBuffer[T](alloc, rows),
		validity: NewNullBitmap(alloc, rows),
	}
}

func (a *PrimitiveArray[T]) Shape() Shape       { return a.shape }
func (a *PrimitiveArray[T]) Len() int           { return a.values.Len() }
func (a *PrimitiveArray[T]) NullN() int         { return a.Len() - a.validity.CountValid() }
func (a *PrimitiveArray[T]) IsValid(i int) bool { return a.validity.Get(i) }

// Values returns the raw values; null slots hold zero.
func (a *PrimitiveArray[T]) Values() []T { return a.values.Values() }

// At returns the raw value of row i.
func (a *PrimitiveArray[T]) At(i int) T { return a.values.At(i) }

func (a *PrimitiveArray[T]) Value(i int) (Value, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.value(i, true), nil
}

func (a *PrimitiveArray[T]) NBytes() int { return a.values.NBytes() + a.validity.NBytes() }

func (a *PrimitiveArray[T]) Release() {
	a.values.Release()
	a.validity.Release()
}

func (a *PrimitiveArray[T]) appendValue(v Value) {
	if a.next >= a.Len() {
		a.next++
		return
	}
	if isNull(v) {
		a.validity.Set(a.next, false)
	} else {
		a.values.Set(a.next, unwrapNumber[T](v))
	}
	a.next++
}

func (a *PrimitiveArray[T]) finish() error {
	return rowCursor(a.shape.String(), a.next, a.Len())
}

func (a *PrimitiveArray[T]) value(i int, _ bool) Value {
	if !a.validity.Get(i) {
		return nil
	}
	switch v := any(a.values.At(i)).(type) {
	case int64:
		return Int64(v)
	case float64:
		return Float64(v)
	}
	return nil
}

func (a *PrimitiveArray[T]) fits(_ int, v Value) error {
	if isNull(v) {
		return nil
	}
	return checkScalar(a.shape, v)
}

func (a *PrimitiveArray[T]) overwrite(i int, v Value) {
	if isNull(v) {
		a.values.Set(i, 0)
		a.validity.Set(i, false)
		return
	}
	a.values.Set(i, unwrapNumber[T](v))
	a.validity.Set(i, true)
}

func (a *PrimitiveArray[T]) measure(c Counts) { c[0] += int64(a.Len()) }

func unwrapNumber[T int64 | float64](v Value) T {
	switch v := v.(type) {
	case Int64:
		return T(v)
	case Float64:
		return T(v)
	}
	return 0
}

// BoolArray stores booleans as a packed bitmap next to its validity.
type BoolArray struct {
	values   *NullBitmap
	validity *NullBitmap
	next     int
}

func newBoolArray(alloc memory.Allocator, rows int) *BoolArray {
	a := &BoolArray{
		values:   NewNullBitmap(alloc, rows),
		validity: NewNullBitmap(alloc, rows),
	}
	a.values.Fill(false)
	return a
}

func (a *BoolArray) Shape() Shape       { return BoolShape() }
func (a *BoolArray) Len() int           { return a.values.Len() }
func (a *BoolArray) NullN() int         { return a.Len() - a.validity.CountValid() }
func (a *BoolArray) IsValid(i int) bool { return a.validity.Get(i) }

// At returns the raw value of row i.
func (a *BoolArray) At(i int) bool { return a.values.Get(i) }

func (a *BoolArray) Value(i int) (Value, error) {
	if err := checkIndex(i, a.Len()); err != nil {
		return nil, err
	}
	return a.value(i, true), nil
}

func (a *BoolArray) NBytes() int { return a.values.NBytes() + a.validity.NBytes() }

func (a *BoolArray) Release() {
	a.values.Release()
	a.validity.Release()
}

func (a *BoolArray) appendValue(v Value) {
	if a.next >= a.Len() {
		a.next++
		return
	}
	a.overwrite(a.next, v)
	a.next++
}

func (a *BoolArray) finish() error { return rowCursor("bool", a.next, a.Len()) }

func (a *BoolArray) value(i int, _ bool) Value {
	if !a.validity.Get(i) {
		return nil
	}
	return Bool(a.values.Get(i))
}

func (a *BoolArray) fits(_ int, v Value) error {
	if isNull(v) {
		return nil
	}
	return checkScalar(ScalarShape{Type: TypeBool}, v)
}

func (a *BoolArray) overwrite(i int, v Value) {
	b, ok := v.(Bool)
	a.values.Set(i, ok && bool(b))
	a.validity.Set(i, ok)
}

func (a *BoolArray) measure(c Counts) { c[0] += int64(a.Len()) }
