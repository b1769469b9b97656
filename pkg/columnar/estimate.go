package columnar

import (
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// Counts holds the exact number of elements needed at each nesting level of
// a shape, in the slot order defined by Levels.
type Counts []int64

// Rows returns the top-level row count.
func (c Counts) Rows() int64 {
	if len(c) == 0 {
		return 0
	}
	return c[0]
}

// add accumulates o into c.
func (c Counts) add(o Counts) {
	for i := range o {
		c[i] += o[i]
	}
}

// Estimate walks rows once and returns the per-level element counts needed
// to hold them. No output buffers are touched.
func Estimate(shape Shape, rows []Value) (Counts, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	return estimateRange(shape, rows, 0)
}

// EstimateParallel is Estimate with rows split into chunks counted by up to
// workers goroutines. The result is identical to Estimate.
func EstimateParallel(shape Shape, rows []Value, workers int) (Counts, error) {
	if err := validateShape(shape); err != nil {
		return nil, err
	}
	if workers <= 1 || len(rows) < 2 {
		return estimateRange(shape, rows, 0)
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	chunk := (len(rows) + workers - 1) / workers
	parts := make([]Counts, (len(rows)+chunk-1)/chunk)
	var g errgroup.Group
	g.SetLimit(workers)
	for idx := range parts {
		lo := idx * chunk
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			c, err := estimateRange(shape, rows[lo:hi], lo)
			parts[idx] = c
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(Counts, Levels(shape))
	for _, p := range parts {
		total.add(p)
	}
	return total, nil
}

func estimateRange(shape Shape, rows []Value, base int) (Counts, error) {
	c := make(Counts, Levels(shape))
	for i, v := range rows {
		if err := countValue(shape, v, c); err != nil {
			if e, ok := err.(*errors.Error); ok {
				return nil, e.WithDetail("row", base+i)
			}
			return nil, err
		}
	}
	return c, nil
}

// countValue adds one row slot for v at c[0] and its nested elements below.
func countValue(shape Shape, v Value, c Counts) error {
	if isNull(v) {
		countNull(shape, c)
		return nil
	}
	c[0]++

	switch s := shape.(type) {
	case ScalarShape:
		return checkScalar(s, v)
	case UTF8Shape:
		str, ok := v.(String)
		if !ok {
			return mismatch(shape, v)
		}
		c[1] += int64(len(str))
		return nil
	case StructShape, TupleShape:
		fields, ok := v.(Struct)
		if !ok {
			return mismatch(shape, v)
		}
		shapes := fieldShapes(s)
		if len(fields) != len(shapes) {
			return errors.Newf(errors.ErrorTypeTypeMismatch,
				"%s has %d fields, value has %d", s.String(), len(shapes), len(fields))
		}
		off := 1
		for k, fs := range shapes {
			if err := countValue(fs, fields[k], c[off:]); err != nil {
				return err
			}
			off += Levels(fs)
		}
		return nil
	case ListShape:
		list, ok := v.(List)
		if !ok {
			return mismatch(shape, v)
		}
		for _, e := range list {
			if err := countValue(s.Elem, e, c[1:]); err != nil {
				return err
			}
		}
		return nil
	case MapShape:
		m, ok := v.(Map)
		if !ok {
			return mismatch(shape, v)
		}
		lk := Levels(s.Key)
		for _, e := range m {
			if isNull(e.Key) {
				return errors.New(errors.ErrorTypeTypeMismatch, "map key must not be null")
			}
			c[1]++
			if err := countValue(s.Key, e.Key, c[2:]); err != nil {
				return err
			}
			if err := countValue(s.Value, e.Value, c[2+lk:]); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Newf(errors.ErrorTypeValidation, "unsupported shape %T", shape)
}

// countNull reserves the slot of a null row. Struct children still get one
// null slot each so that they stay co-indexed with their parent.
func countNull(shape Shape, c Counts) {
	c[0]++
	off := 1
	for _, fs := range fieldShapes(shape) {
		countNull(fs, c[off:])
		off += Levels(fs)
	}
}

func checkScalar(s ScalarShape, v Value) error {
	var ok bool
	switch s.Type {
	case TypeInt64:
		_, ok = v.(Int64)
	case TypeFloat64:
		_, ok = v.(Float64)
	case TypeBool:
		_, ok = v.(Bool)
	}
	if !ok {
		return mismatch(s, v)
	}
	return nil
}

func mismatch(shape Shape, v Value) *errors.Error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "expected %s, got %s", shape.String(), kindName(v))
}
