package columnar

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-nested/internal/invariants"
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/metrics"
)

// Build converts rows into an array of the given shape in two passes: the
// rows are first measured to get exact per-level counts, then every buffer
// is allocated once and filled in a single sequential pass.
//
// The concrete type of the result follows the shape: *Int64Array,
// *Float64Array, *BoolArray, *StringArray, *StructArray, *ListArray or
// *MapArray.
func Build(alloc memory.Allocator, shape Shape, rows []Value, opts ...Option) (Array, error) {
	o := newBuildOptions(opts)
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	kind := shapeKind(shape)
	timer := metrics.NewTimer(kind)

	arr, counts, err := build(alloc, shape, rows, o)
	if err != nil {
		o.observeError(err)
		if errors.IsFatal(err) {
			o.logger.Error("layout check failed", zap.Stringer("shape", shape), zap.Error(err))
		}
		return nil, err
	}

	elapsed := timer.Stop()
	if o.metrics != nil {
		o.metrics.ObserveBuild(kind, elapsed, arr.NBytes())
	}
	o.logger.Debug("built array",
		zap.String("kind", kind),
		zap.Stringer("shape", shape),
		zap.Int("rows", arr.Len()),
		zap.Int64s("counts", counts),
		zap.Int("bytes", arr.NBytes()),
		zap.Duration("elapsed", elapsed))
	return arr, nil
}

func build(alloc memory.Allocator, shape Shape, rows []Value, o *buildOptions) (column, Counts, error) {
	var (
		counts Counts
		err    error
	)
	if o.workers > 1 && len(rows) >= o.parallelThreshold {
		counts, err = EstimateParallel(shape, rows, o.workers)
	} else {
		counts, err = Estimate(shape, rows)
	}
	if err != nil {
		return nil, nil, err
	}

	col, err := allocate(alloc, shape, counts, o.offsetWidth)
	if err != nil {
		return nil, nil, err
	}
	for _, v := range rows {
		col.appendValue(v)
	}
	if err := invariants.Check(col.finish()); err != nil {
		col.Release()
		return nil, nil, err
	}
	return col, counts, nil
}

// allocate creates an empty column sized by counts, which must be laid out
// as Levels(shape) slots.
func allocate(alloc memory.Allocator, shape Shape, c Counts, width OffsetWidth) (column, error) {
	rows := int(c[0])
	switch s := shape.(type) {
	case ScalarShape:
		switch s.Type {
		case TypeInt64:
			return newPrimitiveArray[int64](alloc, s, rows), nil
		case TypeFloat64:
			return newPrimitiveArray[float64](alloc, s, rows), nil
		case TypeBool:
			return newBoolArray(alloc, rows), nil
		}
	case UTF8Shape:
		wide, err := width.wide(c[1])
		if err != nil {
			return nil, err
		}
		return newStringArray(alloc, rows, c[1], wide), nil
	case StructShape, TupleShape:
		return allocateStruct(alloc, s, c, width)
	case ListShape:
		wide, err := width.wide(c[1])
		if err != nil {
			return nil, err
		}
		child, err := allocate(alloc, s.Elem, c[1:], width)
		if err != nil {
			return nil, err
		}
		return &ListArray{
			shape:  s,
			layout: AllocateListLayout(alloc, rows, c[1], wide),
			child:  child,
		}, nil
	case MapShape:
		wide, err := width.wide(c[1])
		if err != nil {
			return nil, err
		}
		entries, err := allocateStruct(alloc, s.entryShape(), c[1:], width)
		if err != nil {
			return nil, err
		}
		return &MapArray{
			shape:   s,
			layout:  AllocateListLayout(alloc, rows, c[1], wide),
			entries: entries,
		}, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported shape %T", shape)
}

func allocateStruct(alloc memory.Allocator, shape Shape, c Counts, width OffsetWidth) (*StructArray, error) {
	a := &StructArray{
		shape:    shape,
		names:    fieldNames(shape),
		validity: NewNullBitmap(alloc, int(c[0])),
		rows:     int(c[0]),
	}
	off := 1
	for _, fs := range fieldShapes(shape) {
		f, err := allocate(alloc, fs, c[off:], width)
		if err != nil {
			a.Release()
			return nil, err
		}
		a.fields = append(a.fields, f)
		off += Levels(fs)
	}
	return a, nil
}

// LevelCounts reports the number of elements allocated at each level of a
// built array, in the slot order used by Estimate.
func LevelCounts(arr Array) Counts {
	col, ok := arr.(column)
	if !ok {
		return nil
	}
	c := make(Counts, Levels(arr.Shape()))
	col.measure(c)
	return c
}

func (o *buildOptions) observeError(err error) {
	if o.metrics == nil {
		return
	}
	if e, ok := err.(*errors.Error); ok {
		o.metrics.RecordError(string(e.Type))
		return
	}
	o.metrics.RecordError(string(errors.ErrorTypeInternal))
}

// shapeKind names the top-level kind of a shape for metrics labels.
func shapeKind(s Shape) string {
	switch s := s.(type) {
	case ScalarShape:
		return s.Type.String()
	case UTF8Shape:
		return "utf8"
	case StructShape:
		return "struct"
	case TupleShape:
		return "tuple"
	case ListShape:
		return "list"
	case MapShape:
		return "map"
	}
	return "unknown"
}
