package columnar

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// ArrowType returns the arrow data type matching a shape. Tuples become
// structs with fields f0..fN.
func ArrowType(shape Shape) (arrow.DataType, error) {
	switch s := shape.(type) {
	case ScalarShape:
		switch s.Type {
		case TypeInt64:
			return arrow.PrimitiveTypes.Int64, nil
		case TypeFloat64:
			return arrow.PrimitiveTypes.Float64, nil
		case TypeBool:
			return arrow.FixedWidthTypes.Boolean, nil
		}
	case UTF8Shape:
		return arrow.BinaryTypes.String, nil
	case StructShape, TupleShape:
		names := fieldNames(s)
		fields := make([]arrow.Field, 0, len(names))
		for k, fs := range fieldShapes(s) {
			dt, err := ArrowType(fs)
			if err != nil {
				return nil, err
			}
			fields = append(fields, arrow.Field{Name: names[k], Type: dt, Nullable: true})
		}
		return arrow.StructOf(fields...), nil
	case ListShape:
		elem, err := ArrowType(s.Elem)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(elem), nil
	case MapShape:
		key, err := ArrowType(s.Key)
		if err != nil {
			return nil, err
		}
		item, err := ArrowType(s.Value)
		if err != nil {
			return nil, err
		}
		return arrow.MapOf(key, item), nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "no arrow type for shape %T", shape)
}

// ShapeFromArrow returns the shape matching an arrow data type.
func ShapeFromArrow(dt arrow.DataType) (Shape, error) {
	switch t := dt.(type) {
	case *arrow.Int64Type:
		return Int64Shape(), nil
	case *arrow.Float64Type:
		return Float64Shape(), nil
	case *arrow.BooleanType:
		return BoolShape(), nil
	case *arrow.StringType:
		return UTF8(), nil
	case *arrow.MapType:
		key, err := ShapeFromArrow(t.KeyType())
		if err != nil {
			return nil, err
		}
		item, err := ShapeFromArrow(t.ItemType())
		if err != nil {
			return nil, err
		}
		return MapOf(key, item), nil
	case *arrow.ListType:
		elem, err := ShapeFromArrow(t.Elem())
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case *arrow.StructType:
		fields := make([]Field, 0, t.NumFields())
		for _, f := range t.Fields() {
			fs, err := ShapeFromArrow(f.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: f.Name, Shape: fs})
		}
		return StructOf(fields...), nil
	}
	return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported arrow type %s", dt)
}

// ToArrow copies arr into an arrow array allocated from mem. Map rows are
// exported with every stored pair, duplicates included.
func ToArrow(mem memory.Allocator, arr Array) (arrow.Array, error) {
	dt, err := ArrowType(arr.Shape())
	if err != nil {
		return nil, err
	}
	b := array.NewBuilder(mem, dt)
	defer b.Release()

	for i := 0; i < arr.Len(); i++ {
		if err := appendArrow(b, rawValue(arr, i)); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeTypeMismatch, "arrow export").
				WithDetail("row", i)
		}
	}
	return b.NewArray(), nil
}

// rawValue reads row i without collapsing duplicate map keys.
func rawValue(arr Array, i int) Value {
	if col, ok := arr.(column); ok {
		return col.value(i, false)
	}
	v, _ := arr.Value(i)
	return v
}

func appendArrow(b array.Builder, v Value) error {
	if isNull(v) {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.Int64Builder:
		x, ok := v.(Int64)
		if !ok {
			return mismatch(Int64Shape(), v)
		}
		b.Append(int64(x))
	case *array.Float64Builder:
		x, ok := v.(Float64)
		if !ok {
			return mismatch(Float64Shape(), v)
		}
		b.Append(float64(x))
	case *array.BooleanBuilder:
		x, ok := v.(Bool)
		if !ok {
			return mismatch(BoolShape(), v)
		}
		b.Append(bool(x))
	case *array.StringBuilder:
		x, ok := v.(String)
		if !ok {
			return mismatch(UTF8(), v)
		}
		b.Append(string(x))
	case *array.MapBuilder:
		m, ok := v.(Map)
		if !ok {
			return errors.Newf(errors.ErrorTypeTypeMismatch, "expected map, got %s", kindName(v))
		}
		b.Append(true)
		for _, e := range m {
			if err := appendArrow(b.KeyBuilder(), e.Key); err != nil {
				return err
			}
			if err := appendArrow(b.ItemBuilder(), e.Value); err != nil {
				return err
			}
		}
	case *array.ListBuilder:
		list, ok := v.(List)
		if !ok {
			return errors.Newf(errors.ErrorTypeTypeMismatch, "expected list, got %s", kindName(v))
		}
		b.Append(true)
		for _, e := range list {
			if err := appendArrow(b.ValueBuilder(), e); err != nil {
				return err
			}
		}
	case *array.StructBuilder:
		s, ok := v.(Struct)
		if !ok || len(s) != b.NumField() {
			return errors.Newf(errors.ErrorTypeTypeMismatch, "expected struct of %d fields, got %s", b.NumField(), kindName(v))
		}
		b.Append(true)
		for k := range s {
			if err := appendArrow(b.FieldBuilder(k), s[k]); err != nil {
				return err
			}
		}
	default:
		return errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported arrow builder %T", b)
	}
	return nil
}

// FromArrow reads an arrow array back into a shape and host rows.
func FromArrow(arr arrow.Array) (Shape, []Value, error) {
	shape, err := ShapeFromArrow(arr.DataType())
	if err != nil {
		return nil, nil, err
	}
	rows := make([]Value, arr.Len())
	for i := range rows {
		v, err := readArrow(arr, i)
		if err != nil {
			return nil, nil, err
		}
		rows[i] = v
	}
	return shape, rows, nil
}

func readArrow(arr arrow.Array, i int) (Value, error) {
	if arr.IsNull(i) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.Int64:
		return Int64(a.Value(i)), nil
	case *array.Float64:
		return Float64(a.Value(i)), nil
	case *array.Boolean:
		return Bool(a.Value(i)), nil
	case *array.String:
		return String(strings.Clone(a.Value(i))), nil
	case *array.Map:
		start, end := a.ValueOffsets(i)
		keys, items := a.Keys(), a.Items()
		out := make(Map, 0, end-start)
		for j := int(start); j < int(end); j++ {
			k, err := readArrow(keys, j)
			if err != nil {
				return nil, err
			}
			v, err := readArrow(items, j)
			if err != nil {
				return nil, err
			}
			out = append(out, Entry{Key: k, Value: v})
		}
		return out, nil
	case *array.List:
		start, end := a.ValueOffsets(i)
		values := a.ListValues()
		out := make(List, 0, end-start)
		for j := int(start); j < int(end); j++ {
			v, err := readArrow(values, j)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *array.Struct:
		out := make(Struct, a.NumField())
		for k := range out {
			v, err := readArrow(a.Field(k), i)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	}
	return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported arrow array %T", arr)
}
