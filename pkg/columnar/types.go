package columnar

import (
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// ScalarType identifies a fixed-width element type.
type ScalarType int

const (
	TypeInt64 ScalarType = iota
	TypeFloat64
	TypeBool
)

func (t ScalarType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	}
	return "unknown"
}

// Shape describes the static nesting of an array. The set of shapes is
// closed: ScalarShape, UTF8Shape, StructShape, TupleShape, ListShape and
// MapShape.
type Shape interface {
	// String returns the textual form accepted by ParseShape.
	String() string

	isShape()
}

// ScalarShape is an int64, float64 or bool element.
type ScalarShape struct {
	Type ScalarType
}

// UTF8Shape is a variable-length UTF-8 string.
type UTF8Shape struct{}

// Field is a named member of a StructShape.
type Field struct {
	Name  string
	Shape Shape
}

// StructShape is a record of named fields.
type StructShape struct {
	Fields []Field
}

// TupleShape is a record of positional elements.
type TupleShape struct {
	Elems []Shape
}

// ListShape is a variable-length list of Elem.
type ListShape struct {
	Elem Shape
}

// MapShape is an ordered sequence of key/value pairs, stored as a list of
// struct{key, value}.
type MapShape struct {
	Key   Shape
	Value Shape
}

func (ScalarShape) isShape() {}
func (UTF8Shape) isShape()   {}
func (StructShape) isShape() {}
func (TupleShape) isShape()  {}
func (ListShape) isShape()   {}
func (MapShape) isShape()    {}

// Int64Shape returns the int64 scalar shape.
func Int64Shape() Shape { return ScalarShape{Type: TypeInt64} }

// Float64Shape returns the float64 scalar shape.
func Float64Shape() Shape { return ScalarShape{Type: TypeFloat64} }

// BoolShape returns the bool scalar shape.
func BoolShape() Shape { return ScalarShape{Type: TypeBool} }

// UTF8 returns the string shape.
func UTF8() Shape { return UTF8Shape{} }

// StructOf returns a struct shape with the given fields.
func StructOf(fields ...Field) Shape { return StructShape{Fields: fields} }

// TupleOf returns a tuple shape with the given elements.
func TupleOf(elems ...Shape) Shape { return TupleShape{Elems: elems} }

// ListOf returns a list shape.
func ListOf(elem Shape) Shape { return ListShape{Elem: elem} }

// MapOf returns a map shape.
func MapOf(key, value Shape) Shape { return MapShape{Key: key, Value: value} }

func (s ScalarShape) String() string { return s.Type.String() }
func (UTF8Shape) String() string     { return "utf8" }
func (s ListShape) String() string   { return "list<" + s.Elem.String() + ">" }

func (s MapShape) String() string {
	return "map<" + s.Key.String() + "," + s.Value.String() + ">"
}

func (s StructShape) String() string {
	b := strings.NewBuilder(64)
	b.WriteString("struct<")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(f.Name)
		b.WriteString(":")
		b.WriteString(f.Shape.String())
	}
	b.WriteString(">")
	return b.String()
}

func (s TupleShape) String() string {
	b := strings.NewBuilder(64)
	b.WriteString("tuple<")
	for i, e := range s.Elems {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(e.String())
	}
	b.WriteString(">")
	return b.String()
}

// entryShape is the struct a map stores its pairs in.
func (s MapShape) entryShape() StructShape {
	return StructShape{Fields: []Field{
		{Name: "key", Shape: s.Key},
		{Name: "value", Shape: s.Value},
	}}
}

// Levels returns the number of per-level count slots a shape needs. Slot 0
// is always the shape's own row count; nested slots follow in preorder.
func Levels(s Shape) int {
	switch s := s.(type) {
	case ScalarShape:
		return 1
	case UTF8Shape:
		return 2
	case StructShape:
		n := 1
		for _, f := range s.Fields {
			n += Levels(f.Shape)
		}
		return n
	case TupleShape:
		n := 1
		for _, e := range s.Elems {
			n += Levels(e)
		}
		return n
	case ListShape:
		return 1 + Levels(s.Elem)
	case MapShape:
		return 2 + Levels(s.Key) + Levels(s.Value)
	}
	return 0
}

// fieldShapes returns the child shapes of a struct or tuple.
func fieldShapes(s Shape) []Shape {
	switch s := s.(type) {
	case StructShape:
		out := make([]Shape, len(s.Fields))
		for i, f := range s.Fields {
			out[i] = f.Shape
		}
		return out
	case TupleShape:
		return s.Elems
	}
	return nil
}

// fieldNames returns struct field names, or f0..fN for a tuple.
func fieldNames(s Shape) []string {
	switch s := s.(type) {
	case StructShape:
		out := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			out[i] = f.Name
		}
		return out
	case TupleShape:
		out := make([]string, len(s.Elems))
		for i := range s.Elems {
			out[i] = strings.Sprintf("f%d", i)
		}
		return out
	}
	return nil
}

// validateShape rejects shapes that cannot be laid out.
func validateShape(s Shape) error {
	switch s := s.(type) {
	case nil:
		return errors.New(errors.ErrorTypeValidation, "nil shape")
	case ScalarShape:
		if s.Type < TypeInt64 || s.Type > TypeBool {
			return errors.Newf(errors.ErrorTypeValidation, "unknown scalar type %d", int(s.Type))
		}
		return nil
	case UTF8Shape:
		return nil
	case StructShape:
		seen := make(map[string]struct{}, len(s.Fields))
		for _, f := range s.Fields {
			if f.Name == "" {
				return errors.New(errors.ErrorTypeValidation, "struct field without a name")
			}
			if _, dup := seen[f.Name]; dup {
				return errors.Newf(errors.ErrorTypeValidation, "duplicate struct field %q", f.Name)
			}
			seen[f.Name] = struct{}{}
			if err := validateShape(f.Shape); err != nil {
				return err
			}
		}
		return nil
	case TupleShape:
		for _, e := range s.Elems {
			if err := validateShape(e); err != nil {
				return err
			}
		}
		return nil
	case ListShape:
		return validateShape(s.Elem)
	case MapShape:
		if err := validateKeyShape(s.Key); err != nil {
			return err
		}
		return validateShape(s.Value)
	}
	return errors.Newf(errors.ErrorTypeValidation, "unsupported shape %T", s)
}

// validateKeyShape restricts map keys to scalars and strings so that rows can
// be deduplicated by key on read.
func validateKeyShape(s Shape) error {
	switch s.(type) {
	case ScalarShape, UTF8Shape:
		return validateShape(s)
	case nil:
		return errors.New(errors.ErrorTypeValidation, "nil map key shape")
	}
	return errors.Newf(errors.ErrorTypeValidation, "map key must be a scalar or utf8, got %s", s.String())
}
