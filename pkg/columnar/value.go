package columnar

import (
	"github.com/ajitpratap0/nebula-nested/pkg/strings"
)

// Value is a dynamic host value. A nil Value is null at any nesting level.
// The set of values is closed: Int64, Float64, Bool, String, List, Struct
// and Map.
type Value interface {
	isValue()
}

type (
	// Int64 is an int64 scalar.
	Int64 int64
	// Float64 is a float64 scalar.
	Float64 float64
	// Bool is a bool scalar.
	Bool bool
	// String is a UTF-8 string.
	String string
	// List is a variable-length list.
	List []Value
	// Struct holds struct or tuple members by position.
	Struct []Value
	// Map is an ordered list of pairs. A nil Map is a null row, a non-nil
	// empty Map is an empty one.
	Map []Entry
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

func (Int64) isValue()   {}
func (Float64) isValue() {}
func (Bool) isValue()    {}
func (String) isValue()  {}
func (List) isValue()    {}
func (Struct) isValue()  {}
func (Map) isValue()     {}

// Get returns the value stored under key and whether it was found. When the
// map holds duplicates the last one wins.
func (m Map) Get(key Value) (Value, bool) {
	for i := len(m) - 1; i >= 0; i-- {
		if m[i].Key == key {
			return m[i].Value, true
		}
	}
	return nil, false
}

// Strings wraps plain strings as non-null values.
func Strings(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// isNull reports whether v is null. Typed nil collections count as null so
// that a nil Map assigned to a Value behaves like an untyped nil.
func isNull(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case List:
		return v == nil
	case Struct:
		return v == nil
	case Map:
		return v == nil
	}
	return false
}

// kindName names the kind of v for error messages.
func kindName(v Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case String:
		return "utf8"
	case List:
		return "list"
	case Struct:
		return "struct"
	case Map:
		return "map"
	}
	return strings.Sprintf("%T", v)
}
