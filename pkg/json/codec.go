package json

import (
	"bytes"
	"io"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/nebula-nested/pkg/columnar"
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// DecodeRows reads a JSON array of rows shaped like shape. JSON null maps
// to a nil Value at any level.
//
// Structs are objects keyed by field name, missing fields are null. Tuples
// are arrays. Maps are either objects, whose keys are parsed into the key
// shape and whose member order is kept, or arrays of [key, value] pairs.
func DecodeRows(r io.Reader, shape columnar.Shape) ([]columnar.Value, error) {
	dec := NewDecoder(r)
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var rows []columnar.Value
	for dec.More() {
		v, err := decodeValue(dec, shape)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, "decode row").
				WithDetail("row", len(rows))
		}
		rows = append(rows, v)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return rows, nil
}

// DecodeValue decodes one JSON document shaped like shape.
func DecodeValue(data []byte, shape columnar.Shape) (columnar.Value, error) {
	return decodeValue(NewDecoder(bytes.NewReader(data)), shape)
}

func expectDelim(dec *gojson.Decoder, want gojson.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "read JSON token")
	}
	if delim, ok := tok.(gojson.Delim); !ok || delim != want {
		return errors.Newf(errors.ErrorTypeValidation, "expected %q, got %v", rune(want), tok)
	}
	return nil
}

func decodeValue(dec *gojson.Decoder, shape columnar.Shape) (columnar.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "read JSON token")
	}
	if tok == nil {
		return nil, nil
	}

	switch s := shape.(type) {
	case columnar.ScalarShape:
		return decodeScalar(s, tok)
	case columnar.UTF8Shape:
		str, ok := tok.(string)
		if !ok {
			return nil, unexpected(shape, tok)
		}
		return columnar.String(str), nil
	case columnar.ListShape:
		if !isDelim(tok, '[') {
			return nil, unexpected(shape, tok)
		}
		out := columnar.List{}
		for dec.More() {
			v, err := decodeValue(dec, s.Elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, expectDelim(dec, ']')
	case columnar.TupleShape:
		if !isDelim(tok, '[') {
			return nil, unexpected(shape, tok)
		}
		out := make(columnar.Struct, 0, len(s.Elems))
		for dec.More() {
			if len(out) == len(s.Elems) {
				return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s: too many elements", s.String())
			}
			v, err := decodeValue(dec, s.Elems[len(out)])
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		if len(out) != len(s.Elems) {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s: got %d elements", s.String(), len(out))
		}
		return out, expectDelim(dec, ']')
	case columnar.StructShape:
		if !isDelim(tok, '{') {
			return nil, unexpected(shape, tok)
		}
		out := make(columnar.Struct, len(s.Fields))
		for dec.More() {
			name, err := objectKey(dec)
			if err != nil {
				return nil, err
			}
			k := fieldIndex(s, name)
			if k < 0 {
				return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "%s: unknown field %q", s.String(), name)
			}
			if out[k], err = decodeValue(dec, s.Fields[k].Shape); err != nil {
				return nil, err
			}
		}
		return out, expectDelim(dec, '}')
	case columnar.MapShape:
		switch {
		case isDelim(tok, '{'):
			out := columnar.Map{}
			for dec.More() {
				raw, err := objectKey(dec)
				if err != nil {
					return nil, err
				}
				key, err := parseKey(s.Key, raw)
				if err != nil {
					return nil, err
				}
				v, err := decodeValue(dec, s.Value)
				if err != nil {
					return nil, err
				}
				out = append(out, columnar.Entry{Key: key, Value: v})
			}
			return out, expectDelim(dec, '}')
		case isDelim(tok, '['):
			out := columnar.Map{}
			for dec.More() {
				if err := expectDelim(dec, '['); err != nil {
					return nil, err
				}
				key, err := decodeValue(dec, s.Key)
				if err != nil {
					return nil, err
				}
				v, err := decodeValue(dec, s.Value)
				if err != nil {
					return nil, err
				}
				if err := expectDelim(dec, ']'); err != nil {
					return nil, err
				}
				out = append(out, columnar.Entry{Key: key, Value: v})
			}
			return out, expectDelim(dec, ']')
		}
		return nil, unexpected(shape, tok)
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported shape %T", shape)
}

func decodeScalar(s columnar.ScalarShape, tok any) (columnar.Value, error) {
	switch s.Type {
	case columnar.TypeInt64:
		if n, ok := tok.(gojson.Number); ok {
			i, err := n.Int64()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeTypeMismatch, "int64")
			}
			return columnar.Int64(i), nil
		}
	case columnar.TypeFloat64:
		switch n := tok.(type) {
		case gojson.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeTypeMismatch, "float64")
			}
			return columnar.Float64(f), nil
		case float64:
			return columnar.Float64(n), nil
		}
	case columnar.TypeBool:
		if b, ok := tok.(bool); ok {
			return columnar.Bool(b), nil
		}
	}
	return nil, unexpected(s, tok)
}

func objectKey(dec *gojson.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrorTypeValidation, "read JSON key")
	}
	key, ok := tok.(string)
	if !ok {
		return "", errors.Newf(errors.ErrorTypeValidation, "expected object key, got %v", tok)
	}
	return key, nil
}

// parseKey converts an object member name into a map key of the key shape.
func parseKey(shape columnar.Shape, raw string) (columnar.Value, error) {
	switch s := shape.(type) {
	case columnar.UTF8Shape:
		return columnar.String(raw), nil
	case columnar.ScalarShape:
		var (
			v   columnar.Value
			err error
		)
		switch s.Type {
		case columnar.TypeInt64:
			var i int64
			i, err = strconv.ParseInt(raw, 10, 64)
			v = columnar.Int64(i)
		case columnar.TypeFloat64:
			var f float64
			f, err = strconv.ParseFloat(raw, 64)
			v = columnar.Float64(f)
		case columnar.TypeBool:
			var b bool
			b, err = strconv.ParseBool(raw)
			v = columnar.Bool(b)
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeTypeMismatch, "map key").
				WithDetail("key", raw)
		}
		return v, nil
	}
	return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "map key shape %s cannot come from an object", shape.String())
}

func fieldIndex(s columnar.StructShape, name string) int {
	for k, f := range s.Fields {
		if f.Name == name {
			return k
		}
	}
	return -1
}

func isDelim(tok any, want gojson.Delim) bool {
	d, ok := tok.(gojson.Delim)
	return ok && d == want
}

func unexpected(shape columnar.Shape, tok any) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "expected %s, got %v", shape.String(), tok)
}

// EncodeValue writes v as JSON. Maps become objects with their keys
// formatted as strings, in stored order; structs and tuples become arrays
// since a Value does not carry field names.
func EncodeValue(w io.Writer, v columnar.Value) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := appendValue(buf, v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalValue returns the JSON encoding of v.
func MarshalValue(v columnar.Value) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := appendValue(buf, v); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func appendValue(buf *bytes.Buffer, v columnar.Value) error {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case columnar.Int64:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case columnar.Float64:
		b, err := gojson.Marshal(float64(v))
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeValidation, "encode float64")
		}
		buf.Write(b)
	case columnar.Bool:
		buf.WriteString(strconv.FormatBool(bool(v)))
	case columnar.String:
		return appendString(buf, string(v))
	case columnar.List:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		return appendArray(buf, v)
	case columnar.Struct:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		return appendArray(buf, v)
	case columnar.Map:
		if v == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := keyString(e.Key)
			if err != nil {
				return err
			}
			if err := appendString(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendValue(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.Newf(errors.ErrorTypeTypeMismatch, "cannot encode %T", v)
	}
	return nil
}

func appendArray[S ~[]columnar.Value](buf *bytes.Buffer, items S) error {
	buf.WriteByte('[')
	for i, e := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendValue(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func appendString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "encode string")
	}
	buf.Write(b)
	return nil
}

func keyString(k columnar.Value) (string, error) {
	switch k := k.(type) {
	case columnar.String:
		return string(k), nil
	case columnar.Int64:
		return strconv.FormatInt(int64(k), 10), nil
	case columnar.Float64:
		return strconv.FormatFloat(float64(k), 'g', -1, 64), nil
	case columnar.Bool:
		return strconv.FormatBool(bool(k)), nil
	}
	return "", errors.Newf(errors.ErrorTypeTypeMismatch, "map key %T cannot be an object key", k)
}
