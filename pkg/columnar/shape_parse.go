package columnar

import (
	"unicode"

	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// ParseShape parses the textual shape form:
//
//	int64 | float64 | bool | utf8 | string
//	list<S>
//	map<K,V>
//	struct<name:S,...>
//	tuple<S,...>
//
// Whitespace between tokens is ignored.
func ParseShape(text string) (Shape, error) {
	p := &shapeParser{src: text}
	s, err := p.shape()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	if err := validateShape(s); err != nil {
		return nil, err
	}
	return s, nil
}

// MustParseShape is like ParseShape but panics on error.
func MustParseShape(text string) Shape {
	s, err := ParseShape(text)
	if err != nil {
		panic(err)
	}
	return s
}

type shapeParser struct {
	src string
	pos int
}

func (p *shapeParser) errorf(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrorTypeValidation, format, args...).
		WithDetail("shape", p.src).
		WithDetail("pos", p.pos)
}

func (p *shapeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *shapeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *shapeParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

// accept reports whether the next non-space byte is c, consuming it if so.
func (p *shapeParser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *shapeParser) shape() (Shape, error) {
	name := p.ident()
	switch name {
	case "int64":
		return Int64Shape(), nil
	case "float64":
		return Float64Shape(), nil
	case "bool":
		return BoolShape(), nil
	case "utf8", "string":
		return UTF8(), nil
	case "list":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.shape()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case "map":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		key, err := p.shape()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		value, err := p.shape()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return MapOf(key, value), nil
	case "struct":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		var fields []Field
		for {
			fname := p.ident()
			if fname == "" {
				return nil, p.errorf("expected field name")
			}
			if err := p.expect(':'); err != nil {
				return nil, err
			}
			fs, err := p.shape()
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: fname, Shape: fs})
			if !p.accept(',') {
				break
			}
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return StructOf(fields...), nil
	case "tuple":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		var elems []Shape
		for {
			e, err := p.shape()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if !p.accept(',') {
				break
			}
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return TupleOf(elems...), nil
	case "":
		return nil, p.errorf("expected a type name")
	}
	return nil, p.errorf("unknown type %q", name)
}
