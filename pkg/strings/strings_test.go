package strings

import (
	"testing"
)

func TestBytesToString(t *testing.T) {
	b := []byte("hello world")
	s := BytesToString(b)

	if s != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", s)
	}
	if !SameMemory(s, b) {
		t.Errorf("expected string to alias the byte slice")
	}

	// Test empty slice
	empty := BytesToString([]byte{})
	if empty != "" {
		t.Errorf("expected empty string, got '%s'", empty)
	}
}

func TestStringToBytes(t *testing.T) {
	s := "hello world"
	b := StringToBytes(s)

	if string(b) != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", string(b))
	}

	// Test empty string
	empty := StringToBytes("")
	if empty != nil {
		t.Errorf("expected nil slice, got %v", empty)
	}
}

func TestSameMemory(t *testing.T) {
	buf := []byte("a,b,c")

	if !SameMemory(BytesToString(buf[2:3]), buf) {
		t.Errorf("sub-slice should alias the buffer")
	}
	if SameMemory(Clone("b"), buf) {
		t.Errorf("cloned string should not alias the buffer")
	}
	if SameMemory("", buf) {
		t.Errorf("empty string never aliases")
	}
}

func TestBuilder(t *testing.T) {
	builder := NewBuilder(32)

	builder.WriteString("hello")
	_ = builder.WriteByte(' ')
	builder.WriteString("world")

	result := builder.String()
	if result != "hello world" {
		t.Errorf("expected 'hello world', got '%s'", result)
	}

	if builder.Len() != 11 {
		t.Errorf("expected length 11, got %d", builder.Len())
	}

	builder.Reset()
	if builder.Len() != 0 {
		t.Errorf("expected length 0 after reset, got %d", builder.Len())
	}
}

func TestSprintf(t *testing.T) {
	if got := Sprintf("row %d of %d", 3, 10); got != "row 3 of 10" {
		t.Errorf("unexpected result %q", got)
	}
	if got := Sprintf("plain"); got != "plain" {
		t.Errorf("unexpected result %q", got)
	}

	// Results must not share the pooled buffer.
	a := Sprintf("%s", "first")
	b := Sprintf("%s", "second")
	if a != "first" || b != "second" {
		t.Errorf("pooled results were clobbered: %q %q", a, b)
	}
}
