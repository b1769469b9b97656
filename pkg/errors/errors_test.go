package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrorTypeLengthMismatch, "mask length 2, want 3")
	assert.Equal(t, "length_mismatch: mask length 2, want 3", err.Error())

	wrapped := Wrap(fmt.Errorf("boom"), ErrorTypeInternal, "outer")
	assert.Equal(t, "internal: outer: boom", wrapped.Error())

	assert.Equal(t, "capacity_exceeded", ErrCapacityExceeded.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "nothing"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeTypeMismatch, "bad kind")
	outer := Wrap(inner, ErrorTypeValidation, "estimate")

	require.NotEmpty(t, inner.Stack)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeValidation))
	assert.True(t, stderrors.Is(outer, ErrTypeMismatch), "sentinel should match through the chain")
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		want     bool
	}{
		{IndexOutOfRange(5, 2), ErrIndexOutOfRange, true},
		{IndexOutOfRange(5, 2), ErrLengthMismatch, false},
		{Newf(ErrorTypeCapacityExceeded, "need %d", 4), ErrCapacityExceeded, true},
		{New(ErrorTypeMalformedLayout, "cursor"), ErrMalformedLayout, true},
		{fmt.Errorf("plain"), ErrMalformedLayout, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, stderrors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := IndexOutOfRange(9, 3).WithDetail("array", "map")
	assert.Equal(t, "map", err.Details["array"])
	assert.Equal(t, "index_out_of_range: index 9 out of range [0, 3)", err.Error())
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(New(ErrorTypeMalformedLayout, "x")))
	assert.False(t, IsFatal(New(ErrorTypeCapacityExceeded, "x")))
	assert.False(t, IsFatal(fmt.Errorf("x")))
}
