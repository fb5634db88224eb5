package vecops

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrDimensionMismatch(t *testing.T) {
	err := NewDimensionMismatch(128, 64, io.ErrUnexpectedEOF)
	assert.Equal(t, "dimension mismatch: expected 128, got 64", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var target *ErrDimensionMismatch
	wrapped := errors.Join(errors.New("decoder"), err)
	assert.ErrorAs(t, wrapped, &target)
	assert.Equal(t, 128, target.Expected)
	assert.Equal(t, 64, target.Actual)
}

func TestErrBufferTooSmall(t *testing.T) {
	err := &ErrBufferTooSmall{Buffer: "results", Need: 32, Have: 16}
	assert.Equal(t, "results buffer too small: need 32, have 16", err.Error())
}
