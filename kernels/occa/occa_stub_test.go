//go:build !occa

package occa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestUnavailableWithoutTag(t *testing.T) {
	assert.False(t, Available())

	d, err := CreateDevice()
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrUnavailable)

	var stub Device
	assert.ErrorIs(t, stub.MatMulRows(nil, mat.NewDense(1, 1, nil), nil), ErrUnavailable)
	assert.ErrorIs(t, stub.DerivativeX(nil, 1, 0.1, nil), ErrUnavailable)
}
