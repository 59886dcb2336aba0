//go:build occa

package occa

import (
	"math"
	"testing"

	"github.com/notargets/scatter/kernels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func createTestDevice(t *testing.T) *Device {
	d, err := CreateDevice()
	if err != nil {
		t.Skipf("no OCCA device: %v", err)
	}
	t.Logf("Created %s Device", d.Mode())
	return d
}

func TestDeviceMatMulRows(t *testing.T) {
	d := createTestDevice(t)
	defer d.Free()

	const n = 70 // wider than one tile
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, float64((i+j)%10))
			b.Set(i, j, float64((i*j)%10))
		}
	}
	aRows := a.RawMatrix().Data[3*n : 9*n]
	want := make([]float64, len(aRows))
	kernels.MatMulRows(aRows, b, want)

	got := make([]float64, len(aRows))
	require.NoError(t, d.MatMulRows(aRows, b, got))
	assert.InDeltaSlicef(t, want, got, 1.e-9, "")

	require.NoError(t, d.MatMulRows(nil, b, nil))
}

func TestDeviceDerivativeX(t *testing.T) {
	d := createTestDevice(t)
	defer d.Free()

	const rows, cols, dx = 5, 100, 0.01
	in := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x, y := float64(i)*dx, float64(j)*dx
			in[i*cols+j] = x * (math.Sin(x) + math.Cos(y))
		}
	}
	want := make([]float64, len(in))
	kernels.DerivativeX(in, cols, dx, want)

	got := make([]float64, len(in))
	require.NoError(t, d.DerivativeX(in, cols, dx, got))
	assert.InDeltaSlicef(t, want, got, 1.e-9, "")
}
