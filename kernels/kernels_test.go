package kernels

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestSum(t *testing.T) {
	assert.Equal(t, 0, Sum(nil))
	assert.Equal(t, 0, Sum([]int{}))
	assert.Equal(t, 45, Sum([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}))
	assert.Equal(t, -3, Sum([]int{-1, -2}))
}

func TestDerivativeXLinearField(t *testing.T) {
	// f(x,y) = x along the column axis with a dyadic step so every
	// difference is exact
	const (
		rows = 4
		cols = 6
		dx   = 0.25
	)
	in := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			in[i*cols+j] = float64(j) * dx
		}
	}
	out := make([]float64, len(in))
	DerivativeX(in, cols, dx, out)

	for i := 0; i < rows; i++ {
		row := out[i*cols : (i+1)*cols]
		for j := 1; j < cols-1; j++ {
			assert.Equalf(t, 1.0, row[j], "row %d col %d", i, j)
		}
		assert.Equal(t, (in[i*cols+1]-in[i*cols])/dx, row[0])
		assert.Equal(t, (in[i*cols+cols-1]-in[i*cols+cols-2])/dx, row[cols-1])
	}
}

func TestDerivativeXBoundaryPolicy(t *testing.T) {
	const dx = 0.01
	in := []float64{1, 4, 9, 16, 25}
	out := make([]float64, len(in))
	DerivativeX(in, len(in), dx, out)

	expected := []float64{
		(4.0 - 1.0) / dx,
		(9.0 - 1.0) / (2 * dx),
		(16.0 - 4.0) / (2 * dx),
		(25.0 - 9.0) / (2 * dx),
		(25.0 - 16.0) / dx,
	}
	assert.Equal(t, expected, out)
}

func TestDerivativeXDegenerate(t *testing.T) {
	// A single column has no neighbour on either side
	in := []float64{3, 5}
	out := make([]float64, 2)
	DerivativeX(in, 1, 0.1, out)
	assert.Equal(t, []float64{0, 0}, out)

	// Empty blocks are valid
	DerivativeX(nil, 5, 0.1, nil)

	assert.Panics(t, func() { DerivativeX(in, 1, 0.1, make([]float64, 1)) })
}

func TestMatMulRowsIdentity(t *testing.T) {
	for _, n := range []int{1, 3, 10} {
		id := identity(n)
		out := make([]float64, n*n)
		MatMulRows(id.RawMatrix().Data, id, out)
		assert.Equalf(t, id.RawMatrix().Data, out, "N=%d", n)
	}
}

func TestMatMulRowsMatchesGonum(t *testing.T) {
	const n = 7
	rng := rand.New(rand.NewPCG(1, 2))
	a := mat.NewDense(n, n, nil)
	b := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, float64(rng.IntN(10)))
			b.Set(i, j, float64(rng.IntN(10)))
		}
	}
	var want mat.Dense
	want.Mul(a, b)

	// Compute rows 2..4 only
	aRows := a.RawMatrix().Data[2*n : 5*n]
	out := make([]float64, len(aRows))
	MatMulRows(aRows, b, out)
	assert.True(t, floats.EqualApprox(want.RawMatrix().Data[2*n:5*n], out, 1e-12))

	// Empty row block
	MatMulRows(nil, b, nil)
}

func TestMatMulRowsRejectsShapes(t *testing.T) {
	assert.Panics(t, func() { MatMulRows(nil, mat.NewDense(2, 3, nil), nil) })
	assert.Panics(t, func() { MatMulRows(make([]float64, 4), identity(2), make([]float64, 2)) })
}

func TestGreeting(t *testing.T) {
	assert.Contains(t, Greeting(3), "3")
}

func identity(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
