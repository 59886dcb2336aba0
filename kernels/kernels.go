// Package kernels holds the local computations each participant runs on
// its own slice. They are pure functions: no communication and no state
// shared with other participants.
package kernels

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sum returns the sum of the elements. Overflow wraps at the platform int
// width.
func Sum(data []int) int {
	sum := 0
	for _, v := range data {
		sum += v
	}
	return sum
}

// DerivativeX computes the derivative along the column axis of a block of
// rows stored row-major with cols values per row. Edge columns use a
// one-sided difference over dx, interior columns a centered difference over
// 2*dx. out must have the same length as in.
func DerivativeX(in []float64, cols int, dx float64, out []float64) {
	if len(in) != len(out) {
		panic(fmt.Sprintf("derivative output has %d values, input %d", len(out), len(in)))
	}
	if cols <= 0 {
		return
	}
	for off := 0; off+cols <= len(in); off += cols {
		row := in[off : off+cols]
		dst := out[off : off+cols]
		for j := range row {
			left, right := row[j], row[j]
			if j > 0 {
				left = row[j-1]
			}
			if j < cols-1 {
				right = row[j+1]
			}
			h := 2 * dx
			if j == 0 || j == cols-1 {
				h = dx
			}
			dst[j] = (right - left) / h
		}
	}
}

// MatMulRows computes a block of rows of C = A*B. aRows holds len(aRows)/n
// consecutive rows of A, b is the full n x n operand, and out receives the
// matching rows of C. The inner product accumulates in ascending k.
func MatMulRows(aRows []float64, b *mat.Dense, out []float64) {
	r, n := b.Dims()
	if r != n {
		panic(fmt.Sprintf("operand must be square, got %dx%d", r, n))
	}
	if len(aRows) != len(out) {
		panic(fmt.Sprintf("product block has %d values, operand block %d", len(out), len(aRows)))
	}
	if n == 0 {
		return
	}
	braw := b.RawMatrix()
	for off := 0; off+n <= len(aRows); off += n {
		arow := aRows[off : off+n]
		crow := out[off : off+n]
		for j := 0; j < n; j++ {
			sum := 0.0
			for k, a := range arow {
				sum += a * braw.Data[k*braw.Stride+j]
			}
			crow[j] = sum
		}
	}
}

// Greeting is the handshake text a worker sends to the coordinator
func Greeting(rank int) string {
	return fmt.Sprintf("Process %d greets the coordinator!", rank)
}
