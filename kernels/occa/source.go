// Package occa offloads the row-block kernels to an accelerator through
// OCCA. Build with -tags occa to enable it; otherwise every entry point
// reports ErrUnavailable and callers keep the Go kernels.
package occa

import "errors"

// ErrUnavailable is returned when the binary was built without OCCA
var ErrUnavailable = errors.New("occa: built without the occa tag")

// Backends are tried in order by CreateDevice
var Backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

const (
	matmulKernel     = "matmulRows"
	derivativeKernel = "derivativeX"
)

// dims[0] is the row count of the block, dims[1] the column count. The
// @inner loop is a fixed-width tile so it stays under the CUDA thread limit
// for any N.
const kernelSource = `
#define TILE 64

@kernel void matmulRows(const long *dims, const double *A, const double *B, double *C) {
	for (long i = 0; i < dims[0]; ++i; @outer) {
		for (int t = 0; t < TILE; ++t; @inner) {
			const long n = dims[1];
			for (long j = t; j < n; j += TILE) {
				double sum = 0.0;
				for (long k = 0; k < n; ++k) {
					sum += A[i*n + k] * B[k*n + j];
				}
				C[i*n + j] = sum;
			}
		}
	}
}

@kernel void derivativeX(const long *dims, const double *F, double *D, const double dx) {
	for (long i = 0; i < dims[0]; ++i; @outer) {
		for (int t = 0; t < TILE; ++t; @inner) {
			const long n = dims[1];
			for (long j = t; j < n; j += TILE) {
				const long o = i*n + j;
				const double left  = (j > 0)     ? F[o - 1] : F[o];
				const double right = (j < n - 1) ? F[o + 1] : F[o];
				const double h = (j == 0 || j == n - 1) ? dx : 2.0*dx;
				D[o] = (right - left) / h;
			}
		}
	}
}
`
