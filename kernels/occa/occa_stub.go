//go:build !occa

package occa

import "gonum.org/v1/gonum/mat"

// Device is unusable without the occa build tag
type Device struct{}

// Available reports whether the package was built with OCCA support
func Available() bool {
	return false
}

func CreateDevice() (*Device, error) {
	return nil, ErrUnavailable
}

func NewDevice(props string) (*Device, error) {
	return nil, ErrUnavailable
}

func (d *Device) Mode() string {
	return "none"
}

func (d *Device) Free() {}

func (d *Device) MatMulRows(aRows []float64, b *mat.Dense, out []float64) error {
	return ErrUnavailable
}

func (d *Device) DerivativeX(in []float64, cols int, dx float64, out []float64) error {
	return ErrUnavailable
}
