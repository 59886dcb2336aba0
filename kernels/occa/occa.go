//go:build occa

package occa

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
	"gonum.org/v1/gonum/mat"
)

// Device owns an OCCA device and the kernels built on it
type Device struct {
	device  *gocca.OCCADevice
	kernels map[string]*gocca.OCCAKernel
}

// Available reports whether the package was built with OCCA support
func Available() bool {
	return true
}

// CreateDevice opens the first backend that initializes, preferring parallel
// ones, and builds the kernels on it
func CreateDevice() (*Device, error) {
	var lastErr error
	for _, props := range Backends {
		d, err := NewDevice(props)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", lastErr)
}

// NewDevice opens a device from OCCA JSON properties and builds the kernels
func NewDevice(props string) (*Device, error) {
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", props, err)
	}
	d := &Device{
		device:  device,
		kernels: make(map[string]*gocca.OCCAKernel),
	}
	for _, name := range []string{matmulKernel, derivativeKernel} {
		if err := d.build(name); err != nil {
			d.Free()
			return nil, err
		}
	}
	return d, nil
}

func (d *Device) build(name string) error {
	var (
		kernel *gocca.OCCAKernel
		err    error
	)
	if d.device.Mode() == "OpenMP" {
		// OpenMP does not get -O3 by default
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = d.device.BuildKernelFromString(kernelSource, name, props)
	} else {
		kernel, err = d.device.BuildKernelFromString(kernelSource, name, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build kernel %s: %w", name, err)
	}
	d.kernels[name] = kernel
	return nil
}

// Mode returns the OCCA backend name
func (d *Device) Mode() string {
	return d.device.Mode()
}

// Free releases the kernels and the device
func (d *Device) Free() {
	for _, k := range d.kernels {
		k.Free()
	}
	d.kernels = nil
	d.device.Free()
}

// MatMulRows is the device version of kernels.MatMulRows
func (d *Device) MatMulRows(aRows []float64, b *mat.Dense, out []float64) error {
	r, n := b.Dims()
	if r != n {
		return fmt.Errorf("operand must be square, got %dx%d", r, n)
	}
	if len(aRows) != len(out) {
		return fmt.Errorf("product block has %d values, operand block %d", len(out), len(aRows))
	}
	if len(aRows) == 0 {
		return nil
	}
	if n == 0 || len(aRows)%n != 0 {
		return fmt.Errorf("row block of %d values does not match %d columns", len(aRows), n)
	}
	bData := denseData(b)
	dims := []int64{int64(len(aRows) / n), int64(n)}

	dimsMem := d.device.Malloc(int64(len(dims)*8), unsafe.Pointer(&dims[0]), nil)
	defer dimsMem.Free()
	aMem := d.device.Malloc(int64(len(aRows)*8), unsafe.Pointer(&aRows[0]), nil)
	defer aMem.Free()
	bMem := d.device.Malloc(int64(len(bData)*8), unsafe.Pointer(&bData[0]), nil)
	defer bMem.Free()
	cMem := d.device.Malloc(int64(len(out)*8), nil, nil)
	defer cMem.Free()

	if err := d.kernels[matmulKernel].RunWithArgs(dimsMem, aMem, bMem, cMem); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	d.device.Finish()
	cMem.CopyTo(unsafe.Pointer(&out[0]), int64(len(out)*8))
	return nil
}

// DerivativeX is the device version of kernels.DerivativeX
func (d *Device) DerivativeX(in []float64, cols int, dx float64, out []float64) error {
	if len(in) != len(out) {
		return fmt.Errorf("derivative output has %d values, input %d", len(out), len(in))
	}
	if len(in) == 0 || cols <= 0 {
		return nil
	}
	dims := []int64{int64(len(in) / cols), int64(cols)}

	dimsMem := d.device.Malloc(int64(len(dims)*8), unsafe.Pointer(&dims[0]), nil)
	defer dimsMem.Free()
	inMem := d.device.Malloc(int64(len(in)*8), unsafe.Pointer(&in[0]), nil)
	defer inMem.Free()
	outMem := d.device.Malloc(int64(len(out)*8), nil, nil)
	defer outMem.Free()

	if err := d.kernels[derivativeKernel].RunWithArgs(dimsMem, inMem, outMem, dx); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	d.device.Finish()
	outMem.CopyTo(unsafe.Pointer(&out[0]), int64(len(out)*8))
	return nil
}

// denseData returns the contiguous row-major values of m
func denseData(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride == raw.Cols {
		return raw.Data[:raw.Rows*raw.Cols]
	}
	data := make([]float64, 0, raw.Rows*raw.Cols)
	for i := 0; i < raw.Rows; i++ {
		data = append(data, raw.Data[i*raw.Stride:i*raw.Stride+raw.Cols]...)
	}
	return data
}
