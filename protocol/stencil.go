package protocol

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/kernels"
	"github.com/notargets/scatter/kernels/occa"
	"github.com/notargets/scatter/partitions"
	"gonum.org/v1/gonum/floats"
)

// Stencil differentiates an N x N field along its columns. Rows are split
// across participants; the coordinator transmits each descriptor and
// workers echo it back with their rows of the derivative. An empty grid
// runs the full exchange with empty slices.
type Stencil struct {
	Dx float64

	// Device runs the kernel through OCCA when set
	Device *occa.Device

	// Field overrides the generated input f(i, j)
	Field func(i, j int) float64
}

func (Stencil) Name() string {
	return "stencil"
}

// Generate builds the full N x N input field
func (st Stencil) Generate(n int) *partitions.PartitionedArray {
	f := st.Field
	if f == nil {
		f = st.defaultField
	}
	field := partitions.NewPartitionedArray(n, n)
	for i := 0; i < n; i++ {
		row := field.Rows(partitions.SliceDescriptor{Start: i, Count: 1})
		for j := range row {
			row[j] = f(i, j)
		}
	}
	return field
}

// defaultField samples x*(sin(x)+cos(y)) on a grid of spacing Dx
func (st Stencil) defaultField(i, j int) float64 {
	x, y := float64(i)*st.Dx, float64(j)*st.Dx
	return x * (math.Sin(x) + math.Cos(y))
}

func (st Stencil) derivative(in []float64, cols int, out []float64) error {
	if st.Device != nil {
		return st.Device.DerivativeX(in, cols, st.Dx, out)
	}
	kernels.DerivativeX(in, cols, st.Dx, out)
	return nil
}

func (st Stencil) Coordinate(s *Session, r Coordinator, n int) (*Report, error) {
	c := s.Comm
	field := st.Generate(n)
	result := partitions.NewPartitionedArray(n, n)
	layout, err := partitions.NewPartitionLayout(n, r.Size)
	if err != nil {
		return nil, err
	}
	logLayout(s, layout)

	for p := 1; p < r.Size; p++ {
		sd := layout.Slices[p]
		if err := sendSlice(c, p, sd, field.Rows(sd)); err != nil {
			return nil, fmt.Errorf("distribute to %d: %w", p, err)
		}
	}
	start := time.Now()

	own := layout.Slices[comm.Root]
	if err := st.derivative(field.Rows(own), n, result.Rows(own)); err != nil {
		return nil, fmt.Errorf("local derivative: %w", err)
	}

	for p := 1; p < r.Size; p++ {
		sd, block, err := recvBlock(c, p, layout, n)
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		if err := result.SetRows(sd, block); err != nil {
			return nil, fmt.Errorf("place rows of %d: %w", p, err)
		}
	}
	elapsed := time.Since(start)

	return &Report{
		Label:   "Grid",
		Size:    n,
		Metrics: []Metric{FloatMetric("Checksum", floats.Sum(result.GlobalData))},
		Elapsed: elapsed,
		Result:  result.GlobalData,
	}, nil
}

func (st Stencil) Work(s *Session, r Worker, n int) error {
	c := s.Comm
	sd, err := recvDescriptor(c)
	if err != nil {
		return err
	}
	rows, err := recvFloats(c, comm.Root, comm.TagData, sd.Count*n)
	if err != nil {
		return fmt.Errorf("receive rows %v: %w", sd, err)
	}

	block := make([]float64, len(rows))
	if err := st.derivative(rows, n, block); err != nil {
		return fmt.Errorf("local derivative: %w", err)
	}
	return sendBlock(c, sd, block)
}
