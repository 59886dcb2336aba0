package protocol

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/kernels"
	"github.com/notargets/scatter/kernels/occa"
	"github.com/notargets/scatter/partitions"
	"gonum.org/v1/gonum/mat"
)

// MatMul computes C = A*B for N x N matrices. Each worker receives its
// rows of A and all of B and returns its rows of C.
//
// The default fill draws from the unseeded global source, so products are
// not reproducible between runs.
type MatMul struct {
	MaxValue int

	// Device runs the kernel through OCCA when set
	Device *occa.Device

	// Fill overrides the generated operands
	Fill func(a, b *mat.Dense)
}

func (MatMul) Name() string {
	return "matmul"
}

// square wraps data as an n x n matrix. gonum rejects zero dimensions, so
// n == 0 yields an empty Dense.
func square(n int, data []float64) *mat.Dense {
	if n == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(n, n, data)
}

// Generate builds the operands for size n
func (mm MatMul) Generate(n int) (a, b *mat.Dense) {
	a = square(n, nil)
	b = square(n, nil)
	if mm.Fill != nil {
		mm.Fill(a, b)
		return a, b
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, float64(rand.IntN(mm.MaxValue)))
			b.Set(i, j, float64(rand.IntN(mm.MaxValue)))
		}
	}
	return a, b
}

func (mm MatMul) multiply(aRows []float64, b *mat.Dense, out []float64) error {
	if len(aRows) == 0 && len(out) == 0 {
		return nil
	}
	if mm.Device != nil {
		return mm.Device.MatMulRows(aRows, b, out)
	}
	kernels.MatMulRows(aRows, b, out)
	return nil
}

func (mm MatMul) Coordinate(s *Session, r Coordinator, n int) (*Report, error) {
	c := s.Comm
	a, b := mm.Generate(n)
	aRows := &partitions.PartitionedArray{GlobalData: a.RawMatrix().Data, Stride: n}
	product := partitions.NewPartitionedArray(n, n)
	layout, err := partitions.NewPartitionLayout(n, r.Size)
	if err != nil {
		return nil, err
	}
	logLayout(s, layout)

	bData := b.RawMatrix().Data
	for p := 1; p < r.Size; p++ {
		sd := layout.Slices[p]
		if err := sendSlice(c, p, sd, aRows.Rows(sd)); err != nil {
			return nil, fmt.Errorf("distribute to %d: %w", p, err)
		}
		if err := c.Send(p, comm.TagOperand, bData); err != nil {
			return nil, fmt.Errorf("distribute operand to %d: %w", p, err)
		}
	}
	start := time.Now()

	own := layout.Slices[comm.Root]
	if err := mm.multiply(aRows.Rows(own), b, product.Rows(own)); err != nil {
		return nil, fmt.Errorf("local product: %w", err)
	}

	for p := 1; p < r.Size; p++ {
		sd, block, err := recvBlock(c, p, layout, n)
		if err != nil {
			return nil, fmt.Errorf("collect: %w", err)
		}
		if err := product.SetRows(sd, block); err != nil {
			return nil, fmt.Errorf("place rows of %d: %w", p, err)
		}
	}
	elapsed := time.Since(start)

	cm := square(n, product.GlobalData)
	trace := 0.0
	if n > 0 {
		trace = mat.Trace(cm)
	}
	return &Report{
		Label:   "N",
		Size:    n,
		Metrics: []Metric{FloatMetric("Trace", trace)},
		Elapsed: elapsed,
		Result:  cm,
	}, nil
}

func (mm MatMul) Work(s *Session, r Worker, n int) error {
	c := s.Comm
	sd, err := recvDescriptor(c)
	if err != nil {
		return err
	}
	aRows, err := recvFloats(c, comm.Root, comm.TagData, sd.Count*n)
	if err != nil {
		return fmt.Errorf("receive rows %v: %w", sd, err)
	}
	bData, err := recvFloats(c, comm.Root, comm.TagOperand, n*n)
	if err != nil {
		return fmt.Errorf("receive operand: %w", err)
	}
	b := square(n, bData)

	block := make([]float64, len(aRows))
	if err := mm.multiply(aRows, b, block); err != nil {
		return fmt.Errorf("local product: %w", err)
	}
	return sendBlock(c, sd, block)
}
