package protocol

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/kernels"
	"github.com/notargets/scatter/partitions"
	"github.com/sirupsen/logrus"
)

// Reduction sums N pseudo-random integers. The input is rebuilt from Seed
// for every size, so runs are reproducible.
type Reduction struct {
	Seed     uint64
	MaxValue int // elements are drawn from [0, MaxValue)
}

func (Reduction) Name() string {
	return "reduction"
}

// Generate builds the full input for size n
func (rd Reduction) Generate(n int) []int {
	rng := rand.New(rand.NewPCG(rd.Seed, rd.Seed))
	data := make([]int, n)
	for i := range data {
		data[i] = rng.IntN(rd.MaxValue)
	}
	return data
}

func (rd Reduction) Coordinate(s *Session, r Coordinator, n int) (*Report, error) {
	c := s.Comm
	data := rd.Generate(n)
	layout, err := partitions.NewPartitionLayout(n, r.Size)
	if err != nil {
		return nil, err
	}
	logLayout(s, layout)

	for p := 1; p < r.Size; p++ {
		sd := layout.Slices[p]
		if err := sendSlice(c, p, sd, data[sd.Start:sd.End()]); err != nil {
			return nil, fmt.Errorf("distribute to %d: %w", p, err)
		}
	}
	start := time.Now()

	own := layout.Slices[comm.Root]
	sum := kernels.Sum(data[own.Start:own.End()])

	for p := 1; p < r.Size; p++ {
		var partial int
		if err := c.Recv(p, comm.TagResult, &partial); err != nil {
			return nil, fmt.Errorf("collect from %d: %w", p, err)
		}
		s.Log.WithFields(logrus.Fields{"from": p, "partial": partial}).Debug("partial sum")
		sum += partial
	}
	elapsed := time.Since(start)

	return &Report{
		Label:   "N",
		Size:    n,
		Metrics: []Metric{IntMetric("Sum", sum)},
		Elapsed: elapsed,
		Result:  sum,
	}, nil
}

// Work receives this worker's elements and returns their sum. The worker
// computes its own slice independently and rejects a descriptor that
// disagrees with it.
func (rd Reduction) Work(s *Session, r Worker, n int) error {
	c := s.Comm
	own := partitions.Partition(n, c.Size(), r.ID)

	sd, err := recvDescriptor(c)
	if err != nil {
		return err
	}
	if sd != own {
		return fmt.Errorf("%w: received %v, computed %v", ErrDescriptorMismatch, sd, own)
	}

	var data []int
	if err := c.Recv(comm.Root, comm.TagData, &data); err != nil {
		return fmt.Errorf("receive slice: %w", err)
	}
	if len(data) != sd.Count {
		return fmt.Errorf("%w: expected %d elements, got %d", ErrMalformed, sd.Count, len(data))
	}

	partial := kernels.Sum(data)
	if err := c.Send(comm.Root, comm.TagResult, partial); err != nil {
		return fmt.Errorf("send partial sum: %w", err)
	}
	return nil
}
