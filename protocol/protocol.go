package protocol

import (
	"errors"
	"fmt"
	"io"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/partitions"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDescriptorMismatch marks a descriptor that disagrees with the
	// partition every participant computes for itself
	ErrDescriptorMismatch = errors.New("protocol: slice descriptor mismatch")

	// ErrMalformed marks a payload whose length does not match its
	// descriptor
	ErrMalformed = errors.New("protocol: malformed message")
)

// Workload is one scatter/compute/gather computation evaluated for a
// sequence of domain sizes
type Workload interface {
	Name() string
	Coordinate(s *Session, r Coordinator, n int) (*Report, error)
	Work(s *Session, r Worker, n int) error
}

// Execute runs one domain size of w in the given role. Only the
// coordinator returns a report.
func Execute(w Workload, s *Session, role Role, n int) (*Report, error) {
	switch r := role.(type) {
	case Coordinator:
		return w.Coordinate(s, r, n)
	case Worker:
		return nil, w.Work(s, r, n)
	default:
		return nil, fmt.Errorf("unknown role %v", role)
	}
}

// Driver evaluates a workload over its size list. Every size ends with a
// barrier so no participant starts size k+1 before all have finished k.
type Driver struct {
	Workload Workload
	Sizes    []int
	Out      io.Writer // report lines, written by the coordinator only
}

// Run executes every size in order and returns the coordinator's reports.
// Any error is fatal for the run; nothing is reported for the size in
// progress.
func (d *Driver) Run(s *Session) ([]*Report, error) {
	role := RoleOf(s.Comm)
	log := s.Log.WithField("workload", d.Workload.Name())
	log.WithField("role", role.String()).Debug("starting")

	var reports []*Report
	for _, n := range d.Sizes {
		rep, err := Execute(d.Workload, s, role, n)
		if err != nil {
			return reports, fmt.Errorf("%s size %d: %w", d.Workload.Name(), n, err)
		}
		if rep != nil {
			reports = append(reports, rep)
			if d.Out != nil {
				for _, line := range rep.Details {
					fmt.Fprintln(d.Out, line)
				}
				fmt.Fprintln(d.Out, rep.String())
			}
			log.WithFields(logrus.Fields{"size": n, "elapsed": rep.Elapsed}).Debug("collected")
		}
		if err := s.Comm.Barrier(); err != nil {
			return reports, fmt.Errorf("%s size %d: %w", d.Workload.Name(), n, err)
		}
	}
	return reports, nil
}

// logLayout records how evenly a layout spreads the domain. Empty
// partitions appear whenever the domain is smaller than the participant
// count.
func logLayout(s *Session, layout *partitions.PartitionLayout) {
	stats := layout.PartitionStatistics()
	s.Log.WithFields(logrus.Fields{
		"size":      layout.TotalElements,
		"kpart_max": layout.KpartMax,
		"min":       stats.MinElements,
		"empty":     stats.EmptyPartitions,
		"imbalance": stats.Imbalance,
	}).Debug("partitioned")
}

// sendSlice sends a descriptor followed by the data it sizes
func sendSlice(c comm.Communicator, dest int, sd partitions.SliceDescriptor, data any) error {
	if err := c.Send(dest, comm.TagDescriptor, sd); err != nil {
		return fmt.Errorf("send descriptor %v: %w", sd, err)
	}
	if err := c.Send(dest, comm.TagData, data); err != nil {
		return fmt.Errorf("send slice %v: %w", sd, err)
	}
	return nil
}

// recvDescriptor receives the descriptor of this worker's slice
func recvDescriptor(c comm.Communicator) (partitions.SliceDescriptor, error) {
	var sd partitions.SliceDescriptor
	if err := c.Recv(comm.Root, comm.TagDescriptor, &sd); err != nil {
		return sd, fmt.Errorf("receive descriptor: %w", err)
	}
	return sd, nil
}

// recvFloats receives a float payload that must hold exactly want values
func recvFloats(c comm.Communicator, src, tag, want int) ([]float64, error) {
	var data []float64
	if err := c.Recv(src, tag, &data); err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d values from rank %d, got %d",
			ErrMalformed, want, src, len(data))
	}
	if data == nil {
		data = []float64{}
	}
	return data, nil
}

// sendBlock echoes a descriptor back to the coordinator with its result
// rows, so the coordinator can place the block without recomputing it
func sendBlock(c comm.Communicator, sd partitions.SliceDescriptor, block []float64) error {
	if err := c.Send(comm.Root, comm.TagResultDescriptor, sd); err != nil {
		return fmt.Errorf("send result descriptor: %w", err)
	}
	if err := c.Send(comm.Root, comm.TagResult, block); err != nil {
		return fmt.Errorf("send result block: %w", err)
	}
	return nil
}

// recvBlock receives worker p's echoed descriptor and result rows and
// checks the descriptor against the layout
func recvBlock(c comm.Communicator, p int, layout *partitions.PartitionLayout, stride int) (
	partitions.SliceDescriptor, []float64, error) {
	var sd partitions.SliceDescriptor
	if err := c.Recv(p, comm.TagResultDescriptor, &sd); err != nil {
		return sd, nil, fmt.Errorf("receive result descriptor from %d: %w", p, err)
	}
	if sd != layout.Slices[p] {
		return sd, nil, fmt.Errorf("%w: worker %d echoed %v (starts in partition %d), owns %v",
			ErrDescriptorMismatch, p, sd, layout.GetPartition(sd.Start), layout.Slices[p])
	}
	block, err := recvFloats(c, p, comm.TagResult, sd.Count*stride)
	if err != nil {
		return sd, nil, fmt.Errorf("receive result block from %d: %w", p, err)
	}
	return sd, block, nil
}
