package partitions

import (
	"fmt"
	"math"
)

// PartitionBuilder constructs the block layout of a domain across a fixed
// participant set
type PartitionBuilder struct {
	NumElements   int // Domain size N (elements or rows)
	NumPartitions int // Participant count P
}

// BuildPartitions creates and validates a partition layout
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	if pb.NumPartitions < 1 {
		return nil, fmt.Errorf("invalid partition count %d", pb.NumPartitions)
	}
	if pb.NumElements < 0 {
		return nil, fmt.Errorf("invalid domain size %d", pb.NumElements)
	}

	slices := make([]SliceDescriptor, pb.NumPartitions)
	for id := range slices {
		slices[id] = Partition(pb.NumElements, pb.NumPartitions, id)
	}

	layout := &PartitionLayout{
		Slices:        slices,
		KpartMax:      calculateKpartMax(slices),
		TotalElements: pb.NumElements,
		NumPartitions: pb.NumPartitions,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}

	return layout, nil
}

// NewPartitionLayout is shorthand for building the layout of n units over p
// participants
func NewPartitionLayout(n, p int) (*PartitionLayout, error) {
	pb := &PartitionBuilder{NumElements: n, NumPartitions: p}
	return pb.BuildPartitions()
}

// calculateKpartMax finds the largest slice
func calculateKpartMax(slices []SliceDescriptor) int {
	kpartMax := 0
	for _, sd := range slices {
		if sd.Count > kpartMax {
			kpartMax = sd.Count
		}
	}
	return kpartMax
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		MinElements:   math.MaxInt,
		MaxElements:   0,
		AvgElements:   float64(pl.TotalElements) / float64(pl.NumPartitions),
	}

	for _, sd := range pl.Slices {
		if sd.Count < stats.MinElements {
			stats.MinElements = sd.Count
		}
		if sd.Count > stats.MaxElements {
			stats.MaxElements = sd.Count
		}
		if sd.Empty() {
			stats.EmptyPartitions++
		}
	}

	if stats.AvgElements > 0 {
		stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements
	}

	return stats
}

type PartitionStats struct {
	NumPartitions   int
	MinElements     int
	MaxElements     int
	EmptyPartitions int     // Participants with Count == 0 (N < P)
	AvgElements     float64
	Imbalance       float64 // MaxElements / AvgElements, 0 for an empty domain
}
