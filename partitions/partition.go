package partitions

import (
	"fmt"
)

// SliceDescriptor is the contiguous half-open range [Start, Start+Count) of
// elements (1-D domains) or rows (2-D domains) owned by one participant
type SliceDescriptor struct {
	Start int
	Count int
}

// End returns one past the last index of the slice
func (sd SliceDescriptor) End() int {
	return sd.Start + sd.Count
}

// Empty reports whether the slice owns nothing
func (sd SliceDescriptor) Empty() bool {
	return sd.Count == 0
}

// Contains reports whether index i falls inside the slice
func (sd SliceDescriptor) Contains(i int) bool {
	return i >= sd.Start && i < sd.End()
}

func (sd SliceDescriptor) String() string {
	return fmt.Sprintf("[%d,%d)", sd.Start, sd.End())
}

// Partition returns the slice owned by participant id when a domain of n
// units is split across p participants. The first n%p participants receive
// one extra unit. Every participant can evaluate this independently.
func Partition(n, p, id int) SliceDescriptor {
	if p < 1 {
		panic(fmt.Sprintf("partition count must be positive, got %d", p))
	}
	if id < 0 || id >= p {
		panic(fmt.Sprintf("participant %d outside [0,%d)", id, p))
	}
	if n < 0 {
		panic(fmt.Sprintf("domain size must be non-negative, got %d", n))
	}
	base := n / p
	rem := n % p
	count := base
	if id < rem {
		count++
	}
	return SliceDescriptor{
		Start: id*base + min(id, rem),
		Count: count,
	}
}

// PartitionLayout manages the complete decomposition of one domain
type PartitionLayout struct {
	// One descriptor per participant, indexed by participant ID
	Slices []SliceDescriptor

	// Global sizing information
	KpartMax      int // max(Count) across all partitions
	TotalElements int // Domain size N
	NumPartitions int // Participant count P
}

// GetPartition returns the partition owning element k, or -1
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= pl.TotalElements {
		return -1
	}
	for id, sd := range pl.Slices {
		if sd.Contains(elementID) {
			return id
		}
	}
	return -1
}

// ValidateLayout checks that the slices cover [0, TotalElements) exactly,
// in participant order, with at most one unit of imbalance
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Slices) != pl.NumPartitions {
		return fmt.Errorf("layout has %d slices for %d partitions",
			len(pl.Slices), pl.NumPartitions)
	}
	next, total := 0, 0
	minCount, maxCount := pl.TotalElements, 0
	for id, sd := range pl.Slices {
		if sd.Count < 0 {
			return fmt.Errorf("partition %d: negative count %d", id, sd.Count)
		}
		if sd.Start != next {
			return fmt.Errorf("partition %d: starts at %d, expected %d",
				id, sd.Start, next)
		}
		next = sd.End()
		total += sd.Count
		minCount = min(minCount, sd.Count)
		maxCount = max(maxCount, sd.Count)
	}
	if total != pl.TotalElements {
		return fmt.Errorf("slices cover %d elements, domain has %d",
			total, pl.TotalElements)
	}
	if maxCount != pl.KpartMax {
		return fmt.Errorf("computed KpartMax %d != stored KpartMax %d",
			maxCount, pl.KpartMax)
	}
	if len(pl.Slices) > 0 && maxCount-minCount > 1 {
		return fmt.Errorf("imbalance %d exceeds one unit", maxCount-minCount)
	}
	return nil
}

// PartitionedArray is a flat row-major buffer viewed through slice
// descriptors. Stride is the number of values per row (1 for 1-D data).
type PartitionedArray struct {
	GlobalData []float64
	Stride     int
}

// NewPartitionedArray allocates rows*stride values
func NewPartitionedArray(rows, stride int) *PartitionedArray {
	return &PartitionedArray{
		GlobalData: make([]float64, rows*stride),
		Stride:     stride,
	}
}

// Rows returns the sub-slice holding the rows of sd. The result aliases
// GlobalData; an empty descriptor yields an empty slice.
func (pa *PartitionedArray) Rows(sd SliceDescriptor) []float64 {
	lo := sd.Start * pa.Stride
	hi := sd.End() * pa.Stride
	return pa.GlobalData[lo:hi:hi]
}

// SetRows copies data into the rows of sd
func (pa *PartitionedArray) SetRows(sd SliceDescriptor, data []float64) error {
	dst := pa.Rows(sd)
	if len(data) != len(dst) {
		return fmt.Errorf("rows %v need %d values, got %d", sd, len(dst), len(data))
	}
	copy(dst, data)
	return nil
}
