// Package comm provides blocking point-to-point message passing between a
// fixed set of participants. Every participant has a stable rank in
// [0, Size()); messages between one pair of ranks with one tag are
// delivered in send order.
//
// Two transports are provided: World runs every participant as a goroutine
// of the current process, and Network connects separate processes through
// github.com/btracey/mpi. Both share the message based Barrier.
package comm

import (
	"errors"
	"fmt"
)

// Communicator is one participant's view of the participant set. Send and
// Recv block; Recv must name the exact peer and tag it expects and should
// decode into a zero value.
type Communicator interface {
	Rank() int
	Size() int
	Send(dest, tag int, v any) error
	Recv(src, tag int, v any) error
	Barrier() error
}

// Message tags. Each tag is used at most once per ordered pair of ranks per
// workload size, so a message can never be matched against the wrong step.
const (
	TagDescriptor = iota + 1
	TagData
	TagOperand
	TagResultDescriptor
	TagResult
	TagGreetingLength
	TagGreeting
	TagBarrier
	TagRelease
)

// Root is the rank of the coordinator
const Root = 0

var (
	// ErrAborted is returned by operations blocked on a world that was
	// torn down because some participant failed
	ErrAborted = errors.New("comm: participant set aborted")

	// ErrUnknownPeer is returned when a rank outside [0, Size()) is named
	ErrUnknownPeer = errors.New("comm: unknown peer")
)

func checkPeer(c Communicator, peer int) error {
	if peer < 0 || peer >= c.Size() {
		return fmt.Errorf("%w: rank %d of %d", ErrUnknownPeer, peer, c.Size())
	}
	return nil
}
