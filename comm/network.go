package comm

import (
	"fmt"

	"github.com/btracey/mpi"
	"github.com/sirupsen/logrus"
)

// Network is the multi-process transport. Rank and size come from the
// launch environment: github.com/btracey/mpi reads -mpi-addr and
// -mpi-alladdr from the command line, so flags must be parsed before
// NewNetwork is called.
type Network struct {
	rank int
	size int
}

// NewNetwork connects this process to its peers
func NewNetwork(log *logrus.Entry) (*Network, error) {
	if err := mpi.Init(); err != nil {
		return nil, fmt.Errorf("mpi init: %w", err)
	}
	n := &Network{rank: mpi.Rank(), size: mpi.Size()}
	if n.rank < 0 || n.size < 1 {
		mpi.Finalize()
		return nil, fmt.Errorf("mpi init: incorrect initialization (rank %d, size %d)", n.rank, n.size)
	}
	if log != nil {
		log.WithFields(logrus.Fields{"rank": n.rank, "size": n.size}).Debug("network initialized")
	}
	return n, nil
}

func (n *Network) Rank() int {
	return n.rank
}

func (n *Network) Size() int {
	return n.size
}

func (n *Network) Send(dest, tag int, v any) error {
	if err := checkPeer(n, dest); err != nil {
		return err
	}
	if err := mpi.Send(v, dest, tag); err != nil {
		return fmt.Errorf("send to rank %d tag %d: %w", dest, tag, err)
	}
	return nil
}

func (n *Network) Recv(src, tag int, v any) error {
	if err := checkPeer(n, src); err != nil {
		return err
	}
	if err := mpi.Receive(v, src, tag); err != nil {
		return fmt.Errorf("receive from rank %d tag %d: %w", src, tag, err)
	}
	return nil
}

func (n *Network) Barrier() error {
	return MessageBarrier(n)
}

// Close shuts the connections down
func (n *Network) Close() {
	mpi.Finalize()
}
