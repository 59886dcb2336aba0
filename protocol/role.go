// Package protocol implements the coordinator/worker scatter, compute and
// gather exchange for each workload. The coordinator owns the full dataset,
// sends every worker its slice, computes its own slice, then collects and
// merges the partial results in ascending worker order. Workers receive a
// descriptor, then the data it sizes, compute, and send their result back.
package protocol

import (
	"fmt"
	"io"

	"github.com/notargets/scatter/comm"
	"github.com/sirupsen/logrus"
)

// Role is what a participant does for the whole run: either Coordinator
// or Worker
type Role interface {
	fmt.Stringer
	role()
}

// Coordinator is participant 0. Size is the participant count P.
type Coordinator struct {
	Size int
}

// Worker is any other participant
type Worker struct {
	ID int
}

func (Coordinator) role() {}
func (Worker) role()      {}

func (c Coordinator) String() string {
	return fmt.Sprintf("coordinator of %d", c.Size)
}

func (w Worker) String() string {
	return fmt.Sprintf("worker %d", w.ID)
}

// RoleOf derives the role of a participant from its communicator
func RoleOf(c comm.Communicator) Role {
	if c.Rank() == comm.Root {
		return Coordinator{Size: c.Size()}
	}
	return Worker{ID: c.Rank()}
}

// Session is what a workload needs to talk to the other participants
type Session struct {
	Comm comm.Communicator
	Log  *logrus.Entry
}

// NewSession wraps c. A nil log discards everything.
func NewSession(c comm.Communicator, log *logrus.Entry) *Session {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Session{Comm: c, Log: log.WithField("rank", c.Rank())}
}
