package protocol

import (
	"fmt"
	"time"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/kernels"
)

// Greeting is the handshake: every worker sends the coordinator a message,
// length first, and the coordinator reads them in rank order. The size of
// a greeting "domain" is the round number.
type Greeting struct{}

func (Greeting) Name() string {
	return "greeting"
}

func (Greeting) Coordinate(s *Session, r Coordinator, round int) (*Report, error) {
	c := s.Comm
	s.Log.Infof("process %d of %d ready", c.Rank(), r.Size)
	start := time.Now()
	messages := make([]string, 0, r.Size-1)
	details := make([]string, 0, r.Size-1)
	for p := 1; p < r.Size; p++ {
		var length int
		if err := c.Recv(p, comm.TagGreetingLength, &length); err != nil {
			return nil, fmt.Errorf("receive greeting length from %d: %w", p, err)
		}
		var text []byte
		if err := c.Recv(p, comm.TagGreeting, &text); err != nil {
			return nil, fmt.Errorf("receive greeting from %d: %w", p, err)
		}
		if len(text) != length {
			return nil, fmt.Errorf("%w: greeting from %d announced %d bytes, got %d",
				ErrMalformed, p, length, len(text))
		}
		messages = append(messages, string(text))
		details = append(details, fmt.Sprintf("Received from %d: %s", p, text))
	}
	elapsed := time.Since(start)

	return &Report{
		Label:   "Round",
		Size:    round,
		Metrics: []Metric{IntMetric("Messages", len(messages))},
		Elapsed: elapsed,
		Details: details,
		Result:  messages,
	}, nil
}

func (Greeting) Work(s *Session, r Worker, round int) error {
	c := s.Comm
	s.Log.Infof("process %d of %d ready", r.ID, c.Size())
	text := []byte(kernels.Greeting(r.ID))
	if err := c.Send(comm.Root, comm.TagGreetingLength, len(text)); err != nil {
		return fmt.Errorf("send greeting length: %w", err)
	}
	if err := c.Send(comm.Root, comm.TagGreeting, text); err != nil {
		return fmt.Errorf("send greeting: %w", err)
	}
	return nil
}
