package comm

import "fmt"

type barrierToken struct {
	Rank int
}

// MessageBarrier blocks until every participant has entered it. Workers
// report to Root in rank order and wait for a release; Root releases nobody
// until all arrivals are in.
func MessageBarrier(c Communicator) error {
	if c.Size() == 1 {
		return nil
	}
	token := barrierToken{Rank: c.Rank()}
	if c.Rank() != Root {
		if err := c.Send(Root, TagBarrier, token); err != nil {
			return fmt.Errorf("barrier arrival: %w", err)
		}
		var release barrierToken
		if err := c.Recv(Root, TagRelease, &release); err != nil {
			return fmt.Errorf("barrier release: %w", err)
		}
		return nil
	}
	for p := 1; p < c.Size(); p++ {
		var arrival barrierToken
		if err := c.Recv(p, TagBarrier, &arrival); err != nil {
			return fmt.Errorf("barrier arrival from %d: %w", p, err)
		}
	}
	for p := 1; p < c.Size(); p++ {
		if err := c.Send(p, TagRelease, token); err != nil {
			return fmt.Errorf("barrier release to %d: %w", p, err)
		}
	}
	return nil
}
