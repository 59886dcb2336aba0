package comm

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultMailboxDepth is the number of undelivered messages a route holds
// before Send blocks
const DefaultMailboxDepth = 16

type route struct {
	src, dst, tag int
}

// World is a participant set living in one process. Messages are copied
// through gob on the way, so sender and receiver never share a buffer.
// A World is torn down by Abort or when Run returns and cannot be reused.
type World struct {
	size  int
	depth int

	mu    sync.Mutex
	boxes map[route]chan []byte

	done      chan struct{}
	abortOnce sync.Once
	cause     error
}

// NewWorld creates a world of size participants
func NewWorld(size int) *World {
	if size < 1 {
		panic(fmt.Sprintf("world size must be positive, got %d", size))
	}
	return &World{
		size:  size,
		depth: DefaultMailboxDepth,
		boxes: make(map[route]chan []byte),
		done:  make(chan struct{}),
	}
}

// Size returns the number of participants
func (w *World) Size() int {
	return w.size
}

// Endpoint returns the communicator of participant rank
func (w *World) Endpoint(rank int) *Endpoint {
	if rank < 0 || rank >= w.size {
		panic(fmt.Sprintf("rank %d outside world of %d", rank, w.size))
	}
	return &Endpoint{world: w, rank: rank}
}

// Abort tears the world down. Every blocked and future Send or Recv returns
// ErrAborted. Only the first cause is kept.
func (w *World) Abort(cause error) {
	w.abortOnce.Do(func() {
		w.cause = cause
		close(w.done)
	})
}

// Err returns the abort cause, or nil while the world is live
func (w *World) Err() error {
	select {
	case <-w.done:
		return w.cause
	default:
		return nil
	}
}

// Run executes fn once per participant, each in its own goroutine, and
// waits for all of them. The first participant error aborts the world and
// is returned.
func (w *World) Run(ctx context.Context, fn func(c Communicator) error) error {
	g, ctx := errgroup.WithContext(ctx)
	go func() {
		<-ctx.Done()
		w.Abort(context.Cause(ctx))
	}()
	for rank := 0; rank < w.size; rank++ {
		ep := w.Endpoint(rank)
		g.Go(func() error {
			if err := fn(ep); err != nil {
				return fmt.Errorf("participant %d: %w", ep.rank, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (w *World) mailbox(r route) chan []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch, ok := w.boxes[r]
	if !ok {
		ch = make(chan []byte, w.depth)
		w.boxes[r] = ch
	}
	return ch
}

// Endpoint is one participant of a World
type Endpoint struct {
	world *World
	rank  int
}

func (e *Endpoint) Rank() int {
	return e.rank
}

func (e *Endpoint) Size() int {
	return e.world.size
}

// Send copies v into the mailbox of (this rank, dest, tag)
func (e *Endpoint) Send(dest, tag int, v any) error {
	if err := checkPeer(e, dest); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("encode message for rank %d tag %d: %w", dest, tag, err)
	}
	ch := e.world.mailbox(route{src: e.rank, dst: dest, tag: tag})
	select {
	case <-e.world.done:
		return e.aborted()
	default:
	}
	select {
	case ch <- buf.Bytes():
		return nil
	case <-e.world.done:
		return e.aborted()
	}
}

// Recv blocks until the next message from src with tag arrives and decodes
// it into v
func (e *Endpoint) Recv(src, tag int, v any) error {
	if err := checkPeer(e, src); err != nil {
		return err
	}
	ch := e.world.mailbox(route{src: src, dst: e.rank, tag: tag})
	select {
	case msg := <-ch:
		if err := gob.NewDecoder(bytes.NewReader(msg)).Decode(v); err != nil {
			return fmt.Errorf("decode message from rank %d tag %d: %w", src, tag, err)
		}
		return nil
	case <-e.world.done:
		return e.aborted()
	}
}

func (e *Endpoint) Barrier() error {
	return MessageBarrier(e)
}

func (e *Endpoint) aborted() error {
	if cause := e.world.cause; cause != nil {
		return fmt.Errorf("%w: %v", ErrAborted, cause)
	}
	return ErrAborted
}
