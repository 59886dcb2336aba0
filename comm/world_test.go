package comm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldSendRecv(t *testing.T) {
	w := NewWorld(2)
	a, b := w.Endpoint(0), w.Endpoint(1)

	payload := []float64{1, 2, 3}
	require.NoError(t, a.Send(1, TagData, payload))
	// The receiver owns its copy
	payload[0] = -1

	var got []float64
	require.NoError(t, b.Recv(0, TagData, &got))
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestWorldPerPairOrdering(t *testing.T) {
	w := NewWorld(2)
	a, b := w.Endpoint(0), w.Endpoint(1)

	for i := 0; i < 5; i++ {
		require.NoError(t, a.Send(1, TagData, i))
	}
	for i := 0; i < 5; i++ {
		var v int
		require.NoError(t, b.Recv(0, TagData, &v))
		assert.Equal(t, i, v)
	}
}

func TestWorldTagsAreIndependent(t *testing.T) {
	w := NewWorld(2)
	a, b := w.Endpoint(0), w.Endpoint(1)

	require.NoError(t, a.Send(1, TagDescriptor, "descriptor"))
	require.NoError(t, a.Send(1, TagData, "data"))

	var data, desc string
	require.NoError(t, b.Recv(0, TagData, &data))
	require.NoError(t, b.Recv(0, TagDescriptor, &desc))
	assert.Equal(t, "data", data)
	assert.Equal(t, "descriptor", desc)
}

func TestWorldEmptyPayload(t *testing.T) {
	w := NewWorld(2)
	require.NoError(t, w.Endpoint(0).Send(1, TagData, []int{}))

	var got []int
	require.NoError(t, w.Endpoint(1).Recv(0, TagData, &got))
	assert.Len(t, got, 0)
}

func TestWorldUnknownPeer(t *testing.T) {
	w := NewWorld(2)
	ep := w.Endpoint(0)
	assert.ErrorIs(t, ep.Send(2, TagData, 1), ErrUnknownPeer)
	var v int
	assert.ErrorIs(t, ep.Recv(-1, TagData, &v), ErrUnknownPeer)

	assert.Panics(t, func() { NewWorld(0) })
	assert.Panics(t, func() { w.Endpoint(2) })
}

func TestWorldRunBarrier(t *testing.T) {
	for _, size := range []int{1, 2, 5} {
		var arrived atomic.Int64
		w := NewWorld(size)
		err := w.Run(context.Background(), func(c Communicator) error {
			for round := 1; round <= 3; round++ {
				arrived.Add(1)
				if err := c.Barrier(); err != nil {
					return err
				}
				if got := arrived.Load(); got < int64(round*size) {
					return errors.New("left barrier before everyone arrived")
				}
				if err := c.Barrier(); err != nil {
					return err
				}
			}
			return nil
		})
		assert.NoErrorf(t, err, "size %d", size)
	}
}

func TestWorldRunAbortsOnFailure(t *testing.T) {
	boom := errors.New("boom")
	w := NewWorld(3)
	err := w.Run(context.Background(), func(c Communicator) error {
		if c.Rank() == 2 {
			return boom
		}
		// Blocks until rank 2's failure tears the world down
		var v int
		return c.Recv(2, TagResult, &v)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, w.Err(), boom)

	var v int
	assert.ErrorIs(t, w.Endpoint(0).Recv(1, TagData, &v), ErrAborted)
	assert.ErrorIs(t, w.Endpoint(0).Send(1, TagData, v), ErrAborted)
}

func TestWorldRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorld(2)
	err := w.Run(ctx, func(c Communicator) error {
		if c.Rank() == 0 {
			cancel()
		}
		var v int
		return c.Recv((c.Rank()+1)%2, TagData, &v)
	})
	assert.ErrorIs(t, err, ErrAborted)
}
