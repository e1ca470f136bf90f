package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitingLineFIFO(t *testing.T) {
	w := NewWaitingLine(0)
	const n = 100 // forces several grows
	for i := 0; i < n; i++ {
		require.NoError(t, w.Enqueue(Customer{ArrivalTime: float64(i)}))
	}
	assert.Equal(t, n, w.Len())
	assert.Equal(t, n, w.Peak())

	for i := 0; i < n; i++ {
		c, err := w.Dequeue(float64(n))
		require.NoError(t, err)
		assert.Equal(t, float64(i), c.ArrivalTime)
	}
	assert.Equal(t, 0, w.Len())
}

func TestWaitingLineWrapAround(t *testing.T) {
	w := NewWaitingLine(0)
	next, want := 0, 0
	// Keep occupancy below the initial capacity so the buffer wraps instead of growing.
	for round := 0; round < 10; round++ {
		for i := 0; i < 5; i++ {
			require.NoError(t, w.Enqueue(Customer{Demand: float64(next)}))
			next++
		}
		for i := 0; i < 4; i++ {
			c, err := w.Dequeue(0)
			require.NoError(t, err)
			require.Equal(t, float64(want), c.Demand)
			want++
		}
	}
	for w.Len() > 0 {
		c, err := w.Dequeue(0)
		require.NoError(t, err)
		require.Equal(t, float64(want), c.Demand)
		want++
	}
	assert.Equal(t, next, want)
}

func TestWaitingLinePeakAndWait(t *testing.T) {
	w := NewWaitingLine(0)
	require.NoError(t, w.Enqueue(Customer{ArrivalTime: 1}))
	require.NoError(t, w.Enqueue(Customer{ArrivalTime: 2}))
	_, err := w.Dequeue(4)
	require.NoError(t, err)
	require.NoError(t, w.Enqueue(Customer{ArrivalTime: 5}))
	_, err = w.Dequeue(6)
	require.NoError(t, err)
	_, err = w.Dequeue(10)
	require.NoError(t, err)

	assert.Equal(t, 2, w.Peak())
	// (4-1) + (6-2) + (10-5)
	assert.InDelta(t, 12.0, w.CumulativeWait(), 1e-9)
}

func TestWaitingLineErrors(t *testing.T) {
	w := NewWaitingLine(2)
	_, err := w.Dequeue(0)
	assert.ErrorIs(t, err, ErrEmptyQueue)

	require.NoError(t, w.Enqueue(Customer{}))
	require.NoError(t, w.Enqueue(Customer{}))
	assert.ErrorIs(t, w.Enqueue(Customer{}), ErrCapacityExceeded)
	assert.Equal(t, 2, w.Len())
}

func TestWaitingLineGrowWhileWrapped(t *testing.T) {
	w := NewWaitingLine(0)
	for i := 0; i < 10; i++ {
		require.NoError(t, w.Enqueue(Customer{Demand: float64(i)}))
	}
	for i := 0; i < 8; i++ {
		_, err := w.Dequeue(0)
		require.NoError(t, err)
	}
	for i := 10; i < 30; i++ {
		require.NoError(t, w.Enqueue(Customer{Demand: float64(i)}))
	}

	for want := 8; want < 30; want++ {
		c, err := w.Dequeue(0)
		require.NoError(t, err)
		require.Equal(t, float64(want), c.Demand)
	}
	assert.Equal(t, 22, w.Peak())
}
