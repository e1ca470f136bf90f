package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleHeapPopsFastestFirst(t *testing.T) {
	r := NewRegistry(0)
	h := NewIdleHeap()
	for _, eff := range []float64{2.0, 0.5, 1.5, 1.0} {
		st, err := r.Add(eff)
		require.NoError(t, err)
		h.Insert(st)
	}

	var ids []int
	for {
		st, ok := h.PopFastest()
		if !ok {
			break
		}
		assert.False(t, st.Idle())
		ids = append(ids, st.ID)
	}
	assert.Equal(t, []int{1, 3, 2, 0}, ids)
}

func TestIdleHeapEqualEfficiencyByID(t *testing.T) {
	r := NewRegistry(0)
	h := NewIdleHeap()
	var all []*Station
	for i := 0; i < 4; i++ {
		st, err := r.Add(1.0)
		require.NoError(t, err)
		all = append(all, st)
	}
	for i := len(all) - 1; i >= 0; i-- {
		h.Insert(all[i])
	}

	st, ok := h.PopFastest()
	require.True(t, ok)
	assert.Equal(t, 0, st.ID)
}

func TestIdleHeapEmptyIsNotAnError(t *testing.T) {
	h := NewIdleHeap()
	st, ok := h.PopFastest()
	assert.False(t, ok)
	assert.Nil(t, st)
}

func TestIdleHeapDoubleInsertPanics(t *testing.T) {
	r := NewRegistry(0)
	h := NewIdleHeap()
	st, err := r.Add(1.0)
	require.NoError(t, err)
	h.Insert(st)

	assert.Panics(t, func() { h.Insert(st) })
	assert.Equal(t, 1, h.Len())
}
