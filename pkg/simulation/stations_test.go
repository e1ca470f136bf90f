package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAssignsSequentialIDs(t *testing.T) {
	r := NewRegistry(0)
	for i, eff := range []float64{1.2, 0.8, 1.0} {
		st, err := r.Add(eff)
		require.NoError(t, err)
		assert.Equal(t, i, st.ID)
		assert.Same(t, st, r.ByID(i))
	}
	assert.Equal(t, 3, r.Len())
}

func TestRegistryRejectsBadEfficiency(t *testing.T) {
	for _, eff := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewRegistry(0).Add(eff)
		assert.Error(t, err, "efficiency %v", eff)
	}
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry(1)
	_, err := r.Add(1)
	require.NoError(t, err)
	_, err = r.Add(1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRegistryCounters(t *testing.T) {
	r := NewRegistry(0)
	st, err := r.Add(1)
	require.NoError(t, err)

	r.BeginService(st.ID, 2.5)
	r.RecordServiceCompletion(st.ID)
	r.BeginService(st.ID, 1.5)
	r.RecordServiceCompletion(st.ID)

	assert.Equal(t, 2, st.CustomersServed)
	assert.InDelta(t, 4.0, st.BusyTime, 1e-9)
	assert.Panics(t, func() { r.ByID(1) })
}

func TestRegistryBeginServiceOnIdleStationPanics(t *testing.T) {
	r := NewRegistry(0)
	h := NewIdleHeap()
	st, err := r.Add(1)
	require.NoError(t, err)
	h.Insert(st)

	assert.Panics(t, func() { r.BeginService(st.ID, 1) })
}
