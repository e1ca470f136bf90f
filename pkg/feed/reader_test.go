package feed

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sherine-k/checkoutsim/pkg/simulation"
)

const sampleFeed = `2
1.5
0.8
0.25 4 cash
1 12.5 card
1 3 CASH
`

func TestReaderWithHeader(t *testing.T) {
	r := NewReader(strings.NewReader(sampleFeed))
	effs, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.8}, effs)

	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []simulation.Arrival{
		{Time: 0.25, Demand: 4, Payment: simulation.Cash},
		{Time: 1, Demand: 12.5, Payment: simulation.Card},
		{Time: 1, Demand: 3, Payment: simulation.Cash},
	}, records)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		record int
		field  string
	}{
		{"bad time", "x 1 cash\n", 0, "arrival time"},
		{"bad demand", "0 1 cash\n1 y card\n", 1, "service demand"},
		{"negative demand", "0 -1 cash\n", 0, "service demand"},
		{"unknown payment", "0 1 cash\n1 1 cash\n2 1 cheque\n", 2, "payment"},
		{"truncated", "0 1 cash\n1 1\n", 1, "payment"},
		{"decreasing", "2 1 cash\n1 1 card\n", 1, "arrival time"},
		{"NaN demand", "0 5 cash\n1 5 card\n2 NaN cash\n", 2, "service demand"},
		{"Inf demand", "0 +Inf cash\n", 0, "service demand"},
		{"Inf time", "0 1 cash\nInf 1 card\n", 1, "arrival time"},
		{"NaN time", "NaN 1 cash\n", 0, "arrival time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.input)).ReadAll()
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.record, pe.Record)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestReaderHeaderErrors(t *testing.T) {
	for _, input := range []string{"", "0\n", "two\n", "2\n1.0\n", "1\n-1\n", "1\nNaN\n", "1\nInf\n"} {
		_, err := NewReader(strings.NewReader(input)).ReadHeader()
		var pe *ParseError
		require.ErrorAs(t, err, &pe, "input %q", input)
		assert.Equal(t, -1, pe.Record)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	records := []simulation.Arrival{
		{Time: 0, Demand: 5, Payment: simulation.Cash},
		{Time: 1.125, Demand: 10, Payment: simulation.Card},
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader([]float64{1, 0.75}))
	for _, a := range records {
		require.NoError(t, w.Write(a))
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Count())
	assert.Equal(t, "2\n1\n0.75\n0 5 cash\n1.125 10 card\n", buf.String())

	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	f, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0.75}, f.Efficiencies)
	assert.Equal(t, records, f.Arrivals)
}

func TestLoadFileWithoutHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1 cash\n"), 0644))
	f, err := LoadFile(path, false)
	require.NoError(t, err)
	assert.Nil(t, f.Efficiencies)
	assert.Len(t, f.Arrivals, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.txt"), false)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReaderAsSource(t *testing.T) {
	r := NewReader(strings.NewReader(sampleFeed))
	effs, err := r.ReadHeader()
	require.NoError(t, err)

	sim, err := simulation.NewSimulator(effs, simulation.DefaultOptions())
	require.NoError(t, err)
	res, err := sim.Run(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, 3, res.CustomersServed)
}
