package opc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBounds(t *testing.T) {
	b, err := Bounds([]string{"0.3", "0.5", "1.0"}, 32)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3, 0.5, 1.0}, b.Lower)
	assert.Equal(t, []float64{0.5, 1.0, 32.0}, b.Upper)
}

func TestBoundsSingleChannel(t *testing.T) {
	// With one channel there is no "next column"; the cap still applies.
	b, err := Bounds([]string{"0.3"}, 32)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.3}, b.Lower)
	assert.Equal(t, []float64{32.0}, b.Upper)
}

func TestBoundsErrors(t *testing.T) {
	_, err := Bounds(nil, 32)
	assert.Error(t, err)
	_, err = Bounds([]string{"0.3", "small"}, 32)
	assert.Error(t, err)
	_, err = Bounds([]string{"0.5", "0.3"}, 32)
	assert.Error(t, err, "descending bounds must be rejected")
}

func TestConcentrationMatrix(t *testing.T) {
	g := DayGroup{Table: &Table{
		Bins: []string{"0.3", "0.5"},
		Rows: []Record{
			{Counts: []float64{1000, 250}},
			{Counts: []float64{500, math.NaN()}},
		},
	}}
	m := ConcentrationMatrix(g)
	assert.Equal(t, []int{2, 2}, m.Shape)
	// Per litre in, per cm3 out.
	assert.Equal(t, 1.0, m.Get(0, 0))
	assert.Equal(t, 0.25, m.Get(0, 1))
	assert.Equal(t, 0.5, m.Get(1, 0))
	assert.True(t, math.IsNaN(m.Get(1, 1)), "missing values must not become zero")

	// Scaling must not touch the source table.
	assert.Equal(t, 1000.0, g.Table.Rows[0].Counts[0])
}

func TestBoundMatrices(t *testing.T) {
	b := &ChannelBounds{Lower: []float64{0.3, 0.5}, Upper: []float64{0.5, 32}}
	lower, upper := BoundMatrices(b, 3)
	assert.Equal(t, []int{3, 2}, lower.Shape)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.3, lower.Get(i, 0))
		assert.Equal(t, 0.5, lower.Get(i, 1))
		assert.Equal(t, 0.5, upper.Get(i, 0))
		assert.Equal(t, 32.0, upper.Get(i, 1))
	}
}
