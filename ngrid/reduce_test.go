package ngrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSumProductMinMax(t *testing.T) {
	setup(t)

	g := NewVector([]float32{1, 2, 3, 4})
	defer g.Destroy()

	assert.Equal(t, float32(10), g.Sum())
	assert.Equal(t, float32(24), g.Product())
	assert.Equal(t, float32(1), g.Min())
	assert.Equal(t, float32(4), g.Max())
}

func TestMaxAbs(t *testing.T) {
	setup(t)

	g := NewVector([]float32{-5, 1, 3})
	defer g.Destroy()
	assert.Equal(t, float32(5), g.MaxAbs())
}

func TestMeanVariance(t *testing.T) {
	setup(t)

	g := NewVector([]float32{2, 4, 4, 4, 5, 5, 7, 9})
	defer g.Destroy()

	assert.InDelta(t, 5, g.Mean(), 1e-5)
	assert.InDelta(t, 4, g.Variance(false), 1e-4)
}

func TestSumAcrossMultipleRounds(t *testing.T) {
	setup(t)

	n := reduceLocalSize*3 + 17
	g := New(n)
	defer g.Destroy()
	g.Fill(1)
	assert.InDelta(t, float32(n), g.Sum(), 1e-2)
}

func TestSortAscending(t *testing.T) {
	setup(t)

	g := NewVector([]float32{5, 3, 1, 4, 2})
	defer g.Destroy()
	g.Sort()
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, g.Get())
}

func TestSortDescending(t *testing.T) {
	setup(t)

	g := NewVector([]float32{1, 2, 3, 4, 5})
	defer g.Destroy()
	g.SortDescending()
	assert.Equal(t, []float32{5, 4, 3, 2, 1}, g.Get())
}

func TestSortAscendingThenDescendingIsReversed(t *testing.T) {
	setup(t)

	g := NewVector([]float32{5, 3, 1, 4, 2})
	defer g.Destroy()
	asc := g.Copy().Sort()
	defer asc.Destroy()
	desc := g.Copy().SortDescending()
	defer desc.Destroy()

	ascVals := asc.Get()
	reversed := make([]float32, len(ascVals))
	for i, v := range ascVals {
		reversed[len(ascVals)-1-i] = v
	}
	assert.Equal(t, reversed, desc.Get())
}

func TestMedianOdd(t *testing.T) {
	setup(t)

	g := NewVector([]float32{5, 1, 3})
	defer g.Destroy()
	assert.Equal(t, float32(3), g.Median())
	// Receiver must be left unsorted.
	assert.Equal(t, []float32{5, 1, 3}, g.Get())
}

func TestMedianEven(t *testing.T) {
	setup(t)

	g := NewVector([]float32{4, 1, 3, 2})
	defer g.Destroy()
	assert.Equal(t, float32(2.5), g.Median())
}
