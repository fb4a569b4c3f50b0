package ngrid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnaryArithmetic(t *testing.T) {
	setup(t)

	g := NewVector([]float32{-2, -1, 0, 1, 2})
	defer g.Destroy()

	neg := g.Neg()
	defer neg.Destroy()
	assert.Equal(t, []float32{2, 1, 0, -1, -2}, neg.Get())

	abs := g.Abs()
	defer abs.Destroy()
	assert.Equal(t, []float32{2, 1, 0, 1, 2}, abs.Get())
}

func TestAddScalarMutatesInPlace(t *testing.T) {
	setup(t)

	g := NewVector([]float32{1, 2, 3})
	defer g.Destroy()

	ret := g.AddScalar(10)
	assert.Same(t, g, ret)
	assert.Equal(t, []float32{11, 12, 13}, g.Get())
}

func TestSqrt(t *testing.T) {
	setup(t)

	g := NewVector([]float32{4, 9, 16})
	defer g.Destroy()
	r := g.Sqrt()
	defer r.Destroy()
	assert.Equal(t, []float32{2, 3, 4}, r.Get())
}

func TestSinDegrees(t *testing.T) {
	setup(t)

	g := NewVector([]float32{0, 90, 180})
	defer g.Destroy()
	r := g.Sin(Degrees)
	defer r.Destroy()

	got := r.Get()
	assert.InDelta(t, 0, got[0], 1e-5)
	assert.InDelta(t, 1, got[1], 1e-5)
	assert.InDelta(t, 0, got[2], 1e-5)
}

func TestSigmoid(t *testing.T) {
	setup(t)

	g := NewVector([]float32{0})
	defer g.Destroy()
	r := g.Sigmoid()
	defer r.Destroy()
	assert.InDelta(t, 0.5, r.Get()[0], 1e-6)
}

func TestReLU(t *testing.T) {
	setup(t)

	g := NewVector([]float32{-2, -1, 0, 1, 2})
	defer g.Destroy()
	r := g.ReLU(0)
	defer r.Destroy()
	assert.Equal(t, []float32{0, 0, 0, 1, 2}, r.Get())
}

func TestIdentity(t *testing.T) {
	setup(t)

	g := NewVector([]float32{-2, -1, 0, 1, 2})
	defer g.Destroy()
	r := g.Identity()
	defer r.Destroy()
	assert.Equal(t, g.Get(), r.Get())
}

func TestSigmoidDerivative(t *testing.T) {
	setup(t)

	g := NewVector([]float32{0})
	defer g.Destroy()
	r := g.SigmoidDerivative()
	defer r.Destroy()
	assert.InDelta(t, 0.25, r.Get()[0], 1e-6)
}

func TestReLUDerivative(t *testing.T) {
	setup(t)

	g := NewVector([]float32{-2, -1, 0, 1, 2})
	defer g.Destroy()
	r := g.ReLUDerivative(0.1)
	defer r.Destroy()
	assert.Equal(t, []float32{0.1, 0.1, 1, 1, 1}, r.Get())
}

func TestTanhDerivative(t *testing.T) {
	setup(t)

	g := NewVector([]float32{0})
	defer g.Destroy()
	r := g.TanhDerivative()
	defer r.Destroy()
	assert.InDelta(t, 1, r.Get()[0], 1e-6)
}

func TestELUDerivative(t *testing.T) {
	setup(t)

	g := NewVector([]float32{1, -1})
	defer g.Destroy()
	r := g.ELUDerivative(1)
	defer r.Destroy()
	got := r.Get()
	assert.InDelta(t, 1, got[0], 1e-6)
	assert.InDelta(t, math.Exp(-1), got[1], 1e-6)
}

func TestBinaryAddSameShape(t *testing.T) {
	setup(t)

	a := NewVector([]float32{1, 2, 3})
	defer a.Destroy()
	b := NewVector([]float32{10, 20, 30})
	defer b.Destroy()

	c := a.Add(b)
	defer c.Destroy()
	assert.Equal(t, []float32{11, 22, 33}, c.Get())
}

func TestBinaryBroadcastScalar(t *testing.T) {
	setup(t)

	a := New(2, 2)
	defer a.Destroy()
	a.FillIndex() // [0,1,2,3]

	scalar := NewVector([]float32{10})
	defer scalar.Destroy()

	c := a.Add(scalar)
	defer c.Destroy()
	assert.Equal(t, []float32{10, 11, 12, 13}, c.Get())
}

func TestFillZeroAndValue(t *testing.T) {
	setup(t)

	g := New(4)
	defer g.Destroy()
	g.FillZero()
	assert.Equal(t, []float32{0, 0, 0, 0}, g.Get())

	g.Fill(7)
	assert.Equal(t, []float32{7, 7, 7, 7}, g.Get())
}

func TestFillIdentity(t *testing.T) {
	setup(t)

	g := New(3, 3)
	defer g.Destroy()
	g.FillIdentity()
	assert.Equal(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, g.Get())
}

func TestFillRange(t *testing.T) {
	setup(t)

	g := New(4)
	defer g.Destroy()
	g.FillRange(1, 2)
	assert.Equal(t, []float32{1, 3, 5, 7}, g.Get())
}

func TestFillRandomUniformStaysInBounds(t *testing.T) {
	setup(t)

	g := New(64)
	defer g.Destroy()
	g.FillRandomUniform(-1, 1, 42)
	for _, v := range g.Get() {
		assert.False(t, math.IsNaN(float64(v)))
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}
}
