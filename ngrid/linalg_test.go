package ngrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatMulIdentity(t *testing.T) {
	setup(t)

	a := New(2, 2)
	defer a.Destroy()
	a.FillIndex() // [[0,1],[2,3]]

	id := New(2, 2)
	defer id.Destroy()
	id.FillIdentity()

	c := a.MatMul(id)
	defer c.Destroy()
	assert.Equal(t, []float32{0, 1, 2, 3}, c.Get())
}

func TestMatMulRectangular(t *testing.T) {
	setup(t)

	a := New(2, 3)
	defer a.Destroy()
	a.FillIndex() // [[0,1,2],[3,4,5]]

	b := New(3, 2)
	defer b.Destroy()
	b.FillIndex() // [[0,1],[2,3],[4,5]]

	c := a.MatMul(b)
	defer c.Destroy()
	// row0: [0*0+1*2+2*4, 0*1+1*3+2*5] = [10, 13]
	// row1: [3*0+4*2+5*4, 3*1+4*3+5*5] = [28, 40]
	assert.Equal(t, []int{2, 2}, c.Shape())
	assert.Equal(t, []float32{10, 13, 28, 40}, c.Get())
}

func TestMaxPool(t *testing.T) {
	setup(t)

	g := New(4, 4)
	defer g.Destroy()
	g.FillIndex()

	p := g.MaxPool([]int{2, 2}, []int{2, 2})
	defer p.Destroy()
	assert.Equal(t, []int{2, 2}, p.Shape())
	// Top-left 2x2 window of [[0,1,2,3],[4,5,6,7],...] is [0,1,4,5] -> max 5.
	assert.Equal(t, []float32{5, 7, 13, 15}, p.Get())
}

func TestInverseOfIdentityIsIdentity(t *testing.T) {
	setup(t)

	id := New(3, 3)
	defer id.Destroy()
	id.FillIdentity()

	inv, err := id.Inverse()
	require.NoError(t, err)
	defer inv.Destroy()
	assert.InDeltaSlice(t, []float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, inv.Get(), 1e-5)
}

func TestInverseRejectsNonSquare(t *testing.T) {
	setup(t)

	g := New(2, 3)
	defer g.Destroy()
	_, err := g.Inverse()
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestLUDecompReconstructsOriginal(t *testing.T) {
	setup(t)

	a := NewVector([]float32{
		2, 1, 1,
		4, 3, 3,
		8, 7, 9,
	}).Reshape(3, 3)
	defer a.Destroy()

	p, l, u, err := a.LUDecomp()
	require.NoError(t, err)
	defer p.Destroy()
	defer l.Destroy()
	defer u.Destroy()

	pt := p.Transpose([]int{1, 0})
	defer pt.Destroy()
	lu := l.MatMul(u)
	defer lu.Destroy()
	reconstructed := pt.MatMul(lu)
	defer reconstructed.Destroy()

	assert.InDeltaSlice(t, a.Get(), reconstructed.Get(), 1e-4)
}

func TestLUDecompRejectsNonSquare(t *testing.T) {
	setup(t)

	g := New(2, 3)
	defer g.Destroy()
	_, _, _, err := g.LUDecomp()
	assert.ErrorIs(t, err, ErrNotSquare)
}

func TestPseudoInverseUnimplemented(t *testing.T) {
	setup(t)

	g := New(2, 3)
	defer g.Destroy()
	_, err := g.PseudoInverse()
	assert.ErrorIs(t, err, ErrPseudoInverseUnsupported)
}
