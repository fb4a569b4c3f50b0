// Package ngrid implements an n-dimensional tensor value type whose
// every operation executes on the GPU as a dispatch of a precompiled
// compute kernel from the kernels package, coordinated through the
// shared driver context in ctxt.
package ngrid

import (
	"encoding/binary"
	"math"

	"github.com/ngridml/ngrid/ctxt"
	"github.com/ngridml/ngrid/driver"
)

// NGrid is an n-dimensional grid of 32-bit floats resident on the GPU.
// It owns a data buffer (elements in row-major order) and a companion
// shape buffer (one uint32 per axis) so that compute kernels can read
// the shape without a push-constant round trip for every axis.
//
// The zero value is not usable; NGrid values are created through one
// of the New* constructors. An NGrid must not be used after Destroy.
type NGrid struct {
	shape []int
	data  driver.Buffer
	sbuf  driver.Buffer
}

// bufUsage is shared by every NGrid's data and shape buffers: they
// must be writable by shaders (every kernel family both reads and, in
// the case of in-place ops like sort, writes its data buffer) and
// host-visible so construction, Get and Copy can touch Bytes()
// directly without a staging round trip. This trades a small amount
// of device-local bandwidth for a much simpler dispatch path, which
// is an acceptable scoping simplification for a reference engine (see
// DESIGN.md).
const bufUsage = driver.UShaderRead | driver.UShaderWrite

// elemSize is the byte size of one NGrid element (float32).
const elemSize = 4

func elemCount(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

func newShapeBuf(shape []int) (driver.Buffer, error) {
	buf, err := ctxt.GPU().NewBuffer(int64(len(shape))*elemSize, true, driver.UShaderRead)
	if err != nil {
		return nil, err
	}
	b := buf.Bytes()
	for i, s := range shape {
		binary.LittleEndian.PutUint32(b[i*elemSize:], uint32(s))
	}
	return buf, nil
}

// New creates a grid with the given shape, its elements undefined.
// Shape must have at least one axis, and every axis must be positive.
func New(shape ...int) *NGrid {
	return newWithShape(append([]int(nil), shape...))
}

// NewVector creates a rank-1 grid from a host slice.
func NewVector(host []float32) *NGrid {
	g := newWithShape([]int{len(host)})
	g.writeHost(host)
	return g
}

// NewVectorFrom creates a rank-1 grid of n elements, reading from src.
// If len(src) < n, the tail is left as whatever the device allocated
// (typically zero) and ErrClipped-worthy behavior is the caller's
// responsibility to check via len(src); this constructor never
// returns an error, matching the bulk-I/O "clip, don't fail" policy
// for recoverable conditions.
func NewVectorFrom(src []float32, n int) *NGrid {
	g := newWithShape([]int{n})
	if len(src) > n {
		src = src[:n]
	}
	g.writeHost(src)
	return g
}

func newWithShape(shape []int) *NGrid {
	if len(shape) == 0 {
		panicUsage("shape must have at least one axis")
	}
	checkRank(len(shape))
	n := elemCount(shape)
	for _, s := range shape {
		if s <= 0 {
			panicUsage("shape axis must be positive, got %v", shape)
		}
	}
	data, err := ctxt.GPU().NewBuffer(int64(n)*elemSize, true, bufUsage)
	if err != nil {
		panicUsage("allocating data buffer: %v", err)
	}
	sbuf, err := newShapeBuf(shape)
	if err != nil {
		data.Destroy()
		panicUsage("allocating shape buffer: %v", err)
	}
	return &NGrid{shape: shape, data: data, sbuf: sbuf}
}

func (g *NGrid) writeHost(host []float32) {
	b := g.data.Bytes()
	for i, v := range host {
		binary.LittleEndian.PutUint32(b[i*elemSize:], math.Float32bits(v))
	}
}

// Shape returns the grid's shape. The returned slice must not be
// modified; callers that need to mutate it should copy it first.
func (g *NGrid) Shape() []int { return g.shape }

// Rank returns the number of axes in the grid's shape.
func (g *NGrid) Rank() int { return len(g.shape) }

// Len returns the total number of elements in the grid.
func (g *NGrid) Len() int { return elemCount(g.shape) }

// Get reads the grid's elements back to a host slice straight from the
// host-visible data buffer. It does not wait on the GPU itself: every
// operation waits for its dispatch's Commit to finish before returning,
// and the buffer is host-coherent, so no additional fence wait is
// required.
func (g *NGrid) Get() []float32 {
	b := g.data.Bytes()
	n := g.Len()
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*elemSize:]))
	}
	return out
}

// Copy allocates a new grid with the same shape as g and the same
// element count, then performs a host-side copy of the underlying
// byte buffers. It does not schedule a device-to-device copy, since
// NGrid's buffers are host-visible (see bufUsage) and host copies are
// both simpler and synchronous, unlike a device copy which would need
// a command buffer and a Commit round trip.
func (g *NGrid) Copy() *NGrid {
	out := newWithShape(append([]int(nil), g.shape...))
	copy(out.data.Bytes(), g.data.Bytes())
	return out
}

// Move transfers g's buffers to a new NGrid value and empties g. After
// Move, g must not be used again except to be discarded; calling
// Destroy on it is a no-op.
func (g *NGrid) Move() *NGrid {
	out := &NGrid{shape: g.shape, data: g.data, sbuf: g.sbuf}
	*g = NGrid{}
	return out
}

// Destroy releases the grid's GPU buffers. It is a no-op on an
// already-destroyed or moved-from grid.
func (g *NGrid) Destroy() {
	if g == nil || g.data == nil {
		return
	}
	g.data.Destroy()
	g.sbuf.Destroy()
	*g = NGrid{}
}
