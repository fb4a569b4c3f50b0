package ngrid

import (
	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/kernels"
)

const maxRank = 10 // Matches every kernel's fixed-size uint idx[10]/shape[10] arrays (spec MAX_DIMENSIONS).

func checkRank(rank int) {
	if rank > maxRank {
		panicUsage("rank %d exceeds the maximum supported rank %d", rank, maxRank)
	}
}

// Reshape returns a new grid with newShape. If the new element count is
// less than or equal to the current one, the overlapping prefix is
// copied; otherwise every element is copied and the tail is zero-filled
// for determinism (§4.8 leaves this an open question; see DESIGN.md).
func (g *NGrid) Reshape(newShape ...int) *NGrid {
	shape := append([]int(nil), newShape...)
	checkRank(len(shape))
	out := newWithShape(shape)

	src := g.data.Bytes()
	dst := out.data.Bytes()
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	copy(dst, src[:n])
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return out
}

// Flatten returns a new grid with shape [N], N == g.Len().
func (g *NGrid) Flatten() *NGrid { return g.Reshape(g.Len()) }

// Subgrid returns a new grid of the given shape, where each element is
// either the corresponding element at offset+local_index in g, or
// defaultValue when that position falls outside g's bounds along any
// axis.
func (g *NGrid) Subgrid(offset []int, shape []int, defaultValue float32) *NGrid {
	rank := g.Rank()
	if len(offset) != rank || len(shape) != rank {
		panicUsage("Subgrid: offset and shape must match source rank %d", rank)
	}
	out := newWithShape(append([]int(nil), shape...))

	push := newPush().
		u32(uint32(out.Len())).
		u32(uint32(rank)).
		u32sPadded(offset, maxRank).
		f32(defaultValue).
		bytes()

	key := pipelineKey{name: kernels.Subgrid, nbuf: 4, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	err := dispatch(key, []driver.Buffer{g.data, g.sbuf, out.data, out.sbuf}, push, out.Len(), 1, 1)
	if err != nil {
		panicUsage("Subgrid: %v", err)
	}
	return out
}

// Transpose permutes axes according to targetAxisOrder: the result's
// axis targetAxisOrder[i] holds the source's axis i.
func (g *NGrid) Transpose(targetAxisOrder []int) *NGrid {
	rank := g.Rank()
	if len(targetAxisOrder) != rank {
		panicUsage("Transpose: targetAxisOrder must have length %d", rank)
	}
	resultShape := make([]int, rank)
	for i, a := range targetAxisOrder {
		resultShape[a] = g.shape[i]
	}
	out := newWithShape(resultShape)

	order32 := make([]int, rank)
	copy(order32, targetAxisOrder)
	push := newPush().
		u32(uint32(g.Len())).
		u32(uint32(rank)).
		u32sPadded(order32, maxRank).
		bytes()

	key := pipelineKey{name: kernels.Transpose, nbuf: 4, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	err := dispatch(key, []driver.Buffer{g.data, g.sbuf, out.data, out.sbuf}, push, g.Len(), 1, 1)
	if err != nil {
		panicUsage("Transpose: %v", err)
	}
	return out
}

// Concatenate joins g and other along axis; every other axis must
// match between the two grids.
func (g *NGrid) Concatenate(other *NGrid, axis int) *NGrid {
	rank := g.Rank()
	if other.Rank() != rank || axis < 0 || axis >= rank {
		panicUsage("Concatenate: rank/axis mismatch")
	}
	resultShape := append([]int(nil), g.shape...)
	resultShape[axis] += other.shape[axis]
	out := newWithShape(resultShape)

	push := newPush().
		u32(uint32(out.Len())).
		u32(uint32(rank)).
		u32(uint32(axis)).
		bytes()

	key := pipelineKey{name: kernels.Concat, nbuf: 6, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	buffers := []driver.Buffer{g.data, g.sbuf, other.data, other.sbuf, out.data, out.sbuf}
	if err := dispatch(key, buffers, push, out.Len(), 1, 1); err != nil {
		panicUsage("Concatenate: %v", err)
	}
	return out
}

// Padding expands every axis by amount on both sides, filling the new
// cells with initValue.
func (g *NGrid) Padding(amount int, initValue float32) *NGrid {
	resultShape := make([]int, g.Rank())
	for i, s := range g.shape {
		resultShape[i] = s + 2*amount
	}
	out := newWithShape(resultShape)

	push := newPush().
		u32(uint32(out.Len())).
		u32(uint32(g.Rank())).
		u32(uint32(amount)).
		f32(initValue).
		bytes()

	key := pipelineKey{name: kernels.Pad, nbuf: 4, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{g.data, g.sbuf, out.data, out.sbuf}, push, out.Len(), 1, 1); err != nil {
		panicUsage("Padding: %v", err)
	}
	return out
}

// Mirror flips indices along every axis named in axes:
// mirrored[i] = size[i] - 1 - source[i].
func (g *NGrid) Mirror(axes []int) *NGrid {
	rank := g.Rank()
	var mask uint32
	for _, a := range axes {
		if a < 0 || a >= rank {
			panicUsage("Mirror: axis %d out of range for rank %d", a, rank)
		}
		mask |= 1 << uint(a)
	}
	out := newWithShape(append([]int(nil), g.shape...))

	push := newPush().
		u32(uint32(g.Len())).
		u32(uint32(rank)).
		u32(mask).
		bytes()

	key := pipelineKey{name: kernels.Mirror, nbuf: 3, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{g.data, g.sbuf, out.data}, push, g.Len(), 1, 1); err != nil {
		panicUsage("Mirror: %v", err)
	}
	return out
}
