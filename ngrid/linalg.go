package ngrid

import (
	"github.com/ngridml/ngrid/ctxt"
	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/kernels"
)

// luPivotLocalSize matches the workgroup size lu_pivot_local.comp and
// lu_pivot_merge.comp are dispatched with.
const luPivotLocalSize = 256

// candidateSize is the byte size of the Candidate{row, absVal} struct
// lu_pivot_local.comp/lu_pivot_merge.comp produce, which is
// byte-compatible with the Winner{row, absVal} struct lu_swap.comp and
// lu_lcol.comp read.
const candidateSize = 8

// argmaxPivot finds the row in [k, n) of u (an n x n matrix) with the
// largest |u[row, k]|, returning a single-entry device buffer laid out
// as Winner{row uint32, absVal float32}. It mirrors reduceToScalar's
// two-stage fold: a first pass of lu_pivot_local folds candidates down
// by a factor of luPivotLocalSize per round, and lu_pivot_merge keeps
// folding until one entry remains. This replaces an earlier
// atomic-exchange pivot search that could race two invocations reading
// a stale winner and settle on a non-maximal row; see DESIGN.md.
func argmaxPivot(u *NGrid, n, k int) (driver.Buffer, error) {
	count := n - k
	groups := ceilDiv(count, luPivotLocalSize)
	cur, err := ctxt.GPU().NewBuffer(int64(groups)*candidateSize, true, bufUsage)
	if err != nil {
		return nil, err
	}

	push := newPush().u32(uint32(n)).u32(uint32(k)).bytes()
	key := pipelineKey{name: kernels.LUPivotLocal, nbuf: 2, dims: [3]int{luPivotLocalSize, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{u.data, cur}, push, count, 1, 1); err != nil {
		cur.Destroy()
		return nil, err
	}

	for groups > 1 {
		nextGroups := ceilDiv(groups, luPivotLocalSize)
		next, err := ctxt.GPU().NewBuffer(int64(nextGroups)*candidateSize, true, bufUsage)
		if err != nil {
			cur.Destroy()
			return nil, err
		}
		mergePush := newPush().u32(uint32(groups)).bytes()
		mergeKey := pipelineKey{name: kernels.LUPivotMerge, nbuf: 2, dims: [3]int{luPivotLocalSize, 1, 1}, pushSize: len(mergePush)}
		if err := dispatch(mergeKey, []driver.Buffer{cur, next}, mergePush, groups, 1, 1); err != nil {
			cur.Destroy()
			next.Destroy()
			return nil, err
		}
		cur.Destroy()
		cur, groups = next, nextGroups
	}
	return cur, nil
}

// MatMul computes the matrix product of two rank-2 grids.
func (g *NGrid) MatMul(other *NGrid) *NGrid {
	if g.Rank() != 2 || other.Rank() != 2 {
		panicUsage("MatMul: both operands must be rank-2, got %d and %d", g.Rank(), other.Rank())
	}
	rows, inner := g.shape[0], g.shape[1]
	inner2, cols := other.shape[0], other.shape[1]
	if inner != inner2 {
		panicUsage("MatMul: inner dimensions mismatch (%d != %d)", inner, inner2)
	}
	out := newWithShape([]int{rows, cols})

	push := newPush().u32(uint32(rows)).u32(uint32(cols)).u32(uint32(inner)).bytes()
	key := pipelineKey{name: kernels.MatMul, nbuf: 5, dims: [3]int{16, 16, 1}, pushSize: len(push)}
	buffers := []driver.Buffer{g.data, g.sbuf, other.data, other.sbuf, out.data}
	if err := dispatch(key, buffers, push, cols, rows, 1); err != nil {
		panicUsage("MatMul: %v", err)
	}
	return out
}

// HadamardProduct is the element-wise product; an alias of Mul kept
// for readers coming from linear-algebra naming.
func (g *NGrid) HadamardProduct(other *NGrid) *NGrid { return g.Mul(other) }

// HadamardDivision is the element-wise quotient; an alias of Div.
func (g *NGrid) HadamardDivision(other *NGrid) *NGrid { return g.Div(other) }

// Convolve computes an arbitrary-rank cross-correlation of g with
// kernel, using stride and padding per axis. Positions that fall
// outside g once padding is applied contribute paddingValue.
func (g *NGrid) Convolve(kernel *NGrid, stride, padding []int, paddingValue float32) *NGrid {
	rank := g.Rank()
	if kernel.Rank() != rank || len(stride) != rank || len(padding) != rank {
		panicUsage("Convolve: kernel rank and stride/padding lengths must match receiver's rank %d", rank)
	}
	resultShape := make([]int, rank)
	for a := 0; a < rank; a++ {
		resultShape[a] = (g.shape[a]+2*padding[a]-kernel.shape[a])/stride[a] + 1
		if resultShape[a] <= 0 {
			panicUsage("Convolve: axis %d produces a non-positive result dimension", a)
		}
	}
	out := newWithShape(resultShape)

	push := newPush().
		u32(uint32(out.Len())).
		u32(uint32(rank)).
		u32sPadded(stride, maxRank).
		u32sPadded(padding, maxRank).
		f32(paddingValue).
		bytes()

	key := pipelineKey{name: kernels.Convolution, nbuf: 6, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	buffers := []driver.Buffer{g.data, g.sbuf, kernel.data, kernel.sbuf, out.data, out.sbuf}
	if err := dispatch(key, buffers, push, out.Len(), 1, 1); err != nil {
		panicUsage("Convolve: %v", err)
	}
	return out
}

const (
	poolMax  uint32 = 0
	poolMean uint32 = 1
)

func (g *NGrid) pool(mode uint32, window, stride []int) *NGrid {
	rank := g.Rank()
	if len(window) != rank || len(stride) != rank {
		panicUsage("pool: window/stride lengths must match receiver's rank %d", rank)
	}
	resultShape := make([]int, rank)
	for a := 0; a < rank; a++ {
		resultShape[a] = (g.shape[a]-window[a])/stride[a] + 1
		if resultShape[a] <= 0 {
			panicUsage("pool: axis %d produces a non-positive result dimension", a)
		}
	}
	out := newWithShape(resultShape)

	push := newPush().
		u32(uint32(out.Len())).
		u32(uint32(rank)).
		u32sPadded(window, maxRank).
		u32sPadded(stride, maxRank).
		u32(mode).
		bytes()

	key := pipelineKey{name: kernels.Pool, nbuf: 4, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	buffers := []driver.Buffer{g.data, g.sbuf, out.data, out.sbuf}
	if err := dispatch(key, buffers, push, out.Len(), 1, 1); err != nil {
		panicUsage("pool: %v", err)
	}
	return out
}

// MaxPool returns the maximum over each sliding window.
func (g *NGrid) MaxPool(window, stride []int) *NGrid { return g.pool(poolMax, window, stride) }

// MeanPool returns the average over each sliding window.
func (g *NGrid) MeanPool(window, stride []int) *NGrid { return g.pool(poolMean, window, stride) }

// LUDecomp performs LU decomposition with partial pivoting of a square
// matrix: PA = LU. It returns the permutation, lower and upper factors
// as new grids, leaving the receiver untouched. Callers can verify the
// result via P^T L U ≈ A. Every phase is its own blocking dispatch, so
// host-side sequencing already enforces the completion barrier each
// phase's shader comment calls for; no explicit driver-level barrier
// is needed (see DESIGN.md).
func (g *NGrid) LUDecomp() (p, l, u *NGrid, err error) {
	if g.Rank() != 2 || g.shape[0] != g.shape[1] {
		return nil, nil, nil, ErrNotSquare
	}
	p, l, u = g.lu()
	return p, l, u, nil
}

// lu is the unchecked core of LUDecomp; callers must have already
// verified the receiver is square.
func (g *NGrid) lu() (p, l, u *NGrid) {
	n := g.shape[0]
	p = New(n, n).FillIdentity()
	l = New(n, n).FillIdentity()
	u = g.Copy()

	for k := 0; k < n; k++ {
		winner, err := argmaxPivot(u, n, k)
		if err != nil {
			panicUsage("lu: pivot search at column %d: %v", k, err)
		}

		swapPush := newPush().u32(uint32(n)).u32(uint32(k)).bytes()
		swapKey := pipelineKey{name: kernels.LUSwap, nbuf: 4, dims: [3]int{64, 1, 1}, pushSize: len(swapPush)}
		swapBuffers := []driver.Buffer{p.data, u.data, l.data, winner}
		if err := dispatch(swapKey, swapBuffers, swapPush, n, 1, 1); err != nil {
			panicUsage("lu: row swap at column %d: %v", k, err)
		}
		winner.Destroy()

		if k == n-1 {
			break
		}

		lcolPush := newPush().u32(uint32(n)).u32(uint32(k)).bytes()
		lcolKey := pipelineKey{name: kernels.LULCol, nbuf: 2, dims: [3]int{64, 1, 1}, pushSize: len(lcolPush)}
		if err := dispatch(lcolKey, []driver.Buffer{u.data, l.data}, lcolPush, n-k-1, 1, 1); err != nil {
			panicUsage("lu: L column at column %d: %v", k, err)
		}

		trailPush := newPush().u32(uint32(n)).u32(uint32(k)).bytes()
		trailKey := pipelineKey{name: kernels.LUTrail, nbuf: 2, dims: [3]int{16, 16, 1}, pushSize: len(trailPush)}
		if err := dispatch(trailKey, []driver.Buffer{l.data, u.data}, trailPush, n-k, n-k-1, 1); err != nil {
			panicUsage("lu: trailing update at column %d: %v", k, err)
		}
	}
	return p, l, u
}

// InverseLower inverts a lower-triangular square matrix via
// thread-local forward substitution, one column per invocation.
func (g *NGrid) InverseLower() *NGrid {
	return g.triInverse(kernels.TriInverseLower)
}

// InverseUpper inverts an upper-triangular square matrix via
// thread-local backward substitution, one column per invocation.
func (g *NGrid) InverseUpper() *NGrid {
	return g.triInverse(kernels.TriInverseUpper)
}

func (g *NGrid) triInverse(name kernels.Name) *NGrid {
	if g.Rank() != 2 || g.shape[0] != g.shape[1] {
		panicUsage("triangular inverse: matrix must be square")
	}
	n := g.shape[0]
	inv := New(n, n)
	push := newPush().u32(uint32(n)).bytes()
	key := pipelineKey{name: name, nbuf: 2, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{g.data, inv.data}, push, n, 1, 1); err != nil {
		panicUsage("triangular inverse: %v", err)
	}
	return inv
}

// Inverse computes the matrix inverse via LU decomposition with
// partial pivoting: A^-1 = U^-1 L^-1 P.
func (g *NGrid) Inverse() (*NGrid, error) {
	p, l, u, err := g.LUDecomp()
	if err != nil {
		return nil, err
	}
	defer p.Destroy()
	defer l.Destroy()
	defer u.Destroy()

	linv := l.InverseLower()
	defer linv.Destroy()
	uinv := u.InverseUpper()
	defer uinv.Destroy()

	tmp := uinv.MatMul(linv)
	defer tmp.Destroy()
	return tmp.MatMul(p), nil
}

// PseudoInverse computes the Moore-Penrose pseudo-inverse of a
// non-square matrix. Left declared but unimplemented; see DESIGN.md's
// Open Questions.
func (g *NGrid) PseudoInverse() (*NGrid, error) {
	return nil, ErrPseudoInverseUnsupported
}
