package ngrid

import (
	"encoding/binary"
	"math"

	"github.com/ngridml/ngrid/ctxt"
	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/kernels"
)

// reduceOp mirrors reduce_local.comp and reduce_global.comp's shared Op
// enum.
type reduceOp uint32

const (
	redSum reduceOp = iota
	redProduct
	redMin
	redMax
	redMaxAbs
	redVariance
	redSkew
	redKurtosis
)

const reduceLocalSize = 256

// reduceToScalar drives the two-stage (or more, for large N) reduction:
// repeated reduce_local passes fold the buffer down by a factor of
// reduceLocalSize per round until a single partial remains, and a final
// reduce_global pass writes that partial to the result, dividing it by
// divisor when finalize is 1. pass/mean select
// central-moment accumulation on the first round only; every later
// round just keeps combining under op, which reduce_local's combine
// already does correctly for sums of central moments (see the shared
// shader's default accumulation arm).
func (g *NGrid) reduceToScalar(op reduceOp, pass uint32, mean float32, divisor uint32, finalize uint32) float32 {
	cur := g.data
	owned := false
	n := g.Len()
	round := 0
	for {
		groups := ceilDiv(n, reduceLocalSize)
		partial, err := ctxt.GPU().NewBuffer(int64(groups)*elemSize, true, bufUsage)
		if err != nil {
			panicUsage("reduce: allocating partial buffer: %v", err)
		}

		p, m := uint32(0), float32(0)
		if round == 0 {
			p, m = pass, mean
		}
		push := newPush().u32(uint32(n)).u32(uint32(op)).f32(m).u32(p).bytes()
		key := pipelineKey{name: kernels.ReduceLocal, nbuf: 3, dims: [3]int{reduceLocalSize, 1, 1}, pushSize: len(push)}
		if err := dispatch(key, []driver.Buffer{cur, g.sbuf, partial}, push, n, 1, 1); err != nil {
			panicUsage("reduce: local pass: %v", err)
		}

		if owned {
			cur.Destroy()
		}
		cur, owned, n, round = partial, true, groups, round+1
		if groups == 1 {
			break
		}
	}

	result, err := ctxt.GPU().NewBuffer(elemSize, true, bufUsage)
	if err != nil {
		panicUsage("reduce: allocating result buffer: %v", err)
	}
	push := newPush().u32(1).u32(uint32(op)).u32(divisor).u32(finalize).bytes()
	key := pipelineKey{name: kernels.ReduceGlobal, nbuf: 2, dims: [3]int{reduceLocalSize, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{cur, result}, push, 1, 1, 1); err != nil {
		panicUsage("reduce: global pass: %v", err)
	}
	cur.Destroy()

	v := math.Float32frombits(binary.LittleEndian.Uint32(result.Bytes()))
	result.Destroy()
	return v
}

// Sum returns the sum of every element.
func (g *NGrid) Sum() float32 { return g.reduceToScalar(redSum, 0, 0, 1, 0) }

// Product returns the product of every element.
func (g *NGrid) Product() float32 { return g.reduceToScalar(redProduct, 0, 0, 1, 0) }

// Min returns the smallest element.
func (g *NGrid) Min() float32 { return g.reduceToScalar(redMin, 0, 0, 1, 0) }

// Max returns the largest element.
func (g *NGrid) Max() float32 { return g.reduceToScalar(redMax, 0, 0, 1, 0) }

// MaxAbs returns the largest absolute value among every element.
func (g *NGrid) MaxAbs() float32 { return g.reduceToScalar(redMaxAbs, 0, 0, 1, 0) }

// Mean returns the arithmetic mean of every element.
func (g *NGrid) Mean() float32 { return g.reduceToScalar(redSum, 0, 0, uint32(g.Len()), 1) }

// Variance returns the variance of every element. sample selects
// Bessel's correction (divide by N-1 instead of N).
func (g *NGrid) Variance(sample bool) float32 {
	n := uint32(g.Len())
	div := n
	if sample {
		if n < 2 {
			panicUsage("Variance: sample variance requires at least 2 elements")
		}
		div = n - 1
	}
	mean := g.Mean()
	return g.reduceToScalar(redVariance, 1, mean, div, 1)
}

// StdDev returns the standard deviation of every element.
func (g *NGrid) StdDev(sample bool) float32 {
	return float32(math.Sqrt(float64(g.Variance(sample))))
}

// Skewness returns the population skewness (third standardized
// moment) of every element.
func (g *NGrid) Skewness() float32 {
	n := uint32(g.Len())
	mean := g.Mean()
	m3 := g.reduceToScalar(redSkew, 1, mean, n, 1)
	sd := g.StdDev(false)
	if sd == 0 {
		return 0
	}
	return m3 / (sd * sd * sd)
}

// Kurtosis returns the excess kurtosis (fourth standardized moment,
// minus 3 so a normal distribution reads 0) of every element.
func (g *NGrid) Kurtosis() float32 {
	n := uint32(g.Len())
	mean := g.Mean()
	m4 := g.reduceToScalar(redKurtosis, 1, mean, n, 1)
	v := g.Variance(false)
	if v == 0 {
		return 0
	}
	return m4/(v*v) - 3
}

// Sort sorts a rank-1 grid in place, ascending, via odd-even
// transposition (brick sort): ceil(N/2) rounds, each an even-parity
// and an odd-parity pass dispatched separately. The 2*ceil(N/2) >= N
// passes in all are enough to fully sort N elements.
func (g *NGrid) Sort() *NGrid { return g.sort(false) }

// SortDescending sorts a rank-1 grid in place, descending. It uses the
// same brick-sort passes as Sort with the comparison flipped, so
// g.Sort().SortDescending() on an already-sorted grid yields the exact
// reverse of g.Sort()'s output.
func (g *NGrid) SortDescending() *NGrid { return g.sort(true) }

func (g *NGrid) sort(descending bool) *NGrid {
	if g.Rank() != 1 {
		panicUsage("Sort: only defined for rank-1 grids, got rank %d", g.Rank())
	}
	n := g.Len()
	desc := uint32(0)
	if descending {
		desc = 1
	}
	rounds := (n + 1) / 2
	for i := 0; i < rounds; i++ {
		for parity := uint32(0); parity < 2; parity++ {
			push := newPush().u32(uint32(n)).u32(parity).u32(desc).bytes()
			key := pipelineKey{name: kernels.Sort, nbuf: 1, dims: [3]int{reduceLocalSize, 1, 1}, pushSize: len(push)}
			if err := dispatch(key, []driver.Buffer{g.data}, push, (n+1)/2, 1, 1); err != nil {
				panicUsage("Sort: round %d, parity %d: %v", i, parity, err)
			}
		}
	}
	return g
}

// Median returns the median of a rank-1 grid. It sorts a copy, so the
// receiver is left unmodified.
func (g *NGrid) Median() float32 {
	if g.Rank() != 1 {
		panicUsage("Median: only defined for rank-1 grids, got rank %d", g.Rank())
	}
	sorted := g.Copy().Sort()
	defer sorted.Destroy()
	vals := sorted.Get()
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
