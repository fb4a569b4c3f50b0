package ngrid

import (
	"math"

	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/kernels"
)

// unaryOp mirrors elementwise_unary.comp's Op enum.
type unaryOp uint32

const (
	opNeg unaryOp = iota
	opAbs
	opSign
	opSqrt
	opExp
	opLog
	opRound
	opFloor
	opCeil
	opPow
	opSin
	opCos
	opTan
	opAsin
	opAcos
	opAtan
	opSinh
	opCosh
	opTanhTrig
	opAsinh
	opAcosh
	opAtanh
	opSigmoid
	opRelu
	opLeakyRelu
	opTanh
	opElu
	opLeakyElu
	opNot
	opAddScalar
	opSubScalar
	opMulScalar
	opDivScalar
	opModScalar
	opIncr
	opDecr
	opIdentity
	opIdentityDerivative
	opSigmoidDerivative
	opReluDerivative
	opLeakyReluDerivative
	opTanhDerivative
	opEluDerivative
	opLeakyEluDerivative
)

// AngleUnit selects the unit trigonometric operations read and return
// angles in, mirroring elementwise_unary.comp's Unit enum.
type AngleUnit uint32

const (
	Radians AngleUnit = iota
	Degrees
	Hours12
	Hours24
	Gradians
	Percent
	NormalCircle
)

func (g *NGrid) unary(op unaryOp, unit AngleUnit, param float32, inPlace bool) *NGrid {
	out := g
	if !inPlace {
		out = newWithShape(append([]int(nil), g.shape...))
	}
	push := newPush().
		u32(uint32(g.Len())).
		u32(uint32(g.Rank())).
		u32(uint32(op)).
		u32(uint32(unit)).
		f32(param).
		bytes()
	key := pipelineKey{name: kernels.ElementwiseUnary, nbuf: 3, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{g.data, g.sbuf, out.data}, push, g.Len(), 1, 1); err != nil {
		panicUsage("unary op %d: %v", op, err)
	}
	return out
}

// Neg, Abs, Sign, Sqrt, Exp, Round, Floor, Ceil and Not return a new
// grid; they never mutate the receiver.
func (g *NGrid) Neg() *NGrid   { return g.unary(opNeg, Radians, 0, false) }
func (g *NGrid) Abs() *NGrid   { return g.unary(opAbs, Radians, 0, false) }
func (g *NGrid) Sign() *NGrid  { return g.unary(opSign, Radians, 0, false) }
func (g *NGrid) Sqrt() *NGrid  { return g.unary(opSqrt, Radians, 0, false) }
func (g *NGrid) Exp() *NGrid   { return g.unary(opExp, Radians, 0, false) }
func (g *NGrid) Round() *NGrid { return g.unary(opRound, Radians, 0, false) }
func (g *NGrid) Floor() *NGrid { return g.unary(opFloor, Radians, 0, false) }
func (g *NGrid) Ceil() *NGrid  { return g.unary(opCeil, Radians, 0, false) }
func (g *NGrid) Not() *NGrid   { return g.unary(opNot, Radians, 0, false) }

// Log returns log_base(g).
func (g *NGrid) Log(base float32) *NGrid { return g.unary(opLog, Radians, base, false) }

// Pow returns g raised to exponent, element-wise.
func (g *NGrid) Pow(exponent float32) *NGrid { return g.unary(opPow, Radians, exponent, false) }

// Trigonometric family, each tagged with the angle unit of its input
// (forward functions) or output (arc functions), except Tanh: it takes
// no unit and applies the tanh activation to the raw value.
func (g *NGrid) Sin(u AngleUnit) *NGrid   { return g.unary(opSin, u, 0, false) }
func (g *NGrid) Cos(u AngleUnit) *NGrid   { return g.unary(opCos, u, 0, false) }
func (g *NGrid) Tan(u AngleUnit) *NGrid   { return g.unary(opTan, u, 0, false) }
func (g *NGrid) Asin(u AngleUnit) *NGrid  { return g.unary(opAsin, u, 0, false) }
func (g *NGrid) Acos(u AngleUnit) *NGrid  { return g.unary(opAcos, u, 0, false) }
func (g *NGrid) Atan(u AngleUnit) *NGrid  { return g.unary(opAtan, u, 0, false) }
func (g *NGrid) Sinh(u AngleUnit) *NGrid  { return g.unary(opSinh, u, 0, false) }
func (g *NGrid) Cosh(u AngleUnit) *NGrid  { return g.unary(opCosh, u, 0, false) }
func (g *NGrid) Tanh() *NGrid             { return g.unary(opTanh, Radians, 0, false) }
func (g *NGrid) Asinh(u AngleUnit) *NGrid { return g.unary(opAsinh, u, 0, false) }
func (g *NGrid) Acosh(u AngleUnit) *NGrid { return g.unary(opAcosh, u, 0, false) }
func (g *NGrid) Atanh(u AngleUnit) *NGrid { return g.unary(opAtanh, u, 0, false) }

// Activation catalog.
func (g *NGrid) Identity() *NGrid               { return g.unary(opIdentity, Radians, 0, false) }
func (g *NGrid) Sigmoid() *NGrid                { return g.unary(opSigmoid, Radians, 0, false) }
func (g *NGrid) ReLU(alpha float32) *NGrid      { return g.unary(opRelu, Radians, alpha, false) }
func (g *NGrid) LeakyReLU(alpha float32) *NGrid { return g.unary(opLeakyRelu, Radians, alpha, false) }
func (g *NGrid) ELU(alpha float32) *NGrid       { return g.unary(opElu, Radians, alpha, false) }
func (g *NGrid) LeakyELU(alpha float32) *NGrid  { return g.unary(opLeakyElu, Radians, alpha, false) }

// Activation derivatives, each taking the pre-activation input g and
// returning the function's derivative evaluated at g (not the chain
// rule applied to an upstream gradient, which callers compose via Mul).
func (g *NGrid) IdentityDerivative() *NGrid { return g.unary(opIdentityDerivative, Radians, 0, false) }
func (g *NGrid) SigmoidDerivative() *NGrid  { return g.unary(opSigmoidDerivative, Radians, 0, false) }
func (g *NGrid) ReLUDerivative(alpha float32) *NGrid {
	return g.unary(opReluDerivative, Radians, alpha, false)
}
func (g *NGrid) LeakyReLUDerivative(alpha float32) *NGrid {
	return g.unary(opLeakyReluDerivative, Radians, alpha, false)
}
func (g *NGrid) TanhDerivative() *NGrid { return g.unary(opTanhDerivative, Radians, 0, false) }
func (g *NGrid) ELUDerivative(alpha float32) *NGrid {
	return g.unary(opEluDerivative, Radians, alpha, false)
}
func (g *NGrid) LeakyELUDerivative(alpha float32) *NGrid {
	return g.unary(opLeakyEluDerivative, Radians, alpha, false)
}

// Scalar arithmetic, mutating the receiver in place (this matches the
// specification's "+`, `−`, `*` scalar/elementwise; `/` by scalar;
// `++`/`--`" entries being in-place accumulation operators).
func (g *NGrid) AddScalar(v float32) *NGrid { return g.unary(opAddScalar, Radians, v, true) }
func (g *NGrid) SubScalar(v float32) *NGrid { return g.unary(opSubScalar, Radians, v, true) }
func (g *NGrid) MulScalar(v float32) *NGrid { return g.unary(opMulScalar, Radians, v, true) }
func (g *NGrid) DivScalar(v float32) *NGrid { return g.unary(opDivScalar, Radians, v, true) }
func (g *NGrid) ModScalar(v float32) *NGrid { return g.unary(opModScalar, Radians, v, true) }
func (g *NGrid) Increment() *NGrid          { return g.unary(opIncr, Radians, 0, true) }
func (g *NGrid) Decrement() *NGrid          { return g.unary(opDecr, Radians, 0, true) }

// binaryOp mirrors elementwise_binary.comp's Op enum.
type binaryOp uint32

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opMod
	opMin
	opMax
	opGt
	opLt
	opEq
	opNe
	opGe
	opLe
	opAnd
	opOr
)

// binary dispatches elementwise_binary.comp. When other has fewer axes
// than g, its flat index is computed by taking g's multi-index modulo
// other's shape along each of other's axes (broadcasting with wrap
// semantics), per §4.9.
func (g *NGrid) binary(other *NGrid, op binaryOp) *NGrid {
	if other.Rank() > g.Rank() {
		panicUsage("binary op: other's rank %d exceeds receiver's rank %d", other.Rank(), g.Rank())
	}
	out := newWithShape(append([]int(nil), g.shape...))
	push := newPush().
		u32(uint32(g.Len())).
		u32(uint32(g.Rank())).
		u32(uint32(other.Rank())).
		u32(uint32(op)).
		bytes()
	key := pipelineKey{name: kernels.ElementwiseBinary, nbuf: 5, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	buffers := []driver.Buffer{g.data, g.sbuf, other.data, other.sbuf, out.data}
	if err := dispatch(key, buffers, push, g.Len(), 1, 1); err != nil {
		panicUsage("binary op %d: %v", op, err)
	}
	return out
}

func (g *NGrid) Add(other *NGrid) *NGrid     { return g.binary(other, opAdd) }
func (g *NGrid) Sub(other *NGrid) *NGrid     { return g.binary(other, opSub) }
func (g *NGrid) Mul(other *NGrid) *NGrid     { return g.binary(other, opMul) }
func (g *NGrid) Div(other *NGrid) *NGrid     { return g.binary(other, opDiv) }
func (g *NGrid) Mod(other *NGrid) *NGrid     { return g.binary(other, opMod) }
func (g *NGrid) Minimum(other *NGrid) *NGrid { return g.binary(other, opMin) }
func (g *NGrid) Maximum(other *NGrid) *NGrid { return g.binary(other, opMax) }
func (g *NGrid) Gt(other *NGrid) *NGrid      { return g.binary(other, opGt) }
func (g *NGrid) Lt(other *NGrid) *NGrid      { return g.binary(other, opLt) }
func (g *NGrid) Eq(other *NGrid) *NGrid      { return g.binary(other, opEq) }
func (g *NGrid) Ne(other *NGrid) *NGrid      { return g.binary(other, opNe) }
func (g *NGrid) Ge(other *NGrid) *NGrid      { return g.binary(other, opGe) }
func (g *NGrid) Le(other *NGrid) *NGrid      { return g.binary(other, opLe) }
func (g *NGrid) And(other *NGrid) *NGrid     { return g.binary(other, opAnd) }
func (g *NGrid) Or(other *NGrid) *NGrid      { return g.binary(other, opOr) }

// fillMode mirrors fill.comp's Mode enum.
type fillMode uint32

const (
	fillZero fillMode = iota
	fillValue
	fillIdentity
	fillRange
	fillIndex
	fillDropout
	fillRandomBinary
	fillRandomSign
	fillRandomUniform
	fillRandomUniformInt
	fillRandomGaussian
)

func (g *NGrid) fill(mode fillMode, seed uint32, a, b float32) *NGrid {
	push := newPush().
		u32(uint32(g.Len())).
		u32(uint32(mode)).
		u32(seed).
		f32(a).
		f32(b).
		bytes()
	key := pipelineKey{name: kernels.Fill, nbuf: 2, dims: [3]int{64, 1, 1}, pushSize: len(push)}
	if err := dispatch(key, []driver.Buffer{g.data, g.sbuf}, push, g.Len(), 1, 1); err != nil {
		panicUsage("fill mode %d: %v", mode, err)
	}
	return g
}

func (g *NGrid) FillZero() *NGrid             { return g.fill(fillZero, 0, 0, 0) }
func (g *NGrid) Fill(v float32) *NGrid        { return g.fill(fillValue, 0, v, 0) }
func (g *NGrid) FillIdentity() *NGrid         { return g.fill(fillIdentity, 0, 0, 0) }
func (g *NGrid) FillRange(start, step float32) *NGrid {
	return g.fill(fillRange, 0, start, step)
}
func (g *NGrid) FillIndex() *NGrid { return g.fill(fillIndex, 0, 0, 0) }

func (g *NGrid) FillDropout(p float32, seed uint32) *NGrid {
	return g.fill(fillDropout, seed, p, 0)
}
func (g *NGrid) FillRandomBinary(seed uint32) *NGrid { return g.fill(fillRandomBinary, seed, 0, 0) }
func (g *NGrid) FillRandomSign(seed uint32) *NGrid   { return g.fill(fillRandomSign, seed, 0, 0) }

func (g *NGrid) FillRandomUniform(lo, hi float32, seed uint32) *NGrid {
	return g.fill(fillRandomUniform, seed, lo, hi)
}
func (g *NGrid) FillRandomUniformInt(lo, hi float32, seed uint32) *NGrid {
	return g.fill(fillRandomUniformInt, seed, lo, hi)
}
func (g *NGrid) FillRandomGaussian(mean, stdev float32, seed uint32) *NGrid {
	return g.fill(fillRandomGaussian, seed, mean, stdev)
}

// Neural-net initializations: parameterized random fills over fan-in/
// fan-out, per §4.9.
func (g *NGrid) FillTanhNormal(fanIn, fanOut int, seed uint32) *NGrid {
	sigma := float32(math.Sqrt(2.0 / float64(fanIn+fanOut)))
	return g.FillRandomGaussian(0, sigma, seed)
}

func (g *NGrid) FillTanhUniform(fanIn, fanOut int, seed uint32) *NGrid {
	r := float32(math.Sqrt(6.0 / float64(fanIn+fanOut)))
	return g.FillRandomUniform(-r, r, seed)
}

func (g *NGrid) FillSigmoidUniform(fanIn, fanOut int, seed uint32) *NGrid {
	r := 4 * float32(math.Sqrt(6.0/float64(fanIn+fanOut)))
	return g.FillRandomUniform(-r, r, seed)
}

func (g *NGrid) FillReLUHe(fanIn int, seed uint32) *NGrid {
	sigma := float32(math.Sqrt(2.0 / float64(fanIn)))
	return g.FillRandomGaussian(0, sigma, seed)
}

func (g *NGrid) FillELUHe(fanIn int, seed uint32) *NGrid {
	sigma := float32(math.Sqrt(2.0 / float64(fanIn)))
	return g.FillRandomGaussian(0, sigma, seed)
}
