// Package kernels provides the compute shader catalog that the ngrid
// package dispatches against. Each entry in the catalog corresponds to
// one of the shader families described in the engine's operation
// design: element-wise unary/binary, fill, two-stage reduction,
// matrix product, convolution, pooling, sort, transpose, shape
// manipulation (subgrid/pad/concat/mirror), and LU decomposition with
// triangular inversion.
package kernels

import (
	"embed"
	"fmt"
)

//go:embed src/*.comp
var sources embed.FS

// spv holds the pinned compiled fallback: one SPIR-V module per catalog
// entry, checked in so the engine has something to dispatch against on
// a machine without glslc installed (see generate.go and DESIGN.md).
// Code/MustCode serve from here; Source/MustSource keep serving the
// human-readable GLSL for callers that want the checked-in text (the
// test suite, an install-time recompilation step).
//
//go:embed spv/*.spv
var spv embed.FS

// Name identifies a catalog entry. Values match the shader source file
// names under src/, minus the .comp extension.
type Name string

const (
	ElementwiseUnary  Name = "elementwise_unary"
	ElementwiseBinary Name = "elementwise_binary"
	Fill              Name = "fill"
	ReduceLocal       Name = "reduce_local"
	ReduceGlobal      Name = "reduce_global"
	MatMul            Name = "matmul"
	Convolution       Name = "convolution"
	Pool              Name = "pool"
	Sort              Name = "sort"
	Transpose         Name = "transpose"
	Subgrid           Name = "subgrid"
	Pad               Name = "pad"
	Concat            Name = "concat"
	Mirror            Name = "mirror"
	LUPivotLocal      Name = "lu_pivot_local"
	LUPivotMerge      Name = "lu_pivot_merge"
	LUSwap            Name = "lu_swap"
	LULCol            Name = "lu_lcol"
	LUTrail           Name = "lu_trail"
	TriInverseLower   Name = "tri_inverse_lower"
	TriInverseUpper   Name = "tri_inverse_upper"
)

// All lists every catalog entry, in the order they appear in the
// specification's shader catalog.
var All = []Name{
	ElementwiseUnary, ElementwiseBinary, Fill,
	ReduceLocal, ReduceGlobal,
	MatMul, Convolution, Pool, Sort, Transpose,
	Subgrid, Pad, Concat, Mirror,
	LUPivotLocal, LUPivotMerge, LUSwap, LULCol, LUTrail,
	TriInverseLower, TriInverseUpper,
}

// Source returns the GLSL compute shader source for name. This is the
// checked-in source of truth; turning it into the device binary that
// driver.GPU.NewShaderCode expects is the job of an external toolchain
// (glslc or equivalent) that this repository treats as an out-of-scope
// collaborator, per the build-time pipeline the catalog is specified
// against. Source serves the human-readable text for that toolchain
// (and for the test suite below); engine dispatch reads compiled
// SPIR-V from Code, not from here.
func Source(name Name) ([]byte, error) {
	b, err := sources.ReadFile("src/" + string(name) + ".comp")
	if err != nil {
		return nil, fmt.Errorf("kernels: unknown shader %q: %w", name, err)
	}
	return b, nil
}

// Code returns the compiled SPIR-V device binary for name: the
// fallback pinned under spv/ that ships in this module. The checked-in
// modules are hand-assembled placeholders: they declare the
// workgroup-size specialization constants and yield valid pipelines,
// but their entry points have empty bodies and perform none of the
// kernel's computation. A machine
// with the Vulkan SDK available regenerates spv/*.spv from src/*.comp
// via `go generate ./kernels` (see generate.go); deployments that
// recompile from source overwrite the pinned fallback in place, and
// Code keeps reading from the same path either way.
func Code(name Name) ([]byte, error) {
	b, err := spv.ReadFile("spv/" + string(name) + ".spv")
	if err != nil {
		return nil, fmt.Errorf("kernels: no compiled binary for %q: %w", name, err)
	}
	return b, nil
}

// MustCode is like Code but panics on error, for the same
// fixed-catalog callers MustSource serves.
func MustCode(name Name) []byte {
	b, err := Code(name)
	if err != nil {
		panic(err)
	}
	return b
}

// MustSource is like Source but panics on error. Used at package
// initialization by callers that build a fixed pipeline set from a
// fixed list of names, where a missing entry is a programming error.
func MustSource(name Name) []byte {
	b, err := Source(name)
	if err != nil {
		panic(err)
	}
	return b
}
