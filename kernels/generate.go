package kernels

// The device binaries under spv/ are produced from src/*.comp by an
// external SPIR-V compiler, not by this package. A machine with the
// Vulkan SDK installed regenerates the full set with:
//
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/elementwise_unary.spv src/elementwise_unary.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/elementwise_binary.spv src/elementwise_binary.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/fill.spv src/fill.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/reduce_local.spv src/reduce_local.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/reduce_global.spv src/reduce_global.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/matmul.spv src/matmul.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/convolution.spv src/convolution.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/pool.spv src/pool.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/sort.spv src/sort.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/transpose.spv src/transpose.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/subgrid.spv src/subgrid.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/pad.spv src/pad.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/concat.spv src/concat.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/mirror.spv src/mirror.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/lu_pivot_local.spv src/lu_pivot_local.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/lu_pivot_merge.spv src/lu_pivot_merge.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/lu_swap.spv src/lu_swap.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/lu_lcol.spv src/lu_lcol.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/lu_trail.spv src/lu_trail.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/tri_inverse_lower.spv src/tri_inverse_lower.comp
//go:generate glslc --target-env=vulkan1.3 -I src -o spv/tri_inverse_upper.spv src/tri_inverse_upper.comp
//
// The spv/*.spv files checked into this package are hand-assembled
// placeholders with empty entry points, not glslc output; running the
// directives above overwrites them in place with compiled modules, and
// the result is committed the same way any other generated, checked-in
// artifact is committed.
