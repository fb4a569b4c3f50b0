package ngrid

import (
	"sync"

	"github.com/ngridml/ngrid/ctxt"
	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/kernels"
)

// pipelineKey identifies a compiled compute pipeline variant. Every
// kernel in the catalog binds a fixed number of storage buffers (no
// images or samplers), so the descriptor layout is fully described by
// nbuf; dims selects the workgroup size specialization constants, and
// pushSize is the byte size of the push-constant range the shader's
// Push block declares.
type pipelineKey struct {
	name     kernels.Name
	nbuf     int
	dims     [3]int
	pushSize int
}

// cachedPipeline bundles a compiled pipeline with the descriptor heap,
// table and pool that back its binding point. Pipelines are created
// once per distinct pipelineKey and reused for the lifetime of the
// process; there is no eviction, matching the teacher's own pattern of
// caching GPU objects for the process lifetime rather than
// reference-counting them.
type cachedPipeline struct {
	code driver.ShaderCode
	heap driver.DescHeap
	tab  driver.DescTable
	pl   driver.Pipeline
	pool *ctxt.DescPool
}

var (
	plMu    sync.Mutex
	plCache = map[pipelineKey]*cachedPipeline{}
)

func getPipeline(key pipelineKey) (*cachedPipeline, error) {
	plMu.Lock()
	defer plMu.Unlock()

	if cp, ok := plCache[key]; ok {
		return cp, nil
	}

	src, err := kernels.Code(key.name)
	if err != nil {
		return nil, err
	}
	gpu := ctxt.GPU()

	code, err := gpu.NewShaderCode(src)
	if err != nil {
		return nil, err
	}

	ds := make([]driver.Descriptor, key.nbuf)
	for i := range ds {
		ds[i] = driver.Descriptor{Type: driver.DBuffer, Stages: driver.SCompute, Nr: i, Len: 1}
	}
	heap, err := gpu.NewDescHeap(ds)
	if err != nil {
		code.Destroy()
		return nil, err
	}
	tab, err := gpu.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		heap.Destroy()
		code.Destroy()
		return nil, err
	}
	pool, err := ctxt.NewDescPool(heap, 0)
	if err != nil {
		tab.Destroy()
		heap.Destroy()
		code.Destroy()
		return nil, err
	}
	pl, err := gpu.NewPipeline(&driver.CompState{
		Func:     driver.ShaderFunc{Code: code, Name: "main"},
		Desc:     tab,
		Dims:     key.dims,
		PushSize: key.pushSize,
	})
	if err != nil {
		pool.Destroy()
		tab.Destroy()
		code.Destroy()
		return nil, err
	}

	cp := &cachedPipeline{code: code, heap: heap, tab: tab, pl: pl, pool: pool}
	plCache[key] = cp
	return cp, nil
}

// ceilDiv computes the workgroup count for a dispatch over n elements
// with the given local (workgroup) size, per the specification's
// dispatch(gx, gy, gz) := ceil(gi / local_size_i).
func ceilDiv(n, local int) int {
	if local <= 0 {
		return n
	}
	return (n + local - 1) / local
}
