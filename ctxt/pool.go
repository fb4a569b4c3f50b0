package ctxt

import (
	"errors"
	"sync"

	"github.com/ngridml/ngrid/driver"
	"github.com/ngridml/ngrid/internal/bitm"
)

// CmdPool manages a fixed-growth set of command buffers bound to a
// single QueueKind. It lets the ngrid package reuse command buffers
// across dispatches rather than allocate a new one per operation.
type CmdPool struct {
	mu   sync.Mutex
	kind driver.QueueKind
	cbs  []driver.CmdBuffer
	used bitm.Bitm[uint32]
}

// NewCmdPool creates a CmdPool bound to kind. It allocates no command
// buffers up front; they are created lazily as Acquire needs them, in
// batches of Cfg().CmdPoolSize.
func NewCmdPool(kind driver.QueueKind) *CmdPool {
	return &CmdPool{kind: kind}
}

// Acquire returns a command buffer not currently held by any other
// caller, along with an index that must be passed to Release when the
// command buffer is done being used (after its Commit completes).
func (p *CmdPool) Acquire() (driver.CmdBuffer, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.used.Search()
	if !ok {
		n := Cfg().CmdPoolSize
		if n <= 0 {
			n = DefaultConfig().CmdPoolSize
		}
		if err := p.grow(n); err != nil {
			return nil, 0, err
		}
		idx, ok = p.used.Search()
		if !ok {
			panic("ctxt: command pool grow did not free a slot")
		}
	}
	p.used.Set(idx)
	return p.cbs[idx], idx, nil
}

// Release marks idx, previously returned by Acquire, as free for
// reuse. The caller must not touch the associated command buffer
// again until it is reacquired.
func (p *CmdPool) Release(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used.Unset(idx)
}

// grow assumes p.mu is held.
func (p *CmdPool) grow(n int) error {
	gpu := GPU()
	base := len(p.cbs)
	for i := 0; i < n; i++ {
		cb, err := gpu.NewCmdBufferKind(p.kind)
		if err != nil {
			for _, x := range p.cbs[base:] {
				x.Destroy()
			}
			p.cbs = p.cbs[:base]
			return err
		}
		p.cbs = append(p.cbs, cb)
	}
	// The bitmap grows in whole uint32 words; bits past the last
	// command buffer stay set so Search never returns them.
	for p.used.Len() < len(p.cbs) {
		for i := p.used.Grow(1); i < p.used.Len(); i++ {
			p.used.Set(i)
		}
	}
	for i := base; i < len(p.cbs); i++ {
		p.used.Unset(i)
	}
	return nil
}

// Destroy releases every command buffer owned by the pool. The pool
// must not be used afterward.
func (p *CmdPool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, cb := range p.cbs {
		cb.Destroy()
	}
	p.cbs = nil
	p.used = bitm.Bitm[uint32]{}
}

// DescPool manages repeated copies of a single driver.DescHeap layout,
// handing out table-copy indices to callers that need to bind a fresh
// set of descriptors without creating a new heap per dispatch.
type DescPool struct {
	mu   sync.Mutex
	heap driver.DescHeap
	used bitm.Bitm[uint32]
}

// errDescPoolExhausted is returned by Acquire when every descriptor-set
// copy in the pool is held by another caller.
var errDescPoolExhausted = errors.New("ctxt: descriptor pool exhausted")

// NewDescPool wraps heap, an already-created driver.DescHeap, and
// eagerly allocates n descriptor-set copies (Cfg().DescPoolSize if n
// is <= 0). driver.DescHeap.New invalidates every copy allocated by a
// previous call unless the requested count matches the current one,
// so unlike CmdPool this pool cannot grow once any copy is in use: its
// size is fixed at construction, matching the specification's
// "maximum set count must be sized to the maximum in-flight dispatch
// concurrency" (default 20).
func NewDescPool(heap driver.DescHeap, n int) (*DescPool, error) {
	if n <= 0 {
		n = Cfg().DescPoolSize
	}
	if n <= 0 {
		n = DefaultConfig().DescPoolSize
	}
	if err := heap.New(n); err != nil {
		return nil, err
	}
	p := &DescPool{heap: heap}
	// The bitmap grows in whole uint32 words; bits past the last copy
	// stay set so Acquire never hands them out.
	p.used.Grow((n + 31) / 32)
	for i := n; i < p.used.Len(); i++ {
		p.used.Set(i)
	}
	return p, nil
}

// Heap returns the wrapped driver.DescHeap.
func (p *DescPool) Heap() driver.DescHeap { return p.heap }

// Acquire returns the index of a descriptor-set copy not currently
// held by any other caller. The caller is responsible for writing the
// descriptors it needs via Heap().SetBuffer/SetImage/SetSampler
// before binding the index in a command buffer. It returns
// errDescPoolExhausted if every copy is currently held.
func (p *DescPool) Acquire() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.used.Search()
	if !ok {
		return 0, errDescPoolExhausted
	}
	p.used.Set(idx)
	return idx, nil
}

// Release marks idx, previously returned by Acquire, as free for
// reuse.
func (p *DescPool) Release(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.used.Unset(idx)
}

// Destroy releases the wrapped descriptor heap. The pool must not be
// used afterward.
func (p *DescPool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.heap.Destroy()
	p.used = bitm.Bitm[uint32]{}
}
