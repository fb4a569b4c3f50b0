package ngrid

import (
	"sync"
	"time"

	"github.com/ngridml/ngrid/ctxt"
	"github.com/ngridml/ngrid/driver"
)

var (
	cmdPoolOnce sync.Once
	cmdPool     *ctxt.CmdPool
)

func computeCmdPool() *ctxt.CmdPool {
	cmdPoolOnce.Do(func() {
		cmdPool = ctxt.NewCmdPool(driver.QCompute)
	})
	return cmdPool
}

// dispatch is the compute convenience path every NGrid operation
// funnels through: it binds the pipeline identified by key, binds
// buffers at sequential descriptor numbers starting at 0, pushes push,
// dispatches a grid computed from (gx, gy, gz) via ceilDiv against the
// pipeline's workgroup size, and blocks until the GPU finishes or the
// configured fence timeout elapses.
func dispatch(key pipelineKey, buffers []driver.Buffer, push []byte, gx, gy, gz int) error {
	cp, err := getPipeline(key)
	if err != nil {
		return err
	}

	cpyIdx, err := cp.pool.Acquire()
	if err != nil {
		return err
	}
	defer cp.pool.Release(cpyIdx)

	for i, buf := range buffers {
		cp.heap.SetBuffer(cpyIdx, i, 0, []driver.Buffer{buf}, []int64{0}, []int64{buf.Cap()})
	}

	cb, cbIdx, err := computeCmdPool().Acquire()
	if err != nil {
		return err
	}
	defer computeCmdPool().Release(cbIdx)

	if err := cb.Begin(); err != nil {
		return err
	}
	cb.BeginWork(false)
	cb.SetDescTableComp(cp.tab, 0, []int{cpyIdx})
	cb.SetPipeline(cp.pl)
	if len(push) > 0 {
		cb.SetPush(driver.SCompute, 0, push)
	}
	cb.Dispatch(
		ceilDiv(gx, key.dims[0]),
		ceilDiv(gy, key.dims[1]),
		ceilDiv(gz, key.dims[2]),
	)
	cb.EndWork()
	if err := cb.End(); err != nil {
		return err
	}

	ch := make(chan error, 1)
	ctxt.GPU().Commit([]driver.CmdBuffer{cb}, ch)

	timeout := ctxt.Cfg().FenceTimeout
	if timeout <= 0 {
		return <-ch
	}
	select {
	case err := <-ch:
		return err
	case <-time.After(time.Duration(timeout) * time.Millisecond):
		return ErrTimeout
	}
}
