package matcher

import "github.com/alitto/pond"

// workerPool is the minimal fan-out surface bestInCorpus needs. The
// production implementation is backed by alitto/pond's work-stealing
// pool (spec.md §4.2's "parallel across the corpus"); tests use a
// synchronous stand-in so scoring stays reproducible without pulling
// real goroutine scheduling into the assertions.
type workerPool interface {
	submit(task func())
	stop()
}

// pondPool wraps a pond.WorkerPool sized to the runtime rather than a
// fixed worker count, matching dtail's preference for pools sized off
// runtime.NumCPU().
type pondPool struct {
	inner *pond.WorkerPool
}

func newWorkerPool(size int) workerPool {
	return &pondPool{inner: pond.New(size, 0, pond.MinWorkers(size))}
}

func (p *pondPool) submit(task func()) { p.inner.Submit(task) }
func (p *pondPool) stop()              { p.inner.StopAndWait() }

// syncPool runs every submitted task inline and immediately. Used by
// tests that need deterministic completion without a real pool.
type syncPool struct{}

func newSyncPool() workerPool { return syncPool{} }

func (syncPool) submit(task func()) { task() }
func (syncPool) stop()              {}
