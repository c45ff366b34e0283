package quarry

import "context"

// WorkerPool limits how many projects are extracted concurrently.
type WorkerPool struct {
	sem chan struct{}
}

// NewWorkerPool creates a new worker pool with the given size.
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = 8
	}
	return &WorkerPool{
		sem: make(chan struct{}, size),
	}
}

// Acquire blocks until a worker slot is available.
func (p *WorkerPool) Acquire() {
	p.sem <- struct{}{}
}

// Release returns a worker slot to the pool.
func (p *WorkerPool) Release() {
	<-p.sem
}

// Run executes fn with the pool semaphore held.
func (p *WorkerPool) Run(fn func()) {
	p.Acquire()
	defer p.Release()
	fn()
}

// RunContext executes fn with the pool semaphore held, respecting context
// cancellation. Returns ctx.Err() if the context is cancelled while
// waiting to acquire.
func (p *WorkerPool) RunContext(ctx context.Context, fn func()) error {
	select {
	case p.sem <- struct{}{}:
		defer p.Release()
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
