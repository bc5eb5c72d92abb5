package parquet

import "sync"

// Executor submits page-decode work to a shared worker pool (spec §4.3: "pages are
// decoded in parallel on a shared worker pool"). Per spec §9 — "where the host language
// provides lightweight tasks (goroutines, green threads, async tasks), use them instead
// of hand-rolled thread pools" — the default implementation launches goroutines directly,
// bounded by a counting semaphore, the idiomatic Go primitive rather than a generic
// worker-pool dependency (see DESIGN.md).
type Executor interface {
	Submit(fn func() (*Page, error)) Future
}

// Future is a handle to one in-flight or completed page decode (spec §4.3's
// Future<Page>).
type Future interface {
	// Wait blocks until the decode completes and returns its result.
	Wait() (*Page, error)
	// Ready reports whether the decode has completed without blocking.
	Ready() bool
	// Cancel detaches the future from its caller; an already-running decode is left to
	// finish and its result is discarded (spec §4.3 Cancellation).
	Cancel()
}

type goroutineFuture struct {
	done   chan struct{}
	mu     sync.Mutex
	page   *Page
	err    error
	cancel bool
}

func newGoroutineFuture() *goroutineFuture {
	return &goroutineFuture{done: make(chan struct{})}
}

func (f *goroutineFuture) settle(page *Page, err error) {
	f.mu.Lock()
	if !f.cancel {
		f.page, f.err = page, err
	}
	f.mu.Unlock()
	close(f.done)
}

func (f *goroutineFuture) Wait() (*Page, error) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page, f.err
}

func (f *goroutineFuture) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *goroutineFuture) Cancel() {
	f.mu.Lock()
	f.cancel = true
	f.mu.Unlock()
}

// poolExecutor bounds concurrency with a counting semaphore sized to parallelism.
type poolExecutor struct {
	sem chan struct{}
}

// NewPoolExecutor returns an Executor that runs up to parallelism page decodes
// concurrently, queuing the rest.
func NewPoolExecutor(parallelism int) Executor {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &poolExecutor{sem: make(chan struct{}, parallelism)}
}

func (p *poolExecutor) Submit(fn func() (*Page, error)) Future {
	f := newGoroutineFuture()
	go func() {
		p.sem <- struct{}{}
		defer func() { <-p.sem }()
		page, err := fn()
		f.settle(page, err)
	}()
	return f
}

type syncExecutor struct{}

func (syncExecutor) Submit(fn func() (*Page, error)) Future {
	page, err := fn()
	f := newGoroutineFuture()
	f.settle(page, err)
	return f
}

// NewSyncExecutor returns an Executor with no parallelism: every Submit runs to
// completion on the calling goroutine before returning. Useful for deterministic tests
// and for single-threaded hosts.
func NewSyncExecutor() Executor { return syncExecutor{} }
