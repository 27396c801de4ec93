// Package parallel runs independent optimizer trials on a bounded set of
// goroutines.
package parallel

import (
	"fmt"
	"math"
	"sync"
)

// PanicHandler receives the id of a panicking task and the recovered value.
// It runs on the worker goroutine that ran the task.
type PanicHandler func(id int, recovered any)

type task struct {
	id int
	fn func()
}

// WorkerPool runs identified tasks on a fixed set of goroutines. A panicking
// task is reported to the pool's PanicHandler and the worker carries on.
type WorkerPool struct {
	workers   int
	taskQueue chan task
	onPanic   PanicHandler
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
}

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithPanicHandler reports recovered task panics to h instead of dropping them.
func WithPanicHandler(h PanicHandler) Option {
	return func(wp *WorkerPool) {
		wp.onPanic = h
	}
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a new worker pool with the given number of workers.
// Non-positive counts become 1.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan task, workers*2),
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for t := range wp.taskQueue {
		Protect(t.id, t.fn, wp.onPanic)
	}
}

// Protect runs fn and hands a panic, if any, to h along with id. h may be
// nil. It reports whether fn returned normally.
func Protect(id int, fn func(), h PanicHandler) (completed bool) {
	defer func() {
		if r := recover(); r != nil && h != nil {
			h(id, r)
		}
	}()
	fn()
	return true
}

// Submit queues fn under id. It returns false if the pool is closed.
func (wp *WorkerPool) Submit(id int, fn func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task{id: id, fn: fn}
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
// Safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete and closes the pool.
func (wp *WorkerPool) Wait() {
	wp.Close()
}
