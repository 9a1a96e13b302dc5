package sweeper

import (
	"context"
	"log/slog"
	"sync"
)

// Task represents a unit of work to be processed by the worker pool
type Task func(ctx context.Context) error

// WorkerPool runs tasks on a fixed number of goroutines
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
	closeMux    sync.Mutex
	logger      *slog.Logger
}

// NewWorkerPool creates a pool whose workers stop when ctx is cancelled
func NewWorkerPool(ctx context.Context, workerCount int, logger *slog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2), // Buffered channel
		ctx:         poolCtx,
		cancel:      cancel,
		logger:      logger,
	}
}

// Start launches worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.logger.Debug("worker pool started", "workers", wp.workerCount)
}

// Submit queues a task. It returns false once the pool is shutting down or closed.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.closeMux.Lock()
	defer wp.closeMux.Unlock()
	if wp.closed {
		return false
	}

	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		wp.logger.Warn("worker pool shutting down, task not submitted")
		return false
	}
}

// Wait blocks until all submitted tasks complete
func (wp *WorkerPool) Wait() {
	wp.closeMux.Lock()
	if !wp.closed {
		close(wp.taskQueue) // No more tasks
		wp.closed = true
	}
	wp.closeMux.Unlock()

	wp.wg.Wait()
	wp.cancel()
}

// Shutdown cancels all workers and waits for completion
func (wp *WorkerPool) Shutdown() {
	wp.cancel()
	wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Check if context is cancelled
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("worker stopping, context cancelled", "worker", id)
			return
		default:
		}

		if err := task(wp.ctx); err != nil {
			wp.logger.Warn("task failed", "worker", id, "error", err)
		}
	}
}
