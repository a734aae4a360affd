// Package worker provides an in-process task runner for remote sync calls
// that must not block the request path.
package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrQueueFull indicates the task queue is at capacity.
var ErrQueueFull = errors.New("task queue is full")

// Task is one unit of background work.
type Task struct {
	Kind      string
	UserID    int64
	GithubIDs []string
}

// Handler executes one task.
type Handler func(ctx context.Context, task Task) error

// Pool runs tasks from a bounded queue on a fixed set of goroutines.
type Pool struct {
	tasks   chan Task
	handler Handler
	workers int
	logger  *zap.SugaredLogger

	wg sync.WaitGroup
}

// NewPool creates a new task pool. Tasks queue up to size and are rejected
// beyond that; callers treat rejection as a degraded local-only update.
func NewPool(size, workers int, handler Handler, logger *zap.SugaredLogger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		tasks:   make(chan Task, size),
		handler: handler,
		workers: workers,
		logger:  logger,
	}
}

// Start launches the worker goroutines. They drain the queue until ctx is
// cancelled, then exit; Wait blocks until all of them have.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-p.tasks:
					if err := p.handler(ctx, task); err != nil {
						p.logger.Warnw("background task failed",
							"kind", task.Kind,
							"user_id", task.UserID,
							"threads", len(task.GithubIDs),
							"error", err,
						)
					}
				}
			}
		}()
	}
}

// Wait blocks until all workers have stopped.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Enqueue submits a task without blocking.
func (p *Pool) Enqueue(ctx context.Context, kind string, userID int64, githubIDs []string) error {
	task := Task{Kind: kind, UserID: userID, GithubIDs: githubIDs}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}
