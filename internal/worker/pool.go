package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

// Dispatcher runs side effects whose failure must never reach the caller.
type Dispatcher interface {
	Dispatch(name string, task Task)
}

type Observer interface {
	RecordBackgroundTask(name, result string)
}

type Pool struct {
	pool     *pool.Pool
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer

	mu     sync.RWMutex
	closed bool
}

func NewPool(size int, timeout time.Duration, logger *zap.Logger, observer Observer) *Pool {
	if size <= 0 {
		size = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Pool{
		pool:     pool.New().WithMaxGoroutines(size),
		timeout:  timeout,
		logger:   logger,
		observer: observer,
	}
}

// Dispatch queues task on the pool. It blocks only while every worker is busy. Tasks
// run on a detached context so they outlive the request that scheduled them.
func (p *Pool) Dispatch(name string, task Task) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Warn("background task dropped, pool closed", zap.String("task", name))
		p.record(name, "dropped")
		return
	}

	p.pool.Go(func() {
		p.run(name, task)
	})
}

func (p *Pool) run(name string, task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return task(ctx)
	}()

	if err != nil {
		p.logger.Error("background task failed", zap.String("task", name), zap.Error(err))
		p.record(name, "error")
		return
	}

	p.record(name, "success")
}

func (p *Pool) record(name, result string) {
	if p.observer != nil {
		p.observer.RecordBackgroundTask(name, result)
	}
}

// Shutdown stops accepting tasks and waits for running ones, or for ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
