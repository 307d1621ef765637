// Package worker provides a bounded worker pool for linting many messages
// in parallel.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolStopped is returned when submitting to a pool that is not running.
var ErrPoolStopped = errors.New("pool not running")

// Task represents a task to be executed by a worker.
type Task interface {
	Execute(ctx context.Context) error
	ID() string
}

// Result contains the result of a task execution.
type Result struct {
	TaskID string
	Error  error
}

// Pool manages a pool of workers for parallel processing.
type Pool struct {
	workers int
	tasks   chan Task
	results chan Result
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	// mu guards closing the task channel against concurrent Submit calls.
	mu      sync.RWMutex
	stopped bool

	started   atomic.Bool
	processed atomic.Int64
	errors    atomic.Int64
}

// Config configures the worker pool.
type Config struct {
	Workers   int // Number of workers (default: GOMAXPROCS)
	QueueSize int // Size of task queue (default: workers * 2)
}

// NewPool creates a new worker pool.
func NewPool(cfg Config) *Pool {
	return newPool(context.Background(), cfg)
}

func newPool(parent context.Context, cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 2
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers: cfg.Workers,
		tasks:   make(chan Task, cfg.QueueSize),
		results: make(chan Result, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start starts the worker pool.
func (p *Pool) Start() {
	if p.started.Swap(true) {
		return
	}

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		err := p.ctx.Err()
		if err == nil {
			err = task.Execute(p.ctx)
		}

		p.processed.Add(1)
		if err != nil {
			p.errors.Add(1)
		}

		select {
		case p.results <- Result{TaskID: task.ID(), Error: err}:
		case <-p.ctx.Done():
		}
	}
}

// Submit queues a task, blocking while the queue is full.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	if !p.started.Load() {
		return fmt.Errorf("%w: not started", ErrPoolStopped)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.ctx.Err(); err != nil {
		return err
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Results returns the results channel. It is closed once the pool stops.
// Workers block on a full results channel, so a caller that submits more
// than QueueSize tasks must drain it.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Stop cancels running tasks, drops queued ones and waits for the workers.
func (p *Pool) Stop() {
	p.cancel()
	p.shutdown()
}

// StopWait stops accepting tasks and waits for the queued ones to complete.
func (p *Pool) StopWait() {
	p.shutdown()
	p.cancel()
}

func (p *Pool) shutdown() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	close(p.results)
}

// Stats returns pool statistics.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.workers,
		Processed: p.processed.Load(),
		Errors:    p.errors.Load(),
		Pending:   len(p.tasks),
	}
}

// Stats contains pool statistics.
type Stats struct {
	Workers   int
	Processed int64
	Errors    int64
	Pending   int
}

// String returns a string representation of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("workers=%d processed=%d errors=%d pending=%d",
		s.Workers, s.Processed, s.Errors, s.Pending)
}

// Run executes tasks on a fresh pool bound to ctx and waits for all of them.
// Failed tasks are reported together, each prefixed with its ID.
func Run(ctx context.Context, cfg Config, tasks []Task) (Stats, error) {
	p := newPool(ctx, cfg)
	p.Start()

	var errs []error
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for r := range p.results {
			if r.Error != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.TaskID, r.Error))
			}
		}
	}()

	var submitErr error
	for _, task := range tasks {
		if err := p.Submit(ctx, task); err != nil {
			submitErr = err
			break
		}
	}

	p.StopWait()
	<-drained

	if submitErr != nil {
		return p.Stats(), submitErr
	}
	return p.Stats(), errors.Join(errs...)
}
