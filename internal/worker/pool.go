// Package worker provides the bounded concurrent executor for task units
// and the worker bodies that run them.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// DefaultMaxWorkers is the default bound on in-flight workers.
const DefaultMaxWorkers = 8

// Result is the output contract of a worker body.
type Result struct {
	// Output is the worker's textual output.
	Output string
	// Metadata carries worker-specific extras (model, token counts, ...).
	Metadata map[string]any
}

// Worker executes one task unit. Implementations are opaque to the pool;
// this is the injection point for an LLM backend.
type Worker interface {
	Execute(ctx context.Context, task *models.Task, agentIDs []string) (*Result, error)
}

// Stats is a snapshot of pool counters.
type Stats struct {
	// TotalExecuted counts settled jobs, including failures.
	TotalExecuted int
	// TotalFailed counts jobs whose worker returned an error.
	TotalFailed int
	// AvgDuration is the rolling average job duration in milliseconds.
	AvgDuration float64
}

// Pool runs jobs through a Worker with at most maxWorkers in flight.
// Callers over the bound suspend until a slot frees; waiters resume in
// FIFO order.
type Pool struct {
	worker     Worker
	maxWorkers int

	mu      sync.Mutex
	active  int
	waiters []chan struct{}

	executed    int
	failed      int
	avgDuration float64
}

// NewPool creates a Pool running jobs through the given worker.
// A non-positive maxWorkers falls back to DefaultMaxWorkers.
func NewPool(worker Worker, maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	return &Pool{worker: worker, maxWorkers: maxWorkers}
}

// MaxWorkers returns the pool's concurrency bound.
func (p *Pool) MaxWorkers() int {
	return p.maxWorkers
}

// Execute runs one task through the worker, blocking for a slot first.
// The slot is released on success, failure, and cancellation alike.
// If ctx is cancelled while waiting, the job is never dispatched.
func (p *Pool) Execute(ctx context.Context, task *models.Task, agentIDs []string) (*Result, error) {
	if err := p.acquire(ctx); err != nil {
		return nil, err
	}
	defer p.release()

	start := time.Now()
	res, err := p.worker.Execute(ctx, task, agentIDs)
	p.recordOutcome(time.Since(start).Milliseconds(), err != nil)

	return res, err
}

// acquire blocks until a worker slot is available or ctx is cancelled.
func (p *Pool) acquire(ctx context.Context) error {
	p.mu.Lock()
	if p.active < p.maxWorkers {
		p.active++
		p.mu.Unlock()
		return nil
	}

	wait := make(chan struct{})
	p.waiters = append(p.waiters, wait)
	p.mu.Unlock()

	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		p.abandon(wait)
		return ctx.Err()
	}
}

// release frees a slot, handing it to the oldest waiter if one exists.
func (p *Pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.waiters) > 0 {
		wait := p.waiters[0]
		p.waiters = p.waiters[1:]
		// The slot transfers directly to the waiter; active stays constant.
		close(wait)
		return
	}
	p.active--
}

// abandon removes a waiter that gave up. If the slot was already handed
// over, it is released again so the next waiter is not starved.
func (p *Pool) abandon(wait chan struct{}) {
	p.mu.Lock()
	for i, w := range p.waiters {
		if w == wait {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			p.mu.Unlock()
			return
		}
	}
	p.mu.Unlock()
	// Not found: the slot was granted concurrently with cancellation.
	p.release()
}

// recordOutcome updates the pool statistics after a job settles.
func (p *Pool) recordOutcome(durationMS int64, failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.executed++
	if failed {
		p.failed++
	}
	// Rolling average over all settled jobs.
	p.avgDuration += (float64(durationMS) - p.avgDuration) / float64(p.executed)
}

// ActiveWorkers returns the number of jobs currently in flight.
func (p *Pool) ActiveWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		TotalExecuted: p.executed,
		TotalFailed:   p.failed,
		AvgDuration:   p.avgDuration,
	}
}
