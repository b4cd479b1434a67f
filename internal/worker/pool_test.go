package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// blockingWorker holds every job until released and tracks concurrency.
type blockingWorker struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	release  chan struct{}
	fail     bool
}

func newBlockingWorker() *blockingWorker {
	return &blockingWorker{release: make(chan struct{})}
}

func (w *blockingWorker) Execute(ctx context.Context, task *models.Task, agentIDs []string) (*Result, error) {
	w.mu.Lock()
	w.inFlight++
	if w.inFlight > w.peak {
		w.peak = w.inFlight
	}
	w.mu.Unlock()

	select {
	case <-w.release:
	case <-ctx.Done():
	}

	w.mu.Lock()
	w.inFlight--
	w.mu.Unlock()

	if w.fail {
		return nil, errors.New("worker failed")
	}
	return &Result{Output: "ok"}, nil
}

func TestPoolBoundsConcurrency(t *testing.T) {
	w := newBlockingWorker()
	p := NewPool(w, 3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task := &models.Task{ID: fmt.Sprintf("task%04d", i)}
			p.Execute(context.Background(), task, nil)
		}(i)
	}

	// Give the goroutines time to contend for slots.
	time.Sleep(50 * time.Millisecond)
	if got := p.ActiveWorkers(); got != 3 {
		t.Errorf("active = %d, expected exactly the bound", got)
	}

	close(w.release)
	wg.Wait()

	if w.peak > 3 {
		t.Errorf("peak concurrency = %d, expected at most 3", w.peak)
	}
	if got := p.ActiveWorkers(); got != 0 {
		t.Errorf("active after drain = %d, expected 0", got)
	}
	if got := p.Stats().TotalExecuted; got != 10 {
		t.Errorf("executed = %d, expected 10", got)
	}
}

func TestPoolDefaultBound(t *testing.T) {
	p := NewPool(NewSimulatedSeeded(1), 0)
	if got := p.MaxWorkers(); got != DefaultMaxWorkers {
		t.Errorf("maxWorkers = %d, expected default %d", got, DefaultMaxWorkers)
	}
}

func TestPoolCancelledWaiterNeverRuns(t *testing.T) {
	w := newBlockingWorker()
	p := NewPool(w, 1)

	started := make(chan struct{})
	go func() {
		close(started)
		p.Execute(context.Background(), &models.Task{ID: "task0001"}, nil)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := p.Execute(ctx, &models.Task{ID: "task0002"}, nil)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}

	close(w.release)
	time.Sleep(20 * time.Millisecond)

	// Only the first job ever reached the worker.
	if got := p.Stats().TotalExecuted; got != 1 {
		t.Errorf("executed = %d, expected the cancelled waiter never dispatched", got)
	}
}

func TestPoolFIFOWaiters(t *testing.T) {
	w := newBlockingWorker()
	p := NewPool(w, 1)

	// Occupy the only slot.
	go p.Execute(context.Background(), &models.Task{ID: "holder00"}, nil)
	time.Sleep(20 * time.Millisecond)

	var mu sync.Mutex
	var order []string
	var wg sync.WaitGroup
	for _, id := range []string{"waiter01", "waiter02", "waiter03"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			p.Execute(context.Background(), &models.Task{ID: id}, nil)
			mu.Lock()
			order = append(order, id)
			mu.Unlock()
		}(id)
		// Serialize enqueue order.
		time.Sleep(20 * time.Millisecond)
	}

	close(w.release)
	wg.Wait()

	want := []string{"waiter01", "waiter02", "waiter03"}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("completion order = %v, expected FIFO %v", order, want)
		}
	}
}

func TestPoolStats(t *testing.T) {
	w := newBlockingWorker()
	w.fail = true
	close(w.release)
	p := NewPool(w, 2)

	p.Execute(context.Background(), &models.Task{ID: "task0001"}, nil)
	p.Execute(context.Background(), &models.Task{ID: "task0002"}, nil)

	stats := p.Stats()
	if stats.TotalExecuted != 2 || stats.TotalFailed != 2 {
		t.Errorf("stats = %+v, expected 2 executed, 2 failed", stats)
	}
	if stats.AvgDuration < 0 {
		t.Errorf("avgDuration = %v, expected non-negative", stats.AvgDuration)
	}
}

func TestSimulatedWorkerOutput(t *testing.T) {
	w := NewSimulatedSeeded(42)
	task := &models.Task{ID: "task0001", Description: "build a parser"}

	res, err := w.Execute(context.Background(), task, []string{"code_agent_v2"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := "[code_agent_v2] completed: build a parser"
	if res.Output != want {
		t.Errorf("output = %q, expected %q", res.Output, want)
	}
}

func TestSimulatedWorkerHonorsCancellation(t *testing.T) {
	w := NewSimulatedSeeded(42)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Execute(ctx, &models.Task{ID: "task0001"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}
