package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ebuckley/cascade/internal/graph"
	"github.com/ebuckley/cascade/internal/worker"
	"github.com/ebuckley/cascade/pkg/models"
)

// stubWorker fails the tasks named in failIDs and panics for panicIDs.
// failAll fails everything; failContains fails tasks whose description
// contains the substring.
type stubWorker struct {
	mu           sync.Mutex
	failIDs      map[string]bool
	panicIDs     map[string]bool
	failAll      bool
	failContains string
	executed     []string
	inFlight     int
	peak         int
}

func (w *stubWorker) Execute(ctx context.Context, task *models.Task, agentIDs []string) (*worker.Result, error) {
	w.mu.Lock()
	w.executed = append(w.executed, task.ID)
	w.inFlight++
	if w.inFlight > w.peak {
		w.peak = w.inFlight
	}
	w.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	w.mu.Lock()
	w.inFlight--
	w.mu.Unlock()

	if w.panicIDs[task.ID] {
		panic("stub worker exploded")
	}
	if w.failAll || w.failIDs[task.ID] ||
		(w.failContains != "" && strings.Contains(strings.ToLower(task.Description), w.failContains)) {
		return nil, errors.New("stub failure")
	}
	return &worker.Result{Output: "done " + task.ID}, nil
}

func schedulerFixture(t *testing.T, tasks []*models.Task, w worker.Worker) (*WaveScheduler, *graph.DAG, *models.Allocation) {
	t.Helper()

	dag, err := graph.Build(tasks)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := dag.ComputeWaves(); err != nil {
		t.Fatalf("ComputeWaves: %v", err)
	}

	assignments := make(map[string][]string, len(tasks))
	for _, task := range tasks {
		assignments[task.ID] = []string{"agent_one"}
	}
	alloc := &models.Allocation{
		Assignments: assignments,
		Strategy:    models.StrategyStagedWaves,
	}

	return NewWaveScheduler(worker.NewPool(w, 4), nil, NopLogger()), dag, alloc
}

func TestSchedulerRunsAllWaves(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task0001", Description: "first"},
		{ID: "task0002", Description: "second", DependsOn: []string{"task0001"}},
		{ID: "task0003", Description: "third", DependsOn: []string{"task0002"}},
	}
	w := &stubWorker{}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	res, err := sched.Execute(context.Background(), dag, alloc)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Waves != 3 {
		t.Errorf("waves = %d, expected 3", res.Waves)
	}
	if len(res.Results) != 3 {
		t.Fatalf("results = %d, expected 3", len(res.Results))
	}
	for _, r := range res.Results {
		if r.Status != models.TaskStatusCompleted {
			t.Errorf("task %s status = %q, expected completed", r.TaskID, r.Status)
		}
		if r.AgentID != "agent_one" {
			t.Errorf("task %s agent = %q, expected agent_one", r.TaskID, r.AgentID)
		}
	}

	// Chain order must hold across waves.
	want := []string{"task0001", "task0002", "task0003"}
	for i, id := range w.executed {
		if id != want[i] {
			t.Errorf("execution order %v, expected %v", w.executed, want)
			break
		}
	}
}

func TestSchedulerWaveBarrier(t *testing.T) {
	// Two independent roots and a join task: the join must not start
	// until both roots settle.
	tasks := []*models.Task{
		{ID: "task0001", Description: "left"},
		{ID: "task0002", Description: "right"},
		{ID: "task0003", Description: "join", DependsOn: []string{"task0001", "task0002"}},
	}
	w := &stubWorker{}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	if _, err := sched.Execute(context.Background(), dag, alloc); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if last := w.executed[len(w.executed)-1]; last != "task0003" {
		t.Errorf("join task ran at position %v, expected last", w.executed)
	}
}

func TestSchedulerFailureSkipsDependents(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task0001", Description: "root"},
		{ID: "task0002", Description: "doomed", DependsOn: []string{"task0001"}},
		{ID: "task0003", Description: "downstream", DependsOn: []string{"task0002"}},
		{ID: "task0004", Description: "independent"},
	}
	w := &stubWorker{failIDs: map[string]bool{"task0002": true}}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	res, err := sched.Execute(context.Background(), dag, alloc)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	byID := make(map[string]models.TaskResult)
	for _, r := range res.Results {
		byID[r.TaskID] = r
	}

	if byID["task0002"].Status != models.TaskStatusFailed {
		t.Errorf("task0002 = %q, expected failed", byID["task0002"].Status)
	}
	if byID["task0002"].Error == "" {
		t.Error("failed task should carry the error text")
	}
	if byID["task0003"].Status != models.TaskStatusSkipped {
		t.Errorf("task0003 = %q, expected skipped", byID["task0003"].Status)
	}
	if byID["task0001"].Status != models.TaskStatusCompleted {
		t.Errorf("task0001 = %q, expected completed", byID["task0001"].Status)
	}
	if byID["task0004"].Status != models.TaskStatusCompleted {
		t.Errorf("independent task = %q, expected completed", byID["task0004"].Status)
	}

	// The skipped task settles without ever reaching the worker.
	for _, id := range w.executed {
		if id == "task0003" {
			t.Error("skipped task was dispatched to the worker")
		}
	}
}

func TestSchedulerPanicBecomesFailedResult(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task0001", Description: "bomb"},
		{ID: "task0002", Description: "dependent", DependsOn: []string{"task0001"}},
	}
	w := &stubWorker{panicIDs: map[string]bool{"task0001": true}}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	res, err := sched.Execute(context.Background(), dag, alloc)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	byID := make(map[string]models.TaskResult)
	for _, r := range res.Results {
		byID[r.TaskID] = r
	}
	if byID["task0001"].Status != models.TaskStatusFailed {
		t.Errorf("panicked task = %q, expected failed", byID["task0001"].Status)
	}
	if byID["task0002"].Status != models.TaskStatusSkipped {
		t.Errorf("dependent = %q, expected skipped", byID["task0002"].Status)
	}
}

func TestSchedulerCancellationReturnsPartialResult(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task0001", Description: "first"},
		{ID: "task0002", Description: "second", DependsOn: []string{"task0001"}},
	}
	w := &stubWorker{}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sched.Execute(ctx, dag, alloc)
	if err == nil {
		t.Fatal("expected context error")
	}
	if len(res.Results) != 0 {
		t.Errorf("results = %d, expected none before the first wave", len(res.Results))
	}
}

func TestSchedulerBoundedConcurrency(t *testing.T) {
	var tasks []*models.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, &models.Task{
			ID:          fmt.Sprintf("task%04d", i),
			Description: "parallel",
		})
	}
	w := &stubWorker{}
	sched, dag, alloc := schedulerFixture(t, tasks, w)

	if _, err := sched.Execute(context.Background(), dag, alloc); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if w.peak > 4 {
		t.Errorf("peak concurrency = %d, expected at most the pool bound 4", w.peak)
	}
	if len(w.executed) != 12 {
		t.Errorf("executed = %d, expected 12", len(w.executed))
	}
}
