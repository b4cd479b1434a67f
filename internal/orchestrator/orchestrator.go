package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ebuckley/cascade/internal/gate"
	"github.com/ebuckley/cascade/internal/graph"
	"github.com/ebuckley/cascade/internal/learning"
	"github.com/ebuckley/cascade/internal/memory"
	"github.com/ebuckley/cascade/internal/worker"
	"github.com/ebuckley/cascade/pkg/models"
)

// Config contains construction options for the Orchestrator.
type Config struct {
	// Worker is the worker body for task execution.
	// If nil, the deterministic simulator is used.
	Worker worker.Worker
	// MaxWorkers bounds in-flight task execution (default 8).
	MaxWorkers int
	// SnapshotPath, when set, persists memory after every request.
	SnapshotPath string
	// EventBuffer sizes the event channel (default 100).
	EventBuffer int
	// Logger receives debug output. If nil, a no-op logger is used.
	Logger *DebugLogger
}

// ExecOptions carries the per-request collaborators.
type ExecOptions struct {
	// SessionID tags the request in session memory.
	SessionID string
	// Gate is the side-effect permission collaborator; nil approves all.
	Gate gate.Gate
}

// Result is the success form of a pipeline run.
type Result struct {
	// Output is the user-facing aggregated summary.
	Output string
	// Pipeline holds each completed stage's record.
	Pipeline models.Pipeline
	// Metrics is the per-request summary.
	Metrics models.Metrics
}

// Orchestrator owns one instance of every pipeline component and runs
// the ten-stage cognitive pipeline: parse, classify, decompose, score,
// allocate, execute, evaluate, aggregate, learn, emit. All stages are
// synchronous except DAG execution, which is internally concurrent.
type Orchestrator struct {
	classifier *Classifier
	decomposer *Decomposer
	scorer     *Scorer
	registry   *Registry
	spawner    *Spawner
	evaluator  *Evaluator
	pool       *worker.Pool
	memory     *memory.Store
	learning   *learning.System
	emitter    *EventEmitter
	logger     *DebugLogger

	snapshotPath string

	// mu serializes pipeline execution; the registry and memory store
	// are shared across requests.
	mu sync.Mutex
}

// New creates an Orchestrator with the given configuration.
func New(cfg Config) *Orchestrator {
	if cfg.Worker == nil {
		cfg.Worker = worker.NewSimulated()
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}

	registry := NewRegistry()
	store := memory.NewStore()

	return &Orchestrator{
		classifier:   NewClassifier(),
		decomposer:   NewDecomposer(),
		scorer:       NewScorer(),
		registry:     registry,
		spawner:      NewSpawner(registry),
		evaluator:    NewEvaluator(),
		pool:         worker.NewPool(cfg.Worker, cfg.MaxWorkers),
		memory:       store,
		learning:     learning.NewSystem(store),
		emitter:      NewEventEmitter(cfg.EventBuffer),
		logger:       cfg.Logger,
		snapshotPath: cfg.SnapshotPath,
	}
}

// Registry exposes the agent registry for inspection and seeding.
func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// Memory exposes the memory store for inspection and persistence.
func (o *Orchestrator) Memory() *memory.Store {
	return o.memory
}

// Events returns the pipeline event channel for an optional renderer.
func (o *Orchestrator) Events() <-chan PipelineEvent {
	return o.emitter.Events()
}

// Close releases the orchestrator's event channel.
func (o *Orchestrator) Close() {
	o.emitter.Close()
}

// LoadMemory restores the memory snapshot if one is configured.
// Load failures are logged and never propagated.
func (o *Orchestrator) LoadMemory() {
	if o.snapshotPath == "" {
		return
	}
	if err := o.memory.Load(o.snapshotPath); err != nil {
		log.Printf("[orchestrator] memory load failed: %v", err)
	}
}

// Execute runs the full pipeline for one request. Stage-six task failures
// are absorbed into task results; any other stage failing aborts the
// pipeline and returns the error form with whatever stages completed.
func (o *Orchestrator) Execute(ctx context.Context, input string, opts ExecOptions) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := time.Now()
	res := &Result{}

	fail := func(err error) (*Result, error) {
		res.Metrics.Duration = time.Since(start).Milliseconds()
		o.emitter.Emit(PipelineEvent{Type: EventPipelineFailed, Message: err.Error()})
		return res, err
	}

	// Stage 1: parse.
	request := strings.TrimSpace(input)
	if request == "" {
		return fail(ErrEmptyRequest)
	}
	if opts.Gate != nil {
		ctx = gate.NewContext(ctx, opts.Gate)
	}
	o.memory.SetSession("last_request", request)
	if opts.SessionID != "" {
		o.memory.SetSession("session_id", opts.SessionID)
	}

	// Stage 2: classify intent.
	intent := o.classifier.Classify(request)
	res.Pipeline.Intent = intent
	o.stageDone("classify", intent.Type)

	// Stage 3: decompose.
	dec := o.decomposer.Decompose(request, intent)
	res.Pipeline.Decomposition = dec
	o.stageDone("decompose", pluralTasks(len(dec.Tasks)))

	// Stage 4: score complexity.
	cx := o.scorer.Score(dec)
	res.Pipeline.Complexity = cx
	res.Metrics.ComplexityLevel = cx.Level
	o.stageDone("complexity", string(cx.Level))

	// Stage 5: allocate agents.
	alloc, err := o.spawner.Allocate(dec, cx, intent)
	if err != nil {
		return fail(err)
	}
	res.Pipeline.Agents = alloc
	res.Metrics.AgentsUsed = len(alloc.Agents)
	o.stageDone("allocate", string(alloc.Strategy))

	// Stage 6: build and execute the DAG.
	dag, err := graph.Build(dec.Tasks)
	if err != nil {
		return fail(err)
	}
	if _, err := dag.ComputeWaves(); err != nil {
		return fail(err)
	}

	scheduler := NewWaveScheduler(o.pool, o.emitter, o.logger)
	exec, err := scheduler.Execute(ctx, dag, alloc)
	res.Pipeline.Execution = exec
	if err != nil {
		// Context cancellation: remaining waves were not started.
		return fail(err)
	}
	o.recordAgentMetrics(exec)
	o.stageDone("execute", pluralTasks(len(exec.Results)))

	// Stage 7: evaluate.
	eval := o.evaluator.Evaluate(exec)
	res.Pipeline.Evaluation = eval
	res.Metrics.TasksCompleted = eval.Completed
	res.Metrics.TasksFailed = eval.Failed
	o.stageDone("evaluate", "")

	// Stage 8: aggregate.
	res.Output = Aggregate(eval, exec)

	// Stage 9: learn. Best-effort; failures are swallowed.
	o.learn(request, &res.Pipeline)
	o.memory.SetSession("last_quality", eval.Quality)
	o.persistMemory()

	// Stage 10: emit.
	res.Metrics.Duration = time.Since(start).Milliseconds()
	o.emitter.Emit(PipelineEvent{
		Type:    EventPipelineDone,
		Message: res.Output,
	})

	return res, nil
}

// recordAgentMetrics folds execution outcomes into registry metrics.
// Durations convert from milliseconds to the registry's seconds.
func (o *Orchestrator) recordAgentMetrics(exec *models.ExecutionResult) {
	for _, r := range exec.Results {
		if r.AgentID == "" || r.Status == models.TaskStatusSkipped {
			continue
		}
		o.registry.UpdateAgentMetrics(r.AgentID, float64(r.Duration)/1000, r.Status == models.TaskStatusFailed)
	}
}

// learn runs the learning stage, isolating the pipeline from any panic.
func (o *Orchestrator) learn(request string, p *models.Pipeline) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[orchestrator] learning stage panicked: %v", r)
		}
	}()

	o.learning.Learn(request, p)
	applied := o.learning.ApplyUpdates(o.registry)
	o.logger.Log("[learn] applied %d confidence updates", applied)
	o.stageDone("learn", "")
}

// persistMemory snapshots memory if configured. Save failures are logged
// and never propagated; memory continues in-process.
func (o *Orchestrator) persistMemory() {
	if o.snapshotPath == "" {
		return
	}
	if err := o.memory.Save(o.snapshotPath); err != nil {
		log.Printf("[orchestrator] memory save failed: %v", err)
	}
}

func (o *Orchestrator) stageDone(stage, message string) {
	o.logger.Log("[pipeline] stage %s done: %s", stage, message)
	o.emitter.Emit(PipelineEvent{Type: EventStageCompleted, Stage: stage, Message: message})
}

func pluralTasks(n int) string {
	if n == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", n)
}
