package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebuckley/cascade/internal/graph"
	"github.com/ebuckley/cascade/internal/worker"
	"github.com/ebuckley/cascade/pkg/models"
)

// WaveScheduler drives wave-by-wave DAG execution through the worker pool.
type WaveScheduler struct {
	pool    *worker.Pool
	emitter *EventEmitter
	logger  *DebugLogger
}

// NewWaveScheduler creates a WaveScheduler. The emitter may be nil.
func NewWaveScheduler(pool *worker.Pool, emitter *EventEmitter, logger *DebugLogger) *WaveScheduler {
	return &WaveScheduler{pool: pool, emitter: emitter, logger: logger}
}

// settled pairs a task's result with its dispatch bookkeeping.
type settled struct {
	result models.TaskResult
}

// Execute runs the DAG wave by wave. Every node in a wave is dispatched
// concurrently; the next wave does not start until the current one has
// fully settled. Worker failures become failed TaskResults and mark all
// transitive dependents skipped; they never abort execution. A cancelled
// context stops before the next wave and is returned alongside the
// partial result.
func (s *WaveScheduler) Execute(ctx context.Context, dag *graph.DAG, alloc *models.Allocation) (*models.ExecutionResult, error) {
	waves := dag.Waves()
	result := &models.ExecutionResult{TotalTasks: dag.Size()}

	for waveIdx, wave := range waves {
		if err := ctx.Err(); err != nil {
			s.logger.Log("[scheduler] cancelled before wave %d: %v", waveIdx, err)
			return result, err
		}

		s.emitter.Emit(PipelineEvent{
			Type:    EventWaveStarted,
			Wave:    waveIdx,
			Message: fmt.Sprintf("dispatching %d tasks", len(wave)),
		})
		s.logger.Log("[scheduler] wave %d: %d nodes", waveIdx, len(wave))

		settledCh := make(chan settled, len(wave))
		var wg sync.WaitGroup
		dispatched := 0

		// Dispatch order equals task index order within the wave.
		for _, node := range wave {
			if dag.Status(node.Task.ID) == models.TaskStatusSkipped {
				res := models.TaskResult{
					TaskID:      node.Task.ID,
					Description: node.Task.Description,
					Status:      models.TaskStatusSkipped,
					Wave:        waveIdx,
				}
				dag.SetResult(node.Task.ID, &res)
				result.Results = append(result.Results, res)
				s.emitter.Emit(PipelineEvent{
					Type:        EventTaskSettled,
					Wave:        waveIdx,
					TaskID:      node.Task.ID,
					Description: node.Task.Description,
					Status:      models.TaskStatusSkipped,
				})
				continue
			}

			agentIDs := alloc.Assignments[node.Task.ID]
			agentID := ""
			if len(agentIDs) > 0 {
				agentID = agentIDs[0]
			}

			dag.SetStatus(node.Task.ID, models.TaskStatusRunning)
			s.emitter.Emit(PipelineEvent{
				Type:        EventTaskDispatched,
				Wave:        waveIdx,
				TaskID:      node.Task.ID,
				Description: node.Task.Description,
				AgentID:     agentID,
			})

			dispatched++
			wg.Add(1)
			go s.runTask(ctx, node.Task, agentIDs, agentID, waveIdx, settledCh, &wg)
		}

		// Strict wave barrier: wait for every dispatched task to settle
		// before wave i+1, even if some finished early.
		wg.Wait()
		close(settledCh)

		var failed []string
		for st := range settledCh {
			dag.SetResult(st.result.TaskID, &st.result)
			result.Results = append(result.Results, st.result)
			if st.result.Status == models.TaskStatusFailed {
				failed = append(failed, st.result.TaskID)
			}
			s.emitter.Emit(PipelineEvent{
				Type:        EventTaskSettled,
				Wave:        waveIdx,
				TaskID:      st.result.TaskID,
				Description: st.result.Description,
				AgentID:     st.result.AgentID,
				Status:      st.result.Status,
			})
		}

		for _, taskID := range failed {
			skipped := dag.SkipDependents(taskID)
			if len(skipped) > 0 {
				s.logger.Log("[scheduler] task %s failed, skipping dependents: %v", taskID, skipped)
			}
		}

		result.Waves = waveIdx + 1
		s.emitter.Emit(PipelineEvent{
			Type:    EventWaveCompleted,
			Wave:    waveIdx,
			Message: fmt.Sprintf("%d dispatched", dispatched),
		})
	}

	return result, nil
}

// runTask executes one node through the pool and reports its settled
// result. A panic escaping the worker or pool is reported as a failed
// result with a blank description rather than crashing the wave.
func (s *WaveScheduler) runTask(ctx context.Context, task *models.Task, agentIDs []string, agentID string, waveIdx int, settledCh chan<- settled, wg *sync.WaitGroup) {
	defer wg.Done()

	start := time.Now()
	res := models.TaskResult{
		TaskID:      task.ID,
		Description: task.Description,
		AgentID:     agentID,
		Wave:        waveIdx,
	}

	defer func() {
		if r := recover(); r != nil {
			settledCh <- settled{result: models.TaskResult{
				TaskID:   task.ID,
				Status:   models.TaskStatusFailed,
				Error:    fmt.Sprintf("scheduling harness panic: %v", r),
				Duration: time.Since(start).Milliseconds(),
				AgentID:  agentID,
				Wave:     waveIdx,
			}}
		}
	}()

	out, err := s.pool.Execute(ctx, task, agentIDs)
	res.Duration = time.Since(start).Milliseconds()

	if err != nil {
		res.Status = models.TaskStatusFailed
		res.Error = err.Error()
	} else {
		res.Status = models.TaskStatusCompleted
		res.Output = out.Output
	}

	settledCh <- settled{result: res}
}
