// Package learning closes the reinforcement loop: it records outcomes,
// mines patterns, and batches confidence updates back into the registry.
package learning

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ebuckley/cascade/internal/memory"
	"github.com/ebuckley/cascade/pkg/models"
)

// Confidence deltas enqueued per task outcome.
const (
	fasterThanClusterBoost = 0.02
	taskFailurePenalty     = 0.05
)

// Quality and duration thresholds for pattern mining and solution storage.
const (
	patternQualityThreshold = 0.8
	fastExecutionThreshold  = 100 // milliseconds
	solutionRateThreshold   = 0.8
)

// ConfidenceUpdate is one queued adjustment to an agent's confidence.
type ConfidenceUpdate struct {
	// AgentID names the agent to adjust.
	AgentID string
	// Delta is the signed confidence change.
	Delta float64
	// Reason records why the delta was enqueued.
	Reason string
}

// Registry is the slice of the agent registry the learning system needs.
type Registry interface {
	UpdateConfidence(agentID string, delta float64)
}

// System derives learning signals from finished pipelines.
type System struct {
	memory *memory.Store

	mu    sync.Mutex
	queue []ConfidenceUpdate
}

// NewSystem creates a System writing to the given memory store.
func NewSystem(store *memory.Store) *System {
	return &System{memory: store}
}

// Learn processes one finished request: it appends performance records,
// mines patterns, enqueues confidence deltas, and stores a solution for
// high-success requests. It never fails; learning is best-effort.
func (s *System) Learn(request string, p *models.Pipeline) {
	if p == nil || p.Execution == nil || p.Evaluation == nil {
		return
	}

	level := models.ComplexityLevel("")
	if p.Complexity != nil {
		level = p.Complexity.Level
	}
	clusters := taskClusters(p.Decomposition)

	s.recordPerformance(p.Execution, level, clusters)
	s.minePatterns(p)
	s.deriveDeltas(p.Execution, clusters)
	s.storeSolution(request, p)
}

// taskClusters maps task IDs to their clusters.
func taskClusters(dec *models.Decomposition) map[string]string {
	clusters := make(map[string]string)
	if dec == nil {
		return clusters
	}
	for _, t := range dec.Tasks {
		clusters[t.ID] = t.Cluster
	}
	return clusters
}

// recordPerformance appends one performance record per settled task.
func (s *System) recordPerformance(res *models.ExecutionResult, level models.ComplexityLevel, clusters map[string]string) {
	for _, r := range res.Results {
		if r.AgentID == "" {
			continue
		}
		s.memory.AppendPerformance(models.PerformanceRecord{
			Timestamp:  time.Now(),
			AgentID:    r.AgentID,
			TaskID:     r.TaskID,
			Duration:   r.Duration,
			Success:    r.Status == models.TaskStatusCompleted,
			Complexity: level,
			Cluster:    clusters[r.TaskID],
		})
	}
}

// minePatterns records quality and speed patterns for this request.
func (s *System) minePatterns(p *models.Pipeline) {
	intent := intentType(p)

	if p.Evaluation.Quality > patternQualityThreshold && p.Complexity != nil {
		key := fmt.Sprintf("%s:%s", intent, p.Complexity.Level)
		s.memory.RecordPattern(key,
			fmt.Sprintf("%s requests at %s complexity execute well with this allocation", intent, p.Complexity.Level),
			p.Evaluation.Quality, p.Evaluation.AvgDuration)
	}

	if p.Evaluation.Completed > 0 && p.Evaluation.AvgDuration < fastExecutionThreshold {
		key := fmt.Sprintf("fast_execution:%s", intent)
		s.memory.RecordPattern(key,
			fmt.Sprintf("%s tasks are completing quickly; consider tighter batching", intent),
			p.Evaluation.Quality, p.Evaluation.AvgDuration)
	}
}

// deriveDeltas enqueues confidence updates per task result. A completed
// task beats the cluster average to earn a boost; when a cluster has no
// prior history the comparison baseline is the task's own duration, so
// the first result for a cluster never earns one.
func (s *System) deriveDeltas(res *models.ExecutionResult, clusters map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range res.Results {
		if r.AgentID == "" {
			continue
		}
		switch r.Status {
		case models.TaskStatusCompleted:
			avg, ok := s.memory.ClusterAvgDuration(clusters[r.TaskID])
			if !ok {
				avg = float64(r.Duration)
			}
			if float64(r.Duration) < avg {
				s.queue = append(s.queue, ConfidenceUpdate{
					AgentID: r.AgentID,
					Delta:   fasterThanClusterBoost,
					Reason:  "faster than cluster average",
				})
			}
		case models.TaskStatusFailed:
			s.queue = append(s.queue, ConfidenceUpdate{
				AgentID: r.AgentID,
				Delta:   -taskFailurePenalty,
				Reason:  "task failed",
			})
		}
	}
}

// storeSolution serializes the pipeline summary for high-success requests.
func (s *System) storeSolution(request string, p *models.Pipeline) {
	if p.Evaluation.SuccessRate <= solutionRateThreshold {
		return
	}

	summary, err := json.Marshal(struct {
		Intent     string                 `json:"intent"`
		Complexity models.ComplexityLevel `json:"complexity"`
		Tasks      int                    `json:"tasks"`
		Waves      int                    `json:"waves"`
		Quality    float64                `json:"quality"`
		Results    []models.TaskResult    `json:"results"`
	}{
		Intent:     intentType(p),
		Complexity: complexityLevel(p),
		Tasks:      p.Execution.TotalTasks,
		Waves:      p.Execution.Waves,
		Quality:    p.Evaluation.Quality,
		Results:    p.Execution.Results,
	})
	if err != nil {
		return
	}

	s.memory.StoreSolution(models.TaskSolution{
		TaskDescription: request,
		Solution:        string(summary),
		StoredAt:        time.Now(),
		Embedding:       []float64{},
	})
}

// ApplyUpdates drains the queue into the registry. Each queued delta is
// applied exactly once; the registry clamps and rounds.
func (s *System) ApplyUpdates(registry Registry) int {
	s.mu.Lock()
	pending := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, u := range pending {
		registry.UpdateConfidence(u.AgentID, u.Delta)
	}
	return len(pending)
}

// PendingUpdates returns a copy of the queued updates.
func (s *System) PendingUpdates() []ConfidenceUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ConfidenceUpdate(nil), s.queue...)
}

func intentType(p *models.Pipeline) string {
	if p.Intent != nil {
		return p.Intent.Type
	}
	return "general"
}

func complexityLevel(p *models.Pipeline) models.ComplexityLevel {
	if p.Complexity != nil {
		return p.Complexity.Level
	}
	return ""
}
