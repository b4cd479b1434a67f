package worker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// Simulated is the default worker body: a deterministic-shape simulator
// that sleeps 50-250ms and echoes the first assigned agent and the task
// description. It exists so the pipeline runs end to end without an LLM
// backend configured.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a Simulated worker.
func NewSimulated() *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSimulatedSeeded creates a Simulated worker with a fixed seed,
// for reproducible timing in tests.
func NewSimulatedSeeded(seed int64) *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(seed))}
}

// Execute sleeps a random 50-250ms, honoring cancellation, and returns a
// synthetic output line.
func (s *Simulated) Execute(ctx context.Context, task *models.Task, agentIDs []string) (*Result, error) {
	s.mu.Lock()
	delay := time.Duration(50+s.rng.Intn(200)) * time.Millisecond
	s.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	agent := "unassigned"
	if len(agentIDs) > 0 {
		agent = agentIDs[0]
	}

	return &Result{
		Output: fmt.Sprintf("[%s] completed: %s", agent, task.Description),
		Metadata: map[string]any{
			"simulated": true,
			"delay_ms":  delay.Milliseconds(),
		},
	}, nil
}
