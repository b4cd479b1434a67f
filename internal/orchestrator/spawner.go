package orchestrator

import (
	"github.com/ebuckley/cascade/pkg/models"
)

// Spawner selects agents for a decomposition and assigns them per task.
type Spawner struct {
	registry *Registry
}

// NewSpawner creates a Spawner backed by the given registry.
func NewSpawner(registry *Registry) *Spawner {
	return &Spawner{registry: registry}
}

// Allocate pools candidates from the primary and secondary intent
// clusters, deduplicates by ID preserving order, trims the pool to the
// complexity level's agent count, and assigns agents to every task.
// Tasks whose cluster has no selected agent fall back to the first
// selected agent, so every assignment list is non-empty.
// Returns ErrNoEligibleAgents when the deduplicated pool is empty.
func (s *Spawner) Allocate(dec *models.Decomposition, cx *models.Complexity, intent *models.Intent) (*models.Allocation, error) {
	pool := s.registry.FindAgents(AgentFilter{
		Cluster:    intent.Cluster,
		Complexity: cx.Level,
	})
	for _, sec := range intent.Secondary {
		pool = append(pool, s.registry.FindAgents(AgentFilter{
			Cluster:    ClusterForIntent(sec.Type),
			Complexity: cx.Level,
		})...)
	}

	seen := make(map[string]bool, len(pool))
	var deduped []*models.Agent
	for _, a := range pool {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		deduped = append(deduped, a)
	}

	if len(deduped) == 0 {
		return nil, ErrNoEligibleAgents
	}

	var strategy models.AllocationStrategy
	count := cx.AgentCount
	switch cx.Level {
	case models.ComplexitySimple:
		strategy = models.StrategyDirectExecution
		if count < 1 {
			count = 1
		}
	case models.ComplexityMedium:
		strategy = models.StrategyParallelPool
	default:
		strategy = models.StrategyStagedWaves
		count = 10
	}
	if count > len(deduped) {
		count = len(deduped)
	}
	selected := deduped[:count]

	assignments := make(map[string][]string, len(dec.Tasks))
	for _, task := range dec.Tasks {
		var ids []string
		for _, a := range selected {
			if a.Cluster == task.Cluster {
				ids = append(ids, a.ID)
			}
		}
		if len(ids) == 0 {
			ids = []string{selected[0].ID}
		}
		assignments[task.ID] = ids
	}

	return &models.Allocation{
		Agents:      selected,
		Assignments: assignments,
		Strategy:    strategy,
	}, nil
}
