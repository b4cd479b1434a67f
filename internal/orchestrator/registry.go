package orchestrator

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ebuckley/cascade/pkg/models"
)

// emaAlpha is the smoothing factor for execution time and failure rate.
const emaAlpha = 0.3

// Local confidence adjustments applied by UpdateAgentMetrics.
const (
	fastSuccessBoost = 0.02
	failurePenalty   = 0.05
)

// AgentFilter narrows FindAgents results. Zero-valued fields are ignored.
type AgentFilter struct {
	// Cluster filters by exact cluster key.
	Cluster string
	// Skills filters to agents with at least one matching skill.
	Skills []string
	// Complexity filters to agents supporting the level.
	Complexity models.ComplexityLevel
}

// Registry is the catalog of agents grouped by cluster.
// It is constructed once with the built-in defaults and mutated only
// through metric and confidence updates.
type Registry struct {
	mu sync.RWMutex
	// agents maps agent IDs to agent records.
	agents map[string]*models.Agent
	// agentOrder preserves registration order so that equal-confidence
	// ranking is stable.
	agentOrder []string
	// clusters maps cluster keys to cluster records.
	clusters map[string]*models.Cluster
	// clusterOrder preserves cluster registration order.
	clusterOrder []string
}

// NewRegistry creates a Registry pre-populated with the built-in
// clusters and agents.
func NewRegistry() *Registry {
	r := &Registry{
		agents:   make(map[string]*models.Agent),
		clusters: make(map[string]*models.Cluster),
	}
	for _, c := range builtinClusters() {
		r.clusters[c.ID] = c
		r.clusterOrder = append(r.clusterOrder, c.ID)
	}
	for _, a := range builtinAgents() {
		r.agents[a.ID] = a
		r.agentOrder = append(r.agentOrder, a.ID)
		r.clusters[a.Cluster].AgentIDs = append(r.clusters[a.Cluster].AgentIDs, a.ID)
	}
	return r
}

// Register adds an agent to the registry and its cluster.
// Returns an error if the agent ID exists or the cluster is unknown.
func (r *Registry) Register(a *models.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.agents[a.ID]; ok {
		return fmt.Errorf("agent %s already registered", a.ID)
	}
	cluster, ok := r.clusters[a.Cluster]
	if !ok {
		return fmt.Errorf("agent %s references unknown cluster %s", a.ID, a.Cluster)
	}

	r.agents[a.ID] = a
	r.agentOrder = append(r.agentOrder, a.ID)
	cluster.AgentIDs = append(cluster.AgentIDs, a.ID)
	return nil
}

// RegisterCluster adds a cluster to the registry.
func (r *Registry) RegisterCluster(c *models.Cluster) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clusters[c.ID]; ok {
		return fmt.Errorf("cluster %s already registered", c.ID)
	}
	r.clusters[c.ID] = c
	r.clusterOrder = append(r.clusterOrder, c.ID)
	return nil
}

// FindAgents returns agents matching the filter, sorted descending by
// current confidence score. The sort is stable over registration order.
func (r *Registry) FindAgents(filter AgentFilter) []*models.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*models.Agent
	for _, id := range r.agentOrder {
		a := r.agents[id]
		if filter.Cluster != "" && a.Cluster != filter.Cluster {
			continue
		}
		if len(filter.Skills) > 0 && !a.HasAnySkill(filter.Skills) {
			continue
		}
		if filter.Complexity != "" && !a.SupportsComplexity(filter.Complexity) {
			continue
		}
		found = append(found, a)
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ConfidenceScore > found[j].ConfidenceScore
	})
	return found
}

// Agent returns the agent with the given ID, or nil.
func (r *Registry) Agent(id string) *models.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id]
}

// Agents returns all agents in registration order.
func (r *Registry) Agents() []*models.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Agent, 0, len(r.agentOrder))
	for _, id := range r.agentOrder {
		out = append(out, r.agents[id])
	}
	return out
}

// Clusters returns all clusters in registration order.
func (r *Registry) Clusters() []*models.Cluster {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Cluster, 0, len(r.clusterOrder))
	for _, id := range r.clusterOrder {
		out = append(out, r.clusters[id])
	}
	return out
}

// UpdateAgentMetrics folds one task outcome into an agent's metrics.
// The duration is in seconds. Execution time and failure rate move by
// exponential moving average; confidence gets a small local adjustment:
// +0.02 for a success faster than the agent's current average, -0.05 on
// failure. Confidence stays within [MinConfidence, MaxConfidence].
func (r *Registry) UpdateAgentMetrics(agentID string, duration float64, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[agentID]
	if !ok {
		return
	}

	a.TotalExecutions++

	prevAvg := a.AvgExecutionTime
	a.AvgExecutionTime = emaAlpha*duration + (1-emaAlpha)*prevAvg

	failure := 0.0
	if failed {
		failure = 1.0
	}
	a.FailureRate = emaAlpha*failure + (1-emaAlpha)*a.FailureRate

	if failed {
		a.ConfidenceScore = clampConfidence(a.ConfidenceScore - failurePenalty)
	} else if duration < prevAvg {
		a.ConfidenceScore = clampConfidence(a.ConfidenceScore + fastSuccessBoost)
	}
}

// UpdateConfidence applies a confidence delta to an agent, clamped to the
// confidence bounds and rounded to three decimals. This is the entry point
// for the learning system's batched updates.
func (r *Registry) UpdateConfidence(agentID string, delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[agentID]
	if !ok {
		return
	}
	a.ConfidenceScore = math.Round(clampConfidence(a.ConfidenceScore+delta)*1000) / 1000
}

func clampConfidence(v float64) float64 {
	if v < models.MinConfidence {
		return models.MinConfidence
	}
	if v > models.MaxConfidence {
		return models.MaxConfidence
	}
	return v
}

// seedFile is the YAML shape accepted by LoadSeedFile.
type seedFile struct {
	Clusters []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"clusters"`
	Agents []struct {
		ID         string   `yaml:"id"`
		Role       string   `yaml:"role"`
		Cluster    string   `yaml:"cluster"`
		Skills     []string `yaml:"skills"`
		Complexity []string `yaml:"complexity"`
		Confidence float64  `yaml:"confidence"`
		AvgTime    float64  `yaml:"avg_time"`
	} `yaml:"agents"`
}

// LoadSeedFile registers additional clusters and agents from a YAML file
// on top of the built-in defaults. Seeded confidence is clamped to the
// standard bounds.
func (r *Registry) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, c := range seeds.Clusters {
		if err := r.RegisterCluster(&models.Cluster{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
		}); err != nil {
			return err
		}
	}

	for _, s := range seeds.Agents {
		levels := make([]models.ComplexityLevel, 0, len(s.Complexity))
		for _, l := range s.Complexity {
			level := models.ComplexityLevel(l)
			if !level.Valid() {
				return fmt.Errorf("agent %s: unknown complexity level %q", s.ID, l)
			}
			levels = append(levels, level)
		}
		if err := r.Register(&models.Agent{
			ID:               s.ID,
			Role:             s.Role,
			Cluster:          s.Cluster,
			Skills:           s.Skills,
			Complexity:       levels,
			ConfidenceScore:  clampConfidence(s.Confidence),
			AvgExecutionTime: s.AvgTime,
			CreatedAt:        time.Now(),
		}); err != nil {
			return err
		}
	}

	return nil
}
