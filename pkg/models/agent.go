package models

import "time"

// Confidence bounds for all agents. Updates are clamped to this range.
const (
	MinConfidence = 0.1
	MaxConfidence = 1.0
)

// Agent represents a named worker profile in the registry.
// An agent is a selection target, not a thread.
type Agent struct {
	// ID is the stable identifier for this agent.
	ID string `json:"id"`
	// Role is a short human-readable description of what the agent does.
	Role string `json:"role"`
	// Cluster is the single cluster this agent belongs to.
	Cluster string `json:"cluster"`
	// Skills are the capability tags used for skill-overlap filtering.
	Skills []string `json:"skills"`
	// Complexity lists the complexity levels this agent supports.
	Complexity []ComplexityLevel `json:"complexity"`
	// ConfidenceScore ranks the agent during selection; bounded to [0.1, 1.0].
	ConfidenceScore float64 `json:"confidence_score"`
	// AvgExecutionTime is an exponential moving average in seconds (alpha=0.3).
	AvgExecutionTime float64 `json:"avg_execution_time"`
	// TotalExecutions counts how many tasks this agent has run.
	TotalExecutions int `json:"total_executions"`
	// FailureRate is an exponential moving average in [0, 1] (alpha=0.3).
	FailureRate float64 `json:"failure_rate"`
	// CreatedAt is when the agent was registered.
	CreatedAt time.Time `json:"created_at"`
}

// SupportsComplexity returns true if the agent handles the given level.
func (a *Agent) SupportsComplexity(level ComplexityLevel) bool {
	for _, l := range a.Complexity {
		if l == level {
			return true
		}
	}
	return false
}

// HasAnySkill returns true if the agent has at least one of the given skills.
func (a *Agent) HasAnySkill(skills []string) bool {
	for _, want := range skills {
		for _, have := range a.Skills {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Cluster is a named grouping of agents by domain.
// No agent appears in more than one cluster.
type Cluster struct {
	// ID is the cluster key used by intents and tasks.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Description explains the cluster's domain.
	Description string `json:"description"`
	// AgentIDs lists the member agents in registration order.
	AgentIDs []string `json:"agent_ids"`
}

// AllocationStrategy describes how the spawner intends the DAG to run.
type AllocationStrategy string

const (
	// StrategyDirectExecution is used for simple requests.
	StrategyDirectExecution AllocationStrategy = "direct_execution"
	// StrategyParallelPool is used for medium requests.
	StrategyParallelPool AllocationStrategy = "parallel_pool"
	// StrategyStagedWaves is used for complex requests.
	StrategyStagedWaves AllocationStrategy = "dag_staged_waves"
)

// Allocation is the spawner's output: which agents run which tasks.
type Allocation struct {
	// Agents is the deduplicated selection, ranked by confidence.
	Agents []*Agent `json:"agents"`
	// Assignments maps every task ID to a non-empty list of agent IDs.
	Assignments map[string][]string `json:"assignments"`
	// Strategy is derived from the complexity level.
	Strategy AllocationStrategy `json:"strategy"`
}
