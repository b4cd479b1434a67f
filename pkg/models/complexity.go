package models

// ComplexityLevel buckets a request by its complexity score.
type ComplexityLevel string

const (
	// ComplexitySimple covers scores up to 3.
	ComplexitySimple ComplexityLevel = "simple"
	// ComplexityMedium covers scores up to 7.
	ComplexityMedium ComplexityLevel = "medium"
	// ComplexityComplex covers everything above 7.
	ComplexityComplex ComplexityLevel = "complex"
)

// Valid returns true if the level is a known value.
func (l ComplexityLevel) Valid() bool {
	switch l {
	case ComplexitySimple, ComplexityMedium, ComplexityComplex:
		return true
	default:
		return false
	}
}

// AgentRange returns the [lo, hi] agent count range for the level.
func (l ComplexityLevel) AgentRange() (lo, hi int) {
	switch l {
	case ComplexitySimple:
		return 1, 2
	case ComplexityMedium:
		return 3, 5
	default:
		return 5, 10
	}
}

// ComplexityDetails breaks down the inputs to the complexity score.
type ComplexityDetails struct {
	// SubtaskCount is the number of tasks in the decomposition.
	SubtaskCount int `json:"subtask_count"`
	// DependencyWeight is 1 + totalDeps/max(subtaskCount, 1).
	DependencyWeight float64 `json:"dependency_weight"`
	// RiskFactor starts at 1.0, +0.2 per risk keyword occurrence, capped at 3.0.
	RiskFactor float64 `json:"risk_factor"`
}

// Complexity is the scorer's output for one decomposition.
type Complexity struct {
	// Score is subtaskCount * dependencyWeight * riskFactor, one decimal.
	Score float64 `json:"score"`
	// Level is the bucket the score falls into.
	Level ComplexityLevel `json:"level"`
	// AgentCount is how many agents the spawner should select.
	AgentCount int `json:"agent_count"`
	// Waves is the depth of the dependency graph plus one.
	Waves int `json:"waves"`
	// Details records the score inputs.
	Details ComplexityDetails `json:"details"`
}
