package orchestrator

import (
	"math"
	"strings"

	"github.com/ebuckley/cascade/pkg/models"
)

// riskKeywords raise the risk factor by 0.2 per occurrence, capped at 3.0.
var riskKeywords = []string{
	"deploy", "delete", "production", "database", "migration",
	"security", "authentication", "payment", "critical", "infrastructure",
}

const maxRiskFactor = 3.0

// Scorer turns a decomposition into a complexity rating.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes subtaskCount * dependencyWeight * riskFactor, rounded to
// one decimal, buckets it into a level, clamps the agent count to the
// level's range, and derives the wave count from dependency depth.
func (s *Scorer) Score(dec *models.Decomposition) *models.Complexity {
	subtaskCount := len(dec.Tasks)

	totalDeps := 0
	for _, t := range dec.Tasks {
		totalDeps += len(t.DependsOn)
	}
	denom := subtaskCount
	if denom < 1 {
		denom = 1
	}
	dependencyWeight := 1 + float64(totalDeps)/float64(denom)

	risk := 1.0
	for _, t := range dec.Tasks {
		lower := strings.ToLower(t.Description)
		for _, kw := range riskKeywords {
			risk += 0.2 * float64(strings.Count(lower, kw))
		}
	}
	if risk > maxRiskFactor {
		risk = maxRiskFactor
	}

	score := math.Round(float64(subtaskCount)*dependencyWeight*risk*10) / 10

	// A three-task sequential chain with two risk keywords lands exactly on
	// 7.0 and is treated as complex, so the medium bucket is half-open.
	var level models.ComplexityLevel
	switch {
	case score <= 3:
		level = models.ComplexitySimple
	case score < 7:
		level = models.ComplexityMedium
	default:
		level = models.ComplexityComplex
	}

	lo, hi := level.AgentRange()
	agentCount := int(math.Round(float64(lo) + math.Min(score/10, 1)*float64(hi-lo)))

	return &models.Complexity{
		Score:      score,
		Level:      level,
		AgentCount: agentCount,
		Waves:      waveCount(dec.Tasks),
		Details: models.ComplexityDetails{
			SubtaskCount:     subtaskCount,
			DependencyWeight: dependencyWeight,
			RiskFactor:       risk,
		},
	}
}

// waveCount is 1 + the maximum dependency depth, with roots at depth 0.
// Dependencies always point at earlier tasks, so one forward pass suffices.
func waveCount(tasks []*models.Task) int {
	if len(tasks) == 0 {
		return 1
	}

	depth := make(map[string]int, len(tasks))
	maxDepth := 0
	for _, t := range tasks {
		d := 0
		for _, depID := range t.DependsOn {
			if dd := depth[depID] + 1; dd > d {
				d = dd
			}
		}
		depth[t.ID] = d
		if d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth + 1
}
