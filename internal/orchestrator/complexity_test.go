package orchestrator

import (
	"math"
	"testing"

	"github.com/ebuckley/cascade/pkg/models"
)

func chainTasks(descriptions ...string) *models.Decomposition {
	dec := &models.Decomposition{}
	var prev string
	for i, d := range descriptions {
		id := string(rune('a'+i)) + "0000000"
		task := &models.Task{ID: id, Index: i, Description: d}
		if prev != "" {
			task.DependsOn = []string{prev}
		}
		dec.Tasks = append(dec.Tasks, task)
		prev = id
	}
	return dec
}

func independentTasks(descriptions ...string) *models.Decomposition {
	dec := &models.Decomposition{HasParallelizable: len(descriptions) >= 2}
	for i, d := range descriptions {
		dec.Tasks = append(dec.Tasks, &models.Task{
			ID: string(rune('a'+i)) + "0000000", Index: i, Description: d,
		})
	}
	return dec
}

func TestScoreLevels(t *testing.T) {
	tests := []struct {
		name      string
		dec       *models.Decomposition
		wantScore float64
		wantLevel models.ComplexityLevel
	}{
		{
			"single plain task",
			independentTasks("list files"),
			1.0, models.ComplexitySimple,
		},
		{
			"two independent tasks with one risk keyword",
			independentTasks("build a REST API", "authentication"),
			2.4, models.ComplexitySimple,
		},
		{
			"three task chain without risk",
			chainTasks("read config", "parse config", "print config"),
			5.0, models.ComplexityMedium,
		},
		{
			"boundary score of exactly seven is complex",
			chainTasks("research OAuth", "build API", "deploy to production"),
			7.0, models.ComplexityComplex,
		},
	}

	s := NewScorer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.dec)
			if math.Abs(got.Score-tc.wantScore) > 1e-9 {
				t.Errorf("score = %v, expected %v", got.Score, tc.wantScore)
			}
			if got.Level != tc.wantLevel {
				t.Errorf("level = %q, expected %q", got.Level, tc.wantLevel)
			}
		})
	}
}

func TestScoreRiskFactorCapped(t *testing.T) {
	dec := independentTasks(
		"deploy production database migration",
		"security authentication payment critical",
		"delete infrastructure deploy production",
	)
	got := NewScorer().Score(dec)
	if got.Details.RiskFactor != maxRiskFactor {
		t.Errorf("risk factor = %v, expected capped at %v", got.Details.RiskFactor, maxRiskFactor)
	}
}

func TestScoreAgentCount(t *testing.T) {
	tests := []struct {
		name string
		dec  *models.Decomposition
		want int
	}{
		// simple, score 1.0: 1 + 0.1*(2-1) rounds to 1
		{"simple request", independentTasks("list files"), 1},
		// medium, score 5.0: 3 + 0.5*(5-3) = 4
		{"medium request", chainTasks("read config", "parse config", "print config"), 4},
		// complex, score 7.0: 5 + 0.7*(10-5) = 8.5 rounds to 9
		{"complex request", chainTasks("research OAuth", "build API", "deploy to production"), 9},
	}

	s := NewScorer()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Score(tc.dec); got.AgentCount != tc.want {
				t.Errorf("agentCount = %d, expected %d", got.AgentCount, tc.want)
			}
		})
	}
}

func TestWaveCount(t *testing.T) {
	tests := []struct {
		name string
		dec  *models.Decomposition
		want int
	}{
		{"no tasks", &models.Decomposition{}, 1},
		{"independent tasks share one wave", independentTasks("a task", "b task", "c task"), 1},
		{"chain depth drives waves", chainTasks("first task", "second task", "third task"), 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := waveCount(tc.dec.Tasks); got != tc.want {
				t.Errorf("waveCount = %d, expected %d", got, tc.want)
			}
		})
	}
}

func TestWaveCountDiamond(t *testing.T) {
	dec := &models.Decomposition{Tasks: []*models.Task{
		{ID: "root0000"},
		{ID: "left0000", DependsOn: []string{"root0000"}},
		{ID: "righ0000", DependsOn: []string{"root0000"}},
		{ID: "join0000", DependsOn: []string{"left0000", "righ0000"}},
	}}
	if got := NewScorer().Score(dec).Waves; got != 3 {
		t.Errorf("waves = %d, expected 3 for a diamond", got)
	}
}
