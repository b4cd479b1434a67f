package orchestrator

import (
	"testing"

	"github.com/ebuckley/cascade/pkg/models"
)

func TestAllocateStrategies(t *testing.T) {
	tests := []struct {
		name         string
		level        models.ComplexityLevel
		agentCount   int
		wantStrategy models.AllocationStrategy
	}{
		{"simple routes direct", models.ComplexitySimple, 1, models.StrategyDirectExecution},
		{"medium routes parallel pool", models.ComplexityMedium, 4, models.StrategyParallelPool},
		{"complex routes staged waves", models.ComplexityComplex, 9, models.StrategyStagedWaves},
	}

	spawner := NewSpawner(NewRegistry())
	intent := &models.Intent{Type: "code", Cluster: "coding"}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dec := &models.Decomposition{Tasks: []*models.Task{
				{ID: "task0001", Cluster: "coding"},
			}}
			cx := &models.Complexity{Level: tc.level, AgentCount: tc.agentCount}

			got, err := spawner.Allocate(dec, cx, intent)
			if err != nil {
				t.Fatalf("Allocate: %v", err)
			}
			if got.Strategy != tc.wantStrategy {
				t.Errorf("strategy = %q, expected %q", got.Strategy, tc.wantStrategy)
			}
		})
	}
}

func TestAllocateSelectsByConfidence(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{{ID: "task0001", Cluster: "coding"}}}
	cx := &models.Complexity{Level: models.ComplexityMedium, AgentCount: 1}
	intent := &models.Intent{Type: "code", Cluster: "coding"}

	got, err := spawner.Allocate(dec, cx, intent)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(got.Agents) != 1 {
		t.Fatalf("agents = %d, expected 1", len(got.Agents))
	}
	if got.Agents[0].ID != "code_agent_v2" {
		t.Errorf("selected %s, expected the highest-confidence coding agent", got.Agents[0].ID)
	}
}

func TestAllocatePoolsSecondaryClusters(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{{ID: "task0001", Cluster: "coding"}}}
	cx := &models.Complexity{Level: models.ComplexityComplex, AgentCount: 9}
	intent := &models.Intent{
		Type:    "code",
		Cluster: "coding",
		Secondary: []models.SecondaryIntent{
			{Type: "devops", Confidence: 0.667},
			{Type: "research", Confidence: 0.333},
		},
	}

	got, err := spawner.Allocate(dec, cx, intent)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	// complex only admits agents supporting the complex level:
	// coding 1, devops 2, research 1.
	if len(got.Agents) != 4 {
		t.Fatalf("agents = %d, expected 4", len(got.Agents))
	}
	if got.Agents[0].ID != "code_agent_v2" {
		t.Errorf("first agent = %s, expected primary cluster's best", got.Agents[0].ID)
	}

	clusters := make(map[string]bool)
	for _, a := range got.Agents {
		clusters[a.Cluster] = true
	}
	for _, want := range []string{"coding", "devops", "research"} {
		if !clusters[want] {
			t.Errorf("cluster %s missing from pool", want)
		}
	}
}

func TestAllocateDeduplicates(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{{ID: "task0001", Cluster: "coding"}}}
	cx := &models.Complexity{Level: models.ComplexityMedium, AgentCount: 10}
	// The same cluster arriving via primary and secondary must not yield
	// duplicate selections.
	intent := &models.Intent{
		Type:      "code",
		Cluster:   "coding",
		Secondary: []models.SecondaryIntent{{Type: "code", Confidence: 0.5}},
	}

	got, err := spawner.Allocate(dec, cx, intent)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	seen := make(map[string]bool)
	for _, a := range got.Agents {
		if seen[a.ID] {
			t.Errorf("agent %s selected twice", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestAllocateAssignsEveryTask(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{
		{ID: "task0001", Cluster: "coding"},
		{ID: "task0002", Cluster: "devops"},
		{ID: "task0003", Cluster: "uiux"},
	}}
	cx := &models.Complexity{Level: models.ComplexityMedium, AgentCount: 3}
	intent := &models.Intent{
		Type:      "code",
		Cluster:   "coding",
		Secondary: []models.SecondaryIntent{{Type: "devops", Confidence: 0.5}},
	}

	got, err := spawner.Allocate(dec, cx, intent)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	for _, task := range dec.Tasks {
		ids := got.Assignments[task.ID]
		if len(ids) == 0 {
			t.Errorf("task %s has no assignment", task.ID)
		}
	}

	// No selected agent serves uiux, so that task falls back to the top
	// ranked agent.
	if got.Assignments["task0003"][0] != got.Agents[0].ID {
		t.Errorf("fallback assignment = %v, expected %s", got.Assignments["task0003"], got.Agents[0].ID)
	}
}

func TestAllocateNoEligibleAgents(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{{ID: "task0001"}}}
	cx := &models.Complexity{Level: models.ComplexityMedium, AgentCount: 2}
	intent := &models.Intent{Type: "custom", Cluster: "nonexistent"}

	if _, err := spawner.Allocate(dec, cx, intent); err != ErrNoEligibleAgents {
		t.Errorf("err = %v, expected ErrNoEligibleAgents", err)
	}
}

func TestAllocateSimpleAlwaysSelectsOne(t *testing.T) {
	spawner := NewSpawner(NewRegistry())
	dec := &models.Decomposition{Tasks: []*models.Task{{ID: "task0001", Cluster: "coding"}}}
	cx := &models.Complexity{Level: models.ComplexitySimple, AgentCount: 0}
	intent := &models.Intent{Type: "code", Cluster: "coding"}

	got, err := spawner.Allocate(dec, cx, intent)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if len(got.Agents) != 1 {
		t.Errorf("agents = %d, expected direct execution to select exactly 1", len(got.Agents))
	}
}
