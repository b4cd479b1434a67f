package orchestrator

import (
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// Built-in cluster and agent seeds. The exact IDs, skills, confidence
// scores, and average times are part of the external interface: selection
// ordering in tests depends on them, so they must not drift.

func builtinClusters() []*models.Cluster {
	return []*models.Cluster{
		{ID: "research", Name: "Research", Description: "Information gathering and synthesis"},
		{ID: "coding", Name: "Coding", Description: "Implementation and code modification"},
		{ID: "devops", Name: "DevOps", Description: "Deployment, infrastructure, and operations"},
		{ID: "uiux", Name: "UI/UX", Description: "Interface and experience design"},
		{ID: "analysis", Name: "Analysis", Description: "Data analysis and reporting"},
		{ID: "evaluation", Name: "Evaluation", Description: "Quality review and planning"},
	}
}

func builtinAgents() []*models.Agent {
	seededAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	all := []models.ComplexityLevel{
		models.ComplexitySimple, models.ComplexityMedium, models.ComplexityComplex,
	}
	basic := []models.ComplexityLevel{
		models.ComplexitySimple, models.ComplexityMedium,
	}

	return []*models.Agent{
		{
			ID:               "research_agent_v1",
			Role:             "General researcher",
			Cluster:          "research",
			Skills:           []string{"search", "summarize", "compare"},
			Complexity:       basic,
			ConfidenceScore:  0.75,
			AvgExecutionTime: 3.2,
			CreatedAt:        seededAt,
		},
		{
			ID:               "deep_research_agent",
			Role:             "Deep-dive researcher",
			Cluster:          "research",
			Skills:           []string{"search", "synthesis", "citation"},
			Complexity:       all,
			ConfidenceScore:  0.7,
			AvgExecutionTime: 5.5,
			CreatedAt:        seededAt,
		},
		{
			ID:               "code_agent_v2",
			Role:             "Senior implementer",
			Cluster:          "coding",
			Skills:           []string{"implement", "refactor", "debug", "test"},
			Complexity:       all,
			ConfidenceScore:  0.85,
			AvgExecutionTime: 4.1,
			CreatedAt:        seededAt,
		},
		{
			ID:               "code_agent_v1",
			Role:             "Implementer",
			Cluster:          "coding",
			Skills:           []string{"implement", "debug"},
			Complexity:       basic,
			ConfidenceScore:  0.72,
			AvgExecutionTime: 4.8,
			CreatedAt:        seededAt,
		},
		{
			ID:               "devops_agent_v1",
			Role:             "Deployment operator",
			Cluster:          "devops",
			Skills:           []string{"deploy", "monitor", "rollback"},
			Complexity:       all,
			ConfidenceScore:  0.78,
			AvgExecutionTime: 6.0,
			CreatedAt:        seededAt,
		},
		{
			ID:               "infra_agent_v1",
			Role:             "Infrastructure engineer",
			Cluster:          "devops",
			Skills:           []string{"provision", "configure", "scale"},
			Complexity:       all,
			ConfidenceScore:  0.68,
			AvgExecutionTime: 7.2,
			CreatedAt:        seededAt,
		},
		{
			ID:               "design_agent_v1",
			Role:             "Interface designer",
			Cluster:          "uiux",
			Skills:           []string{"layout", "wireframe", "style"},
			Complexity:       basic,
			ConfidenceScore:  0.7,
			AvgExecutionTime: 3.8,
			CreatedAt:        seededAt,
		},
		{
			ID:               "analysis_agent_v1",
			Role:             "Data analyst",
			Cluster:          "analysis",
			Skills:           []string{"aggregate", "visualize", "report"},
			Complexity:       all,
			ConfidenceScore:  0.76,
			AvgExecutionTime: 4.5,
			CreatedAt:        seededAt,
		},
		{
			ID:               "data_agent_v1",
			Role:             "Data wrangler",
			Cluster:          "analysis",
			Skills:           []string{"clean", "transform", "sample"},
			Complexity:       basic,
			ConfidenceScore:  0.66,
			AvgExecutionTime: 5.2,
			CreatedAt:        seededAt,
		},
		{
			ID:               "eval_agent_v1",
			Role:             "Quality reviewer",
			Cluster:          "evaluation",
			Skills:           []string{"review", "score", "plan"},
			Complexity:       all,
			ConfidenceScore:  0.8,
			AvgExecutionTime: 2.5,
			CreatedAt:        seededAt,
		},
		{
			ID:               "qa_agent_v1",
			Role:             "Test planner",
			Cluster:          "evaluation",
			Skills:           []string{"test", "verify", "checklist"},
			Complexity:       basic,
			ConfidenceScore:  0.71,
			AvgExecutionTime: 3.4,
			CreatedAt:        seededAt,
		},
	}
}
