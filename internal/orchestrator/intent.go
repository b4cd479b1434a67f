// Package orchestrator implements the cognitive pipeline that turns a
// request into a DAG of subtasks and executes it across agent clusters.
package orchestrator

import (
	"math"
	"sort"
	"strings"

	"github.com/ebuckley/cascade/pkg/models"
)

// intentPattern associates an intent label with its cluster and keywords.
type intentPattern struct {
	Type     string
	Cluster  string
	Keywords []string
}

// builtinIntents is the single source of truth for intent classification.
// Registration order is the tie-break for equal-confidence intents.
var builtinIntents = []intentPattern{
	{
		Type:    "code",
		Cluster: "coding",
		Keywords: []string{
			"build", "implement", "code", "api", "function", "endpoint",
			"write", "fix", "refactor", "bug", "feature", "library",
		},
	},
	{
		Type:    "research",
		Cluster: "research",
		Keywords: []string{
			"research", "investigate", "explore", "study", "learn",
			"compare", "documentation", "understand", "summarize",
		},
	},
	{
		Type:    "devops",
		Cluster: "devops",
		Keywords: []string{
			"deploy", "infrastructure", "docker", "kubernetes", "pipeline",
			"server", "production", "release", "provision", "monitor",
		},
	},
	{
		Type:    "design",
		Cluster: "uiux",
		Keywords: []string{
			"design", "ui", "ux", "interface", "layout", "wireframe",
			"mockup", "style", "theme",
		},
	},
	{
		Type:    "analysis",
		Cluster: "analysis",
		Keywords: []string{
			"analyze", "analysis", "data", "metrics", "report",
			"statistics", "measure", "trends", "insight",
		},
	},
	{
		Type:    "planning",
		Cluster: "evaluation",
		Keywords: []string{
			"plan", "roadmap", "schedule", "organize", "strategy",
			"milestone", "prioritize", "estimate",
		},
	},
}

// Fallback intent when no pattern matches the request.
const (
	generalIntentType       = "general"
	generalIntentCluster    = "research"
	generalIntentConfidence = 0.3
)

// ClusterForIntent returns the registry cluster for an intent label.
// Unknown labels fall back to the general cluster.
func ClusterForIntent(intentType string) string {
	for _, p := range builtinIntents {
		if p.Type == intentType {
			return p.Cluster
		}
	}
	return generalIntentCluster
}

// Classifier performs keyword-driven multi-label intent scoring.
type Classifier struct {
	patterns []intentPattern
}

// NewClassifier creates a Classifier with the built-in intent patterns.
func NewClassifier() *Classifier {
	return &Classifier{patterns: builtinIntents}
}

// Classify scores the lowercased request against every intent pattern.
// Confidence is min(matchedKeywords/3, 1.0). Intents with zero matches are
// dropped; the strongest becomes primary and the rest become secondary.
// A request matching nothing returns the general fallback intent.
func (c *Classifier) Classify(raw string) *models.Intent {
	lower := strings.ToLower(raw)

	type scored struct {
		pattern    intentPattern
		matched    []string
		confidence float64
	}
	var candidates []scored

	for _, p := range c.patterns {
		var matched []string
		for _, kw := range p.Keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		candidates = append(candidates, scored{
			pattern:    p,
			matched:    matched,
			confidence: math.Min(float64(len(matched))/3.0, 1.0),
		})
	}

	if len(candidates) == 0 {
		return &models.Intent{
			Type:       generalIntentType,
			Cluster:    generalIntentCluster,
			Confidence: generalIntentConfidence,
			Matched:    []string{},
			Secondary:  []models.SecondaryIntent{},
		}
	}

	// Stable sort preserves registration order for equal confidence.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].confidence > candidates[j].confidence
	})

	primary := candidates[0]
	secondary := make([]models.SecondaryIntent, 0, len(candidates)-1)
	for _, s := range candidates[1:] {
		secondary = append(secondary, models.SecondaryIntent{
			Type:       s.pattern.Type,
			Confidence: s.confidence,
		})
	}

	return &models.Intent{
		Type:       primary.pattern.Type,
		Cluster:    primary.pattern.Cluster,
		Confidence: primary.confidence,
		Matched:    primary.matched,
		Secondary:  secondary,
	}
}
