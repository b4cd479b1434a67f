package orchestrator

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ebuckley/cascade/pkg/models"
)

// splitPattern matches the fragment separators: connector words as whole
// words, or a period/semicolon with optional trailing whitespace.
var splitPattern = regexp.MustCompile(`(?i)\b(and|then|also|plus|with|after)\b|[.;]\s*`)

// sequenceMarkers are connectors that introduce a dependency on the
// previous fragment. Markers beyond the split connectors are kept for
// compatibility with connector text carried inside fragments.
var sequenceMarkers = map[string]bool{
	"then":    true,
	"after":   true,
	"once":    true,
	"when":    true,
	"finally": true,
	"next":    true,
}

// connectors is the set of split connector words, used to drop fragments
// that consist of nothing but a connector.
var connectors = map[string]bool{
	"and": true, "then": true, "also": true,
	"plus": true, "with": true, "after": true,
}

// Decomposer splits a request into subtasks and infers sequential edges.
type Decomposer struct{}

// NewDecomposer creates a Decomposer.
func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// fragment is a surviving piece of the request with the connector token
// that preceded it in the source text.
type fragment struct {
	text      string
	connector string
}

// Decompose splits the raw request into tasks. A fragment preceded by a
// sequence marker depends on the previous task; all other fragments are
// roots. When the split yields nothing usable, the entire request becomes
// a single task.
//
// The connector attributed to a fragment is the separator matched directly
// before it. When a connector is followed by another separator the fragment
// between them is dropped, so the surviving fragment can be labeled by a
// token that sat two words away in the source. This mirrors the observed
// behaviour of the splitter and is covered by tests.
func (d *Decomposer) Decompose(raw string, intent *models.Intent) *models.Decomposition {
	frags := splitFragments(raw)

	if len(frags) == 0 {
		frags = []fragment{{text: strings.TrimSpace(raw)}}
	}

	used := make(map[string]bool, len(frags))
	tasks := make([]*models.Task, 0, len(frags))
	var prevID string

	for i, f := range frags {
		id := newTaskID(used)

		var deps []string
		if prevID != "" && sequenceMarkers[strings.ToLower(f.connector)] {
			deps = []string{prevID}
		}

		tasks = append(tasks, &models.Task{
			ID:          id,
			Index:       i,
			Description: f.text,
			Type:        intent.Type,
			Cluster:     intent.Cluster,
			DependsOn:   deps,
			Status:      models.TaskStatusPending,
			Priority:    taskPriority(f.text, intent.Type),
		})
		prevID = id
	}

	roots := 0
	for _, t := range tasks {
		if len(t.DependsOn) == 0 {
			roots++
		}
	}

	return &models.Decomposition{
		Tasks:             tasks,
		HasParallelizable: roots >= 2,
	}
}

// splitFragments cuts raw on the split pattern and records, for each
// surviving fragment, the connector token that directly preceded it.
func splitFragments(raw string) []fragment {
	matches := splitPattern.FindAllStringSubmatchIndex(raw, -1)

	var frags []fragment
	start := 0
	connector := ""

	emit := func(end int, nextConnector string) {
		text := strings.TrimSpace(raw[start:end])
		if len(text) > 2 && !connectors[strings.ToLower(text)] {
			frags = append(frags, fragment{text: text, connector: connector})
		}
		connector = nextConnector
	}

	for _, m := range matches {
		token := ""
		if m[2] >= 0 {
			token = raw[m[2]:m[3]]
		}
		emit(m[0], token)
		start = m[1]
	}
	emit(len(raw), "")

	return frags
}

// taskPriority computes a 1..5 priority for a task description.
func taskPriority(text, intentType string) int {
	priority := 1
	if intentType == "code" || intentType == "devops" {
		priority++
	}
	if len(strings.Fields(text)) > 10 {
		priority++
	}
	if priority > 5 {
		priority = 5
	}
	return priority
}

// newTaskID returns a fresh 8-hex-character identifier not already in used.
// Collisions inside one decomposition are improbable but regenerated anyway
// so tests see deterministic uniqueness.
func newTaskID(used map[string]bool) string {
	for {
		id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
		if !used[id] {
			used[id] = true
			return id
		}
	}
}
