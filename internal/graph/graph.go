// Package graph provides the task DAG used by the wave scheduler.
package graph

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ebuckley/cascade/pkg/models"
)

// CycleError indicates that wave extraction stalled with nodes remaining.
// The decomposer never produces cycles; this is defensive.
type CycleError struct {
	// Remaining lists the node IDs that could not be placed into a wave.
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected among tasks: %s", strings.Join(e.Remaining, ", "))
}

// Node is one task in the DAG together with its adjacency and outcome.
type Node struct {
	// Task is the underlying task.
	Task *models.Task
	// DependsOn is the set of upstream node IDs.
	DependsOn map[string]struct{}
	// Dependents is the reverse of DependsOn, computed at build time.
	Dependents map[string]struct{}
	// Status tracks the node through scheduling and execution.
	Status models.TaskStatus
	// Result is populated when the node settles.
	Result *models.TaskResult
}

// DAG is a directed acyclic graph of tasks keyed by task ID.
// Iteration uses insertion order so wave contents are deterministic.
type DAG struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	// order preserves the insertion order of node IDs.
	order []string
	// waves is the topological partition computed by ComputeWaves.
	waves [][]*Node
}

// Build constructs a DAG from a decomposition's tasks.
// Returns an error if a dependency references an unknown task.
func Build(tasks []*models.Task) (*DAG, error) {
	g := &DAG{nodes: make(map[string]*Node, len(tasks))}

	for _, task := range tasks {
		g.nodes[task.ID] = &Node{
			Task:       task,
			DependsOn:  make(map[string]struct{}, len(task.DependsOn)),
			Dependents: make(map[string]struct{}),
			Status:     models.TaskStatusPending,
		}
		g.order = append(g.order, task.ID)
	}

	// Forward edges first, then invert them.
	for _, task := range tasks {
		node := g.nodes[task.ID]
		for _, depID := range task.DependsOn {
			if _, ok := g.nodes[depID]; !ok {
				return nil, fmt.Errorf("task %s depends on unknown task %s", task.ID, depID)
			}
			node.DependsOn[depID] = struct{}{}
		}
	}
	for id, node := range g.nodes {
		for depID := range node.DependsOn {
			g.nodes[depID].Dependents[id] = struct{}{}
		}
	}

	return g, nil
}

// ComputeWaves partitions the nodes into topological waves by repeated
// frontier extraction: each wave is every pending node whose dependencies
// are all in the completed set. Nodes are marked scheduled as they are
// placed. Returns a CycleError if a round produces an empty frontier with
// nodes remaining.
func (g *DAG) ComputeWaves() ([][]*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	completed := make(map[string]struct{}, len(g.nodes))
	placed := 0
	g.waves = nil

	for placed < len(g.nodes) {
		var wave []*Node
		for _, id := range g.order {
			node := g.nodes[id]
			if node.Status != models.TaskStatusPending {
				continue
			}
			ready := true
			for depID := range node.DependsOn {
				if _, ok := completed[depID]; !ok {
					ready = false
					break
				}
			}
			if ready {
				wave = append(wave, node)
			}
		}

		if len(wave) == 0 {
			var remaining []string
			for _, id := range g.order {
				if g.nodes[id].Status == models.TaskStatusPending {
					remaining = append(remaining, id)
				}
			}
			sort.Strings(remaining)
			return nil, &CycleError{Remaining: remaining}
		}

		for _, node := range wave {
			node.Status = models.TaskStatusScheduled
			completed[node.Task.ID] = struct{}{}
		}
		placed += len(wave)
		g.waves = append(g.waves, wave)
	}

	return g.waves, nil
}

// Waves returns the wave partition computed by ComputeWaves.
func (g *DAG) Waves() [][]*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.waves
}

// Node returns the node for a task ID, or nil if not present.
func (g *DAG) Node(taskID string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[taskID]
}

// Size returns the number of nodes.
func (g *DAG) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// SetStatus updates a node's status.
func (g *DAG) SetStatus(taskID string, status models.TaskStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if node, ok := g.nodes[taskID]; ok {
		node.Status = status
	}
}

// Status returns a node's current status.
func (g *DAG) Status(taskID string) models.TaskStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if node, ok := g.nodes[taskID]; ok {
		return node.Status
	}
	return ""
}

// SetResult records a node's settled result and matching status.
func (g *DAG) SetResult(taskID string, result *models.TaskResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if node, ok := g.nodes[taskID]; ok {
		node.Result = result
		node.Status = result.Status
	}
}

// SkipDependents walks the dependents of taskID transitively and marks
// every node that is still scheduled (not yet dispatched) as skipped.
// Returns the IDs that were newly skipped, in insertion order.
func (g *DAG) SkipDependents(taskID string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	skipped := make(map[string]struct{})
	var walk func(id string)
	walk = func(id string) {
		node, ok := g.nodes[id]
		if !ok {
			return
		}
		for depID := range node.Dependents {
			dep := g.nodes[depID]
			if dep.Status == models.TaskStatusScheduled {
				dep.Status = models.TaskStatusSkipped
				skipped[depID] = struct{}{}
			}
			walk(depID)
		}
	}
	walk(taskID)

	var ordered []string
	for _, id := range g.order {
		if _, ok := skipped[id]; ok {
			ordered = append(ordered, id)
		}
	}
	return ordered
}
