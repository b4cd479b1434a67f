package models

import "time"

// PerformanceRecord is one entry in the performance log.
type PerformanceRecord struct {
	// Timestamp is when the task settled.
	Timestamp time.Time `json:"timestamp"`
	// AgentID is the agent that ran the task.
	AgentID string `json:"agent_id"`
	// TaskID is the task that was run.
	TaskID string `json:"task_id"`
	// Duration is the execution time in milliseconds.
	Duration int64 `json:"duration_ms"`
	// Success is true for completed tasks.
	Success bool `json:"success"`
	// Complexity is the request's complexity level.
	Complexity ComplexityLevel `json:"complexity"`
	// Cluster is the task's cluster.
	Cluster string `json:"cluster"`
}

// Pattern is one entry in the pattern ledger. Keys are deduplicated;
// recording an existing key increments AppliedCount.
type Pattern struct {
	// Key identifies the pattern, e.g. "code:medium" or "fast_execution:code".
	Key string `json:"key"`
	// Optimization is the human-readable advice derived from the pattern.
	Optimization string `json:"optimization"`
	// DiscoveredAt is when the pattern was first recorded.
	DiscoveredAt time.Time `json:"discovered_at"`
	// LastApplied is when the pattern was most recently recorded again.
	LastApplied *time.Time `json:"last_applied,omitempty"`
	// AppliedCount is how many times the pattern has been recorded.
	AppliedCount int `json:"applied_count"`
	// Quality is the quality score observed when the pattern was recorded.
	Quality float64 `json:"quality,omitempty"`
	// AvgDuration is the average duration observed, in milliseconds.
	AvgDuration float64 `json:"avg_duration,omitempty"`
}

// TaskSolution is a serialized record of a high-quality request outcome.
type TaskSolution struct {
	// TaskDescription is the original request text.
	TaskDescription string `json:"task_description"`
	// Solution is the serialized pipeline summary.
	Solution string `json:"solution"`
	// StoredAt is when the solution was stored.
	StoredAt time.Time `json:"stored_at"`
	// Embedding is reserved for vector retrieval; currently always empty.
	Embedding []float64 `json:"embedding"`
}
