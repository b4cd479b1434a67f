package models

// Pipeline holds the output of every completed pipeline stage.
// Stages that did not run are nil.
type Pipeline struct {
	Intent        *Intent          `json:"intent,omitempty"`
	Decomposition *Decomposition   `json:"decomposition,omitempty"`
	Complexity    *Complexity      `json:"complexity,omitempty"`
	Agents        *Allocation      `json:"agents,omitempty"`
	Execution     *ExecutionResult `json:"execution,omitempty"`
	Evaluation    *Evaluation      `json:"evaluation,omitempty"`
}

// Metrics is the per-request summary returned alongside the pipeline.
type Metrics struct {
	// Duration is the end-to-end pipeline time in milliseconds.
	Duration int64 `json:"duration_ms"`
	// AgentsUsed is the size of the deduplicated agent selection.
	AgentsUsed int `json:"agents_used"`
	// TasksCompleted counts completed task results.
	TasksCompleted int `json:"tasks_completed"`
	// TasksFailed counts failed task results.
	TasksFailed int `json:"tasks_failed"`
	// ComplexityLevel is the request's complexity bucket.
	ComplexityLevel ComplexityLevel `json:"complexity_level"`
}
