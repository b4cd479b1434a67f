package models

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not been scheduled yet.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusScheduled indicates the task has been placed into a wave.
	TaskStatusScheduled TaskStatus = "scheduled"
	// TaskStatusRunning indicates the task is being executed by a worker.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task's worker returned an error.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusSkipped indicates the task was not run because a dependency failed.
	TaskStatusSkipped TaskStatus = "skipped"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusScheduled, TaskStatusRunning,
		TaskStatusCompleted, TaskStatusFailed, TaskStatusSkipped:
		return true
	default:
		return false
	}
}

// Task represents one subtask produced by decomposing a request.
type Task struct {
	// ID is the unique identifier for this task (8 hex characters).
	ID string `json:"id"`
	// Index is the position of this task in source order.
	Index int `json:"index"`
	// Description is the fragment of the request this task covers.
	Description string `json:"description"`
	// Type is the intent label inherited from the primary intent.
	Type string `json:"type"`
	// Cluster is the registry cluster this task draws agents from.
	Cluster string `json:"cluster"`
	// DependsOn lists task IDs that must complete before this task.
	// Every listed ID refers to a task with a strictly smaller Index.
	DependsOn []string `json:"depends_on,omitempty"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Priority ranges from 1 (lowest) to 5 (highest).
	Priority int `json:"priority"`
}

// Decomposition is an ordered list of tasks derived from one request.
type Decomposition struct {
	// Tasks are in source order; dependencies only point backwards.
	Tasks []*Task `json:"tasks"`
	// HasParallelizable is true when at least two tasks have no dependencies.
	HasParallelizable bool `json:"has_parallelizable"`
}

// TaskResult captures the outcome of executing a single task.
type TaskResult struct {
	// TaskID is the ID of the executed task.
	TaskID string `json:"task_id"`
	// Description is the task's description, echoed for reporting.
	Description string `json:"description"`
	// Status is completed, failed, or skipped.
	Status TaskStatus `json:"status"`
	// Output is the worker's output for completed tasks.
	Output string `json:"output,omitempty"`
	// Error is the failure message for failed tasks.
	Error string `json:"error,omitempty"`
	// Duration is the wall-clock execution time in milliseconds.
	Duration int64 `json:"duration_ms"`
	// AgentID is the agent the task was dispatched to.
	AgentID string `json:"agent_id,omitempty"`
	// Wave is the index of the wave this task ran in.
	Wave int `json:"wave"`
}

// ExecutionResult is the outcome of running a full DAG.
type ExecutionResult struct {
	// Results are in settle order within each wave, waves in order.
	Results []TaskResult `json:"results"`
	// Waves is the number of waves actually processed.
	Waves int `json:"waves"`
	// TotalTasks is the number of nodes in the DAG.
	TotalTasks int `json:"total_tasks"`
}
