package models

// TaskError summarizes one failed task for the evaluation record.
type TaskError struct {
	// TaskID is the failed task.
	TaskID string `json:"task_id"`
	// Error is the failure message.
	Error string `json:"error"`
	// Recoverable is false when the message contains "fatal".
	Recoverable bool `json:"recoverable"`
}

// Evaluation summarizes an ExecutionResult.
type Evaluation struct {
	// Completed, Failed, and Skipped count task outcomes.
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	// Total is the number of task results.
	Total int `json:"total"`
	// SuccessRate is Completed/Total, or 0 for an empty run.
	SuccessRate float64 `json:"success_rate"`
	// TotalDuration sums task durations in milliseconds.
	TotalDuration int64 `json:"total_duration_ms"`
	// AvgDuration is TotalDuration/Total in milliseconds.
	AvgDuration float64 `json:"avg_duration_ms"`
	// Errors lists failure details.
	Errors []TaskError `json:"errors,omitempty"`
	// Quality is 0.6*successRate + 0.2*speedScore + 0.2*errorScore,
	// rounded to two decimals.
	Quality float64 `json:"quality"`
}
