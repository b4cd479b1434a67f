package orchestrator

import (
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// EventType represents the kind of pipeline event.
type EventType string

const (
	// EventStageCompleted indicates a pipeline stage finished.
	EventStageCompleted EventType = "stage_completed"
	// EventWaveStarted indicates a wave is being dispatched.
	EventWaveStarted EventType = "wave_started"
	// EventTaskDispatched indicates a task was handed to the worker pool.
	EventTaskDispatched EventType = "task_dispatched"
	// EventTaskSettled indicates a task completed, failed, or was skipped.
	EventTaskSettled EventType = "task_settled"
	// EventWaveCompleted indicates every task in a wave has settled.
	EventWaveCompleted EventType = "wave_completed"
	// EventPipelineDone indicates the whole pipeline finished.
	EventPipelineDone EventType = "pipeline_done"
	// EventPipelineFailed indicates the pipeline aborted with an error.
	EventPipelineFailed EventType = "pipeline_failed"
)

// PipelineEvent is a structured notification for the renderer.
// Absence of a consumer must not affect pipeline semantics.
type PipelineEvent struct {
	// Type is the kind of event.
	Type EventType
	// Stage names the pipeline stage for stage events.
	Stage string
	// Wave is the wave index for wave and task events.
	Wave int
	// TaskID identifies the task for task events.
	TaskID string
	// Description is the task description for task events.
	Description string
	// AgentID is the dispatched agent for task events.
	AgentID string
	// Status is the settled status for task_settled events.
	Status models.TaskStatus
	// Message carries stage summaries and error text.
	Message string
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
