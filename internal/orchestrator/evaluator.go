package orchestrator

import (
	"fmt"
	"math"
	"strings"

	"github.com/ebuckley/cascade/pkg/models"
)

// Evaluator summarizes execution results into an evaluation record.
type Evaluator struct{}

// NewEvaluator creates an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate counts outcomes, aggregates errors, and computes the quality
// score: 0.6*successRate + 0.2*speedScore + 0.2*errorScore, where
// speedScore = max(0, 1 - avgDuration/10000) and
// errorScore = max(0, 1 - errorCount/5), rounded to two decimals.
func (e *Evaluator) Evaluate(res *models.ExecutionResult) *models.Evaluation {
	eval := &models.Evaluation{Total: len(res.Results)}

	for _, r := range res.Results {
		switch r.Status {
		case models.TaskStatusCompleted:
			eval.Completed++
		case models.TaskStatusFailed:
			eval.Failed++
			eval.Errors = append(eval.Errors, models.TaskError{
				TaskID:      r.TaskID,
				Error:       r.Error,
				Recoverable: !strings.Contains(r.Error, "fatal"),
			})
		case models.TaskStatusSkipped:
			eval.Skipped++
		}
		eval.TotalDuration += r.Duration
	}

	if eval.Total > 0 {
		eval.SuccessRate = float64(eval.Completed) / float64(eval.Total)
		eval.AvgDuration = float64(eval.TotalDuration) / float64(eval.Total)
	}

	speedScore := math.Max(0, 1-eval.AvgDuration/10000)
	errorScore := math.Max(0, 1-float64(len(eval.Errors))/5)
	quality := 0.6*eval.SuccessRate + 0.2*speedScore + 0.2*errorScore
	eval.Quality = math.Round(quality*100) / 100

	return eval
}

// Aggregate renders the user-facing summary: completion counts, total
// duration, quality percent, and one bulleted line per completed task.
func Aggregate(eval *models.Evaluation, res *models.ExecutionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Completed %d/%d tasks", eval.Completed, eval.Total)
	if eval.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed", eval.Failed)
		if eval.Skipped > 0 {
			fmt.Fprintf(&b, ", %d skipped", eval.Skipped)
		}
		b.WriteString(")")
	} else if eval.Skipped > 0 {
		fmt.Fprintf(&b, " (%d skipped)", eval.Skipped)
	}
	fmt.Fprintf(&b, " in %dms, quality %.0f%%\n", eval.TotalDuration, eval.Quality*100)

	for _, r := range res.Results {
		if r.Status != models.TaskStatusCompleted {
			continue
		}
		fmt.Fprintf(&b, "  - %s: %s\n", r.Description, r.Output)
	}

	return b.String()
}
