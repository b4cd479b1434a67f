// Package render consumes pipeline events and prints session progress
// to the terminal. The renderer runs on its own goroutine; the pipeline
// never waits for it.
package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/ebuckley/cascade/internal/orchestrator"
	"github.com/ebuckley/cascade/pkg/models"
)

// Renderer prints pipeline events as they arrive.
type Renderer struct {
	out     io.Writer
	verbose bool

	wg sync.WaitGroup
}

// New creates a Renderer writing to stdout. Verbose mode prints per-task
// dispatch and settle lines; otherwise only stage and wave summaries.
func New(verbose bool) *Renderer {
	return &Renderer{out: os.Stdout, verbose: verbose}
}

// NewWriter creates a Renderer with an explicit writer, for tests.
func NewWriter(w io.Writer, verbose bool) *Renderer {
	return &Renderer{out: w, verbose: verbose}
}

// Consume drains the event channel until it closes. It returns
// immediately; call Wait to block until the channel is done.
func (r *Renderer) Consume(events <-chan orchestrator.PipelineEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for ev := range events {
			r.render(ev)
		}
	}()
}

// Wait blocks until the consumed channel has closed.
func (r *Renderer) Wait() {
	r.wg.Wait()
}

func (r *Renderer) render(ev orchestrator.PipelineEvent) {
	switch ev.Type {
	case orchestrator.EventStageCompleted:
		dim := color.New(color.Faint)
		if ev.Message != "" {
			dim.Fprintf(r.out, "  %s: %s\n", ev.Stage, ev.Message)
		} else {
			dim.Fprintf(r.out, "  %s\n", ev.Stage)
		}

	case orchestrator.EventWaveStarted:
		cyan := color.New(color.FgCyan)
		cyan.Fprintf(r.out, "▶ wave %d: %s\n", ev.Wave+1, ev.Message)

	case orchestrator.EventTaskDispatched:
		if r.verbose {
			fmt.Fprintf(r.out, "    → %s [%s] %s\n", ev.TaskID, ev.AgentID, ev.Description)
		}

	case orchestrator.EventTaskSettled:
		if r.verbose || ev.Status != models.TaskStatusCompleted {
			fmt.Fprintf(r.out, "    %s %s %s\n", statusSymbol(ev.Status), ev.TaskID, ev.Description)
		}

	case orchestrator.EventWaveCompleted:
		if r.verbose {
			dim := color.New(color.Faint)
			dim.Fprintf(r.out, "  wave %d settled (%s)\n", ev.Wave+1, ev.Message)
		}

	case orchestrator.EventPipelineDone:
		fmt.Fprintf(r.out, "\n%s\n", ev.Message)

	case orchestrator.EventPipelineFailed:
		red := color.New(color.FgRed, color.Bold)
		red.Fprintf(r.out, "✗ pipeline failed: %s\n", ev.Message)
	}
}

func statusSymbol(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return color.GreenString("✓")
	case models.TaskStatusFailed:
		return color.RedString("✗")
	case models.TaskStatusSkipped:
		return color.YellowString("⊘")
	default:
		return "·"
	}
}
