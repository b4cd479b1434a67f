package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ebuckley/cascade/internal/config"
	"github.com/ebuckley/cascade/internal/render"
)

var (
	runVerbose bool
	runWorkers int
	runBackend string
	runYes     bool
)

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Run one request through the pipeline",
	Long: `Run a single natural-language request through the full pipeline
and print the aggregated result.

Examples:
  cascade run "build a REST API with authentication"
  cascade run --verbose "research OAuth then build API then deploy to production"
  cascade run --backend anthropic "summarize the authentication options"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRequest,
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print per-task dispatch and settle events")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Override max concurrent workers")
	runCmd.Flags().StringVar(&runBackend, "backend", "", "Worker backend: simulated or anthropic")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Approve all gated actions without prompting")
}

func runRequest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cfg)

	sess, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := render.New(cfg.Output.Verbose)
	renderer.Consume(sess.orch.Events())

	request := strings.Join(args, " ")
	res, err := sess.orch.Execute(ctx, request, orchestratorOptions(sess))
	sess.orch.Close()
	renderer.Wait()

	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	fmt.Printf("\n%d/%d tasks completed in %dms (%s, %d agents)\n",
		res.Metrics.TasksCompleted,
		res.Metrics.TasksCompleted+res.Metrics.TasksFailed,
		res.Metrics.Duration,
		res.Metrics.ComplexityLevel,
		res.Metrics.AgentsUsed)
	return nil
}

func applyRunFlags(cfg *config.Config) {
	if runVerbose {
		cfg.Output.Verbose = true
	}
	if runWorkers > 0 {
		cfg.Workers.Max = runWorkers
	}
	if runBackend != "" {
		cfg.Workers.Backend = runBackend
	}
	if runYes {
		cfg.Gate.Mode = "allow"
	}
}
