package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ebuckley/cascade/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging defaults, the user config,
the project .cascade.yaml, and CASCADE_* environment variables.`,
	RunE: showConfig,
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	faint := color.New(color.Faint).SprintFunc()

	fmt.Printf("%s\n", faint("workers"))
	fmt.Printf("  max:     %d\n", cfg.Workers.Max)
	fmt.Printf("  backend: %s\n", cfg.Workers.Backend)

	fmt.Printf("%s\n", faint("gate"))
	fmt.Printf("  mode:       %s\n", cfg.Gate.Mode)
	fmt.Printf("  audit_path: %s\n", valueOrUnset(cfg.Gate.AuditPath))

	fmt.Printf("%s\n", faint("memory"))
	fmt.Printf("  snapshot_path: %s\n", cfg.Memory.SnapshotPath)

	fmt.Printf("%s\n", faint("anthropic"))
	fmt.Printf("  model:   %s\n", valueOrUnset(cfg.Anthropic.Model))
	fmt.Printf("  api_key: %s\n", maskKey(cfg.Anthropic.APIKey))

	fmt.Printf("%s\n", faint("output"))
	fmt.Printf("  verbose:   %v\n", cfg.Output.Verbose)
	fmt.Printf("  debug_log: %s\n", valueOrUnset(cfg.Output.DebugLog))
	return nil
}

func valueOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func maskKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
