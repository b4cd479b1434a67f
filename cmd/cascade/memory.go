package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebuckley/cascade/internal/config"
	"github.com/ebuckley/cascade/internal/memory"
)

var memoryPath string

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect the persisted memory snapshot",
	Long: `Show what the orchestrator has accumulated across sessions:
performance records, mined patterns, and stored solutions.

Session memory is per-process and never appears here.`,
	RunE: showMemory,
}

func init() {
	memoryCmd.Flags().StringVar(&memoryPath, "path", "", "Snapshot path (default from config)")
}

func showMemory(cmd *cobra.Command, args []string) error {
	path := memoryPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path = cfg.Memory.SnapshotPath
	}
	if path == "" {
		return fmt.Errorf("no snapshot path configured")
	}

	store := memory.NewStore()
	if err := store.Load(path); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	performance, patterns, solutions := store.Sizes()
	fmt.Printf("snapshot: %s\n", path)
	fmt.Printf("  performance records: %d\n", performance)
	fmt.Printf("  patterns:            %d\n", patterns)
	fmt.Printf("  solutions:           %d\n", solutions)

	if patterns > 0 {
		fmt.Println("\npatterns:")
		for _, p := range store.Patterns() {
			fmt.Printf("  %-32s applied %d  quality %.2f\n", p.Key, p.AppliedCount, p.Quality)
		}
	}
	return nil
}
