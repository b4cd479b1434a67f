package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Cognitive task orchestration engine",
	Long: `Cascade turns a natural-language request into a graph of subtasks
and executes them across specialized agent pools.

With no arguments, launches an interactive prompt where you can type
requests and watch them execute wave by wave.

Each request runs through a fixed pipeline:
- Classifies intent and routes it to an agent cluster
- Decomposes the request into dependency-ordered subtasks
- Scores complexity and picks an allocation strategy
- Executes the task graph in concurrent waves
- Evaluates results and feeds agent confidence back into the registry`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(memoryCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
