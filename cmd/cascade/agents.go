package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ebuckley/cascade/internal/orchestrator"
)

var agentsSeedFile string

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the agent registry",
	Long: `List every registered agent with its cluster, confidence, and
execution statistics.

Use --seed to overlay a YAML seed file of extra clusters and agents on
top of the built-in registry before listing:

  cascade agents --seed ./team.yaml`,
	RunE: listAgents,
}

func init() {
	agentsCmd.Flags().StringVar(&agentsSeedFile, "seed", "", "YAML seed file of clusters and agents to overlay")
}

func listAgents(cmd *cobra.Command, args []string) error {
	registry := orchestrator.NewRegistry()
	if agentsSeedFile != "" {
		if err := registry.LoadSeedFile(agentsSeedFile); err != nil {
			return fmt.Errorf("load seed file: %w", err)
		}
	}

	bold := color.New(color.Bold)
	for _, cluster := range registry.Clusters() {
		bold.Printf("%s\n", cluster.ID)
		for _, agent := range registry.Agents() {
			if agent.Cluster != cluster.ID {
				continue
			}
			fmt.Printf("  %-22s confidence %.2f  avg %.1fs  runs %d  skills %s\n",
				agent.ID,
				agent.ConfidenceScore,
				agent.AvgExecutionTime,
				agent.TotalExecutions,
				strings.Join(agent.Skills, ","))
		}
	}
	return nil
}
