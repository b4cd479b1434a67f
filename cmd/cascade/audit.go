package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ebuckley/cascade/internal/config"
	"github.com/ebuckley/cascade/internal/gate"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent permission gate decisions",
	Long: `Show the most recent side-effect approvals and denials recorded
by the permission gate, newest first.`,
	RunE: showAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 20, "Maximum decisions to show")
}

func showAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	path := cfg.Gate.AuditPath
	if path == "" {
		path = gate.DefaultAuditPath()
	}

	audit, err := gate.OpenAuditLog(path)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer audit.Close()

	decisions, err := audit.Recent(auditLimit)
	if err != nil {
		return fmt.Errorf("read audit log: %w", err)
	}
	if len(decisions) == 0 {
		fmt.Println("no gate decisions recorded")
		return nil
	}

	for _, d := range decisions {
		verdict := color.GreenString("allow")
		if !d.Allowed {
			verdict = color.RedString("deny")
		}
		fmt.Printf("%s  %-5s %-18s %-30s by %s\n",
			d.DecidedAt.Format("2006-01-02 15:04:05"),
			verdict, d.Action, d.Target, d.DecidedBy)
	}
	return nil
}
