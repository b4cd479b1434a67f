package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ebuckley/cascade/internal/config"
	"github.com/ebuckley/cascade/internal/gate"
	"github.com/ebuckley/cascade/internal/orchestrator"
	"github.com/ebuckley/cascade/internal/worker"
)

// session bundles the long-lived pieces a command needs to run requests.
type session struct {
	orch  *orchestrator.Orchestrator
	gate  gate.Gate
	audit *gate.AuditLog
	cfg   *config.Config
	id    string
}

// newSession builds an orchestrator, gate, and audit log from config.
func newSession(cfg *config.Config) (*session, error) {
	var body worker.Worker
	switch cfg.Workers.Backend {
	case "", "simulated":
		body = worker.NewSimulated()
	case "anthropic":
		body = worker.NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	default:
		return nil, fmt.Errorf("unknown worker backend %q", cfg.Workers.Backend)
	}

	var logger *orchestrator.DebugLogger
	if cfg.Output.DebugLog != "" {
		var err error
		logger, err = orchestrator.NewDebugLogger(cfg.Output.DebugLog)
		if err != nil {
			return nil, fmt.Errorf("open debug log: %w", err)
		}
	}

	var audit *gate.AuditLog
	auditPath := cfg.Gate.AuditPath
	if auditPath == "" {
		auditPath = gate.DefaultAuditPath()
	}
	if a, err := gate.OpenAuditLog(auditPath); err == nil {
		audit = a
	}

	var g gate.Gate
	switch cfg.Gate.Mode {
	case "", "terminal":
		g = gate.NewTerminalGate(audit)
	case "allow":
		g = gate.AllowAll{}
	case "deny":
		g = gate.DenyAll{}
	default:
		return nil, fmt.Errorf("unknown gate mode %q", cfg.Gate.Mode)
	}

	orch := orchestrator.New(orchestrator.Config{
		Worker:       body,
		MaxWorkers:   cfg.Workers.Max,
		SnapshotPath: cfg.Memory.SnapshotPath,
		Logger:       logger,
	})
	orch.LoadMemory()

	return &session{orch: orch, gate: g, audit: audit, cfg: cfg}, nil
}

// Close releases the session's resources.
func (s *session) Close() {
	s.orch.Close()
	if s.audit != nil {
		s.audit.Close()
	}
}

// orchestratorOptions builds the per-request options for a session.
func orchestratorOptions(s *session) orchestrator.ExecOptions {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return orchestrator.ExecOptions{
		SessionID: s.id,
		Gate:      s.gate,
	}
}
