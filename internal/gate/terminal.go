package gate

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// TerminalGate prompts the user on stdin for each gated action.
// Answering "always" approves that action kind for the rest of the
// session without further prompts.
type TerminalGate struct {
	reader *bufio.Reader
	out    io.Writer
	audit  *AuditLog

	mu            sync.Mutex
	alwaysAllowed map[string]bool
}

// NewTerminalGate creates a gate reading from stdin and writing to
// stderr. The audit log may be nil.
func NewTerminalGate(audit *AuditLog) *TerminalGate {
	return &TerminalGate{
		reader:        bufio.NewReader(os.Stdin),
		out:           os.Stderr,
		audit:         audit,
		alwaysAllowed: make(map[string]bool),
	}
}

// NewTerminalGateIO creates a gate with explicit streams, for tests.
func NewTerminalGateIO(in io.Reader, out io.Writer, audit *AuditLog) *TerminalGate {
	return &TerminalGate{
		reader:        bufio.NewReader(in),
		out:           out,
		audit:         audit,
		alwaysAllowed: make(map[string]bool),
	}
}

// MayPerform prompts for the action unless it is ungated or the action
// kind was previously approved with "always". Read errors deny.
func (g *TerminalGate) MayPerform(action, target string) bool {
	if !IsGated(action) {
		g.record(action, target, true, "ungated")
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.alwaysAllowed[action] {
		g.record(action, target, true, "always")
		return true
	}

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(g.out, "\n⚠ Permission required\n")
	fmt.Fprintf(g.out, "  Action: %s\n  Target: %s\n", action, target)
	fmt.Fprintf(g.out, "Allow? [y]es / [n]o / [a]lways for %s: ", action)

	line, err := g.reader.ReadString('\n')
	if err != nil {
		g.record(action, target, false, "read error")
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		g.record(action, target, true, "user")
		return true
	case "a", "always":
		g.alwaysAllowed[action] = true
		g.record(action, target, true, "always")
		return true
	default:
		g.record(action, target, false, "user")
		return false
	}
}

func (g *TerminalGate) record(action, target string, allowed bool, decidedBy string) {
	if g.audit == nil {
		return
	}
	if err := g.audit.Record(action, target, allowed, decidedBy); err != nil {
		fmt.Fprintf(g.out, "audit log write failed: %v\n", err)
	}
}
