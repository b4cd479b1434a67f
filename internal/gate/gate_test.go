package gate

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsGated(t *testing.T) {
	tests := []struct {
		action string
		want   bool
	}{
		{ActionFileWrite, true},
		{ActionDeployTrigger, true},
		{ActionNetworkRequest, true},
		{"task:compute", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsGated(tc.action); got != tc.want {
			t.Errorf("IsGated(%q) = %v, expected %v", tc.action, got, tc.want)
		}
	}
}

func TestAllowAllAndDenyAll(t *testing.T) {
	if !(AllowAll{}).MayPerform(ActionFileDelete, "/etc/passwd") {
		t.Error("AllowAll denied a gated action")
	}
	if (DenyAll{}).MayPerform(ActionFileDelete, "/etc/passwd") {
		t.Error("DenyAll approved a gated action")
	}
	if !(DenyAll{}).MayPerform("task:compute", "anything") {
		t.Error("DenyAll denied an ungated action")
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := NewContext(context.Background(), DenyAll{})
	if FromContext(ctx).MayPerform(ActionFileWrite, "x") {
		t.Error("expected the context gate to deny")
	}

	// No gate in context falls back to AllowAll.
	if !FromContext(context.Background()).MayPerform(ActionFileWrite, "x") {
		t.Error("expected AllowAll fallback")
	}
}

func TestTerminalGateDecisions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes approves", "y\n", true},
		{"full yes approves", "yes\n", true},
		{"no denies", "n\n", false},
		{"garbage denies", "whatever\n", false},
		{"empty line denies", "\n", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			g := NewTerminalGateIO(strings.NewReader(tc.input), &out, nil)
			if got := g.MayPerform(ActionFileWrite, "main.go"); got != tc.want {
				t.Errorf("MayPerform = %v, expected %v", got, tc.want)
			}
			if !strings.Contains(out.String(), ActionFileWrite) {
				t.Error("prompt should name the action")
			}
		})
	}
}

func TestTerminalGateAlways(t *testing.T) {
	var out bytes.Buffer
	g := NewTerminalGateIO(strings.NewReader("a\n"), &out, nil)

	if !g.MayPerform(ActionDeployTrigger, "prod") {
		t.Fatal("expected 'always' to approve")
	}
	// Second call must not read input again; the reader is exhausted.
	if !g.MayPerform(ActionDeployTrigger, "staging") {
		t.Error("expected cached approval for the action kind")
	}
	// Other actions are still prompted, and the exhausted reader denies.
	if g.MayPerform(ActionFileDelete, "main.go") {
		t.Error("'always' must not leak to other action kinds")
	}
}

func TestTerminalGateUngatedSkipsPrompt(t *testing.T) {
	g := NewTerminalGateIO(strings.NewReader(""), &bytes.Buffer{}, nil)
	if !g.MayPerform("task:compute", "anything") {
		t.Error("ungated action should auto-approve without input")
	}
}

func TestAuditLogRecordsDecisions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	audit, err := OpenAuditLog(path)
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer audit.Close()

	if err := audit.Record(ActionFileWrite, "main.go", true, "user"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := audit.Record(ActionDeployTrigger, "prod", false, "user"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	decisions, err := audit.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(decisions) != 2 {
		t.Fatalf("decisions = %d, expected 2", len(decisions))
	}
	// Newest first.
	if decisions[0].Action != ActionDeployTrigger || decisions[0].Allowed {
		t.Errorf("first = %+v, expected the denied deploy", decisions[0])
	}
	if decisions[1].Action != ActionFileWrite || !decisions[1].Allowed {
		t.Errorf("second = %+v, expected the allowed write", decisions[1])
	}
}

func TestTerminalGateWritesAudit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	audit, err := OpenAuditLog(path)
	if err != nil {
		t.Fatalf("OpenAuditLog: %v", err)
	}
	defer audit.Close()

	g := NewTerminalGateIO(strings.NewReader("y\n"), &bytes.Buffer{}, audit)
	g.MayPerform(ActionFileWrite, "main.go")

	decisions, err := audit.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(decisions) != 1 || decisions[0].DecidedBy != "user" {
		t.Errorf("decisions = %+v, expected one user decision", decisions)
	}
}
