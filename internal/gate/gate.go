// Package gate provides permission gating for side-effecting actions.
// Workers consult the gate before performing anything outside pure
// computation; the pipeline itself never blocks on it.
package gate

import "context"

// Gated actions. Anything not listed here is auto-approved.
const (
	ActionFileWrite      = "file:write"
	ActionFileDelete     = "file:delete"
	ActionFileRename     = "file:rename"
	ActionFileMove       = "file:move"
	ActionProcessExecute = "process:execute"
	ActionNetworkRequest = "network:request"
	ActionDeployTrigger  = "deploy:trigger"
	ActionConfigModify   = "config:modify"
	ActionSystemInstall  = "system:install"
)

// gatedActions is the closed set of actions that require approval.
var gatedActions = map[string]bool{
	ActionFileWrite:      true,
	ActionFileDelete:     true,
	ActionFileRename:     true,
	ActionFileMove:       true,
	ActionProcessExecute: true,
	ActionNetworkRequest: true,
	ActionDeployTrigger:  true,
	ActionConfigModify:   true,
	ActionSystemInstall:  true,
}

// IsGated reports whether an action belongs to the gated set.
func IsGated(action string) bool {
	return gatedActions[action]
}

// Gate decides whether a side-effecting action may proceed.
type Gate interface {
	// MayPerform reports whether the action may be performed on target.
	// Actions outside the gated set are always approved.
	MayPerform(action, target string) bool
}

// AllowAll approves every action. It is the default when no gate is
// configured.
type AllowAll struct{}

// MayPerform always returns true.
func (AllowAll) MayPerform(action, target string) bool { return true }

// DenyAll refuses every gated action. Useful in tests and dry runs.
type DenyAll struct{}

// MayPerform returns false for gated actions, true otherwise.
func (DenyAll) MayPerform(action, target string) bool { return !IsGated(action) }

type contextKey struct{}

// NewContext returns a context carrying the gate.
func NewContext(ctx context.Context, g Gate) context.Context {
	return context.WithValue(ctx, contextKey{}, g)
}

// FromContext extracts the gate from ctx, or AllowAll if none is set.
func FromContext(ctx context.Context) Gate {
	if g, ok := ctx.Value(contextKey{}).(Gate); ok && g != nil {
		return g
	}
	return AllowAll{}
}
