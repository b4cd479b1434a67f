package orchestrator

import "errors"

// ErrEmptyRequest indicates the raw input was empty or whitespace only.
// It is surfaced before intent classification runs.
var ErrEmptyRequest = errors.New("request is empty")

// ErrNoEligibleAgents indicates the spawner's deduplicated pool was empty.
// It is fatal for the request.
var ErrNoEligibleAgents = errors.New("no eligible agents for request")
