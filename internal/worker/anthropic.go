package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ebuckley/cascade/internal/gate"
	"github.com/ebuckley/cascade/pkg/models"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = string(anthropic.ModelClaudeSonnet4_20250514)

// Anthropic is a worker body backed by the Anthropic Messages API.
// Each task's description is sent as a single user message and the text
// blocks of the reply become the task output.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic worker. An empty apiKey falls back to
// the SDK's environment-based credentials; an empty model falls back to
// DefaultAnthropicModel.
func NewAnthropic(apiKey, model string) *Anthropic {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Execute sends the task description to the Messages API. The call is a
// network side effect, so the session gate is consulted first.
func (a *Anthropic) Execute(ctx context.Context, task *models.Task, agentIDs []string) (*Result, error) {
	if !gate.FromContext(ctx).MayPerform(gate.ActionNetworkRequest, "anthropic.com") {
		return nil, fmt.Errorf("anthropic worker: network request denied for task %s", task.ID)
	}

	agent := ""
	if len(agentIDs) > 0 {
		agent = agentIDs[0]
	}

	system := fmt.Sprintf(
		"You are %s, a %s specialist. Complete the task concisely and report the result.",
		agent, task.Cluster)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(task.Description)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic worker: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(variant.Text)
		}
	}

	return &Result{
		Output: text.String(),
		Metadata: map[string]any{
			"model":         a.model,
			"input_tokens":  msg.Usage.InputTokens,
			"output_tokens": msg.Usage.OutputTokens,
		},
	}, nil
}
