// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rommaana/agentgw/pkg/providers"
)

const DefaultModel = "claude-sonnet-4-5"

const maxReplyTokens = 1024

type Provider struct {
	client *anthropic.Client
	model  string
}

func NewProvider(apiKey, model string) *Provider {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{
		client: &client,
		model:  model,
	}
}

func (p *Provider) Name() string { return "claude" }

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: maxReplyTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		status := 0
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", providers.Classify(p.Name(), status, fmt.Errorf("claude API call: %w", err))
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.AsText().Text)
		}
	}
	return b.String(), nil
}
