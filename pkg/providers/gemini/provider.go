// AgentGW - conversational webhook gateway for Rommaana Insurance
// License: MIT

package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/rommaana/agentgw/pkg/providers"
)

// Gemini exposes an OpenAI-compatible surface; going through it keeps this
// provider on the same client library as any other compatible backend.
const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const DefaultModel = "gemini-2.5-flash"

type Provider struct {
	client *openai.Client
	model  string
}

func NewProvider(apiKey, model string) *Provider {
	return NewProviderWithBaseURL(apiKey, model, defaultBaseURL)
}

func NewProviderWithBaseURL(apiKey, model, baseURL string) *Provider {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)
	return &Provider{
		client: &client,
		model:  model,
	}
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return "", providers.Classify(p.Name(), status, fmt.Errorf("gemini API call: %w", err))
	}

	if len(completion.Choices) == 0 {
		return "", providers.Classify(p.Name(), 0, fmt.Errorf("gemini returned no choices"))
	}
	return completion.Choices[0].Message.Content, nil
}
