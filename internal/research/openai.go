package research

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// analysisTemperature keeps structuring output near-deterministic.
const analysisTemperature = 0.1

// openAIProvider implements Provider for OpenAI chat completions.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(apiKey, model string) *openAIProvider {
	return &openAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *openAIProvider) Name() string  { return "openai" }
func (p *openAIProvider) Model() string { return p.model }

func (p *openAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: analysisTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
