package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/synergyrm/rm-copilot/pkg/config"
)

// Advisor is the LLM collaborator. It returns the raw JSON text of its answer.
type Advisor interface {
	Advise(ctx context.Context, system, prompt string) (string, error)
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIAdvisor asks a chat completion model for JSON recommendations.
type OpenAIAdvisor struct {
	client chatCompleter
	model  string
}

// NewOpenAIAdvisor returns nil when no API key is configured so callers can
// run on the rule-based scorer alone.
func NewOpenAIAdvisor(cfg config.OpenAIConfig) *OpenAIAdvisor {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	return newOpenAIAdvisor(openai.NewClient(cfg.APIKey), cfg.Model)
}

func newOpenAIAdvisor(client chatCompleter, model string) *OpenAIAdvisor {
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIAdvisor{client: client, model: model}
}

func (a *OpenAIAdvisor) Advise(ctx context.Context, system, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
