package recommendations

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergyrm/rm-copilot/pkg/config"
)

type fakeChat struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (f *fakeChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestOpenAIAdvisorRequestsJSON(t *testing.T) {
	chat := &fakeChat{resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Content: `{"recommendations":[]}`}},
	}}}
	advisor := newOpenAIAdvisor(chat, "")

	out, err := advisor.Advise(context.Background(), "system", "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"recommendations":[]}`, out)
	assert.Equal(t, openai.GPT4o, chat.req.Model)
	require.NotNil(t, chat.req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, chat.req.ResponseFormat.Type)
	require.Len(t, chat.req.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, chat.req.Messages[0].Role)
	assert.Equal(t, "prompt", chat.req.Messages[1].Content)
}

func TestOpenAIAdvisorErrors(t *testing.T) {
	advisor := newOpenAIAdvisor(&fakeChat{err: errors.New("429")}, "gpt-4o-mini")
	_, err := advisor.Advise(context.Background(), "s", "p")
	require.Error(t, err)

	advisor = newOpenAIAdvisor(&fakeChat{}, "gpt-4o-mini")
	_, err = advisor.Advise(context.Background(), "s", "p")
	require.Error(t, err)
}

func TestNewOpenAIAdvisorWithoutKey(t *testing.T) {
	assert.Nil(t, NewOpenAIAdvisor(config.OpenAIConfig{APIKey: "  "}))
	assert.NotNil(t, NewOpenAIAdvisor(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o"}))
}
