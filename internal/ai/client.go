package ai

import (
	"context"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// Client is the text-completion capability used by the story generator. It is an
// interface so that tests and local development can substitute [StubClient].
type Client interface {
	SyncCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// MaxTokens bounds the completion size. A full case fits comfortably within this.
const MaxTokens = 1024

// OpenAIClient talks to an OpenAI-compatible chat-completion API. Groq and other
// hosted providers expose the same surface, so the base URL and model are configurable.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ Client = (*OpenAIClient)(nil)

func NewClient(baseURL, apiKey, model string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// SyncCompletion requests a single non-streaming completion and returns the message text.
func (c *OpenAIClient) SyncCompletion(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:       c.model,
			MaxTokens:   MaxTokens,
			Temperature: 1, // High randomness so that every case comes out different.
			TopP:        1,
			Messages:    messages,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}
