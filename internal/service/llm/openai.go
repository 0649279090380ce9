package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayush6624/go-chatgpt"

	"StockAdvisor/internal/domain/models"
)

const ProviderOpenAI = "openai"

type OpenAICompleter struct {
	client *chatgpt.Client
}

func NewOpenAICompleter(apiKey string) (*OpenAICompleter, error) {
	client, err := chatgpt.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("construct openai client: %w", err)
	}
	return &OpenAICompleter{client: client}, nil
}

func (o *OpenAICompleter) Name() string { return ProviderOpenAI }

func (o *OpenAICompleter) Complete(ctx context.Context, prompt models.Prompt, cfg models.SamplingConfig) (string, error) {
	messages := make([]chatgpt.ChatMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, chatgpt.ChatMessage{Role: chatgpt.ChatGPTModelRoleSystem, Content: prompt.System})
	}
	messages = append(messages, chatgpt.ChatMessage{Role: chatgpt.ChatGPTModelRoleUser, Content: prompt.User})

	resp, err := o.client.Send(ctx, &chatgpt.ChatCompletionRequest{
		Model:       chatgpt.ChatGPTModel(cfg.Model),
		Messages:    messages,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return "", wrap(ProviderOpenAI, err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", wrap(ProviderOpenAI, ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
