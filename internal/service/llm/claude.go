package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"StockAdvisor/internal/domain/models"
)

const ProviderClaude = "claude"

// ClaudeCompleter calls the Anthropic Messages API. SDK retries are disabled;
// a failed call is reported to the caller as is.
type ClaudeCompleter struct {
	client anthropic.Client
}

func NewClaudeCompleter(apiKey string, opts ...option.RequestOption) *ClaudeCompleter {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &ClaudeCompleter{client: anthropic.NewClient(opts...)}
}

func (c *ClaudeCompleter) Name() string { return ProviderClaude }

func (c *ClaudeCompleter) Complete(ctx context.Context, prompt models.Prompt, cfg models.SamplingConfig) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: int64(cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt.User)),
		},
		Temperature: anthropic.Float(cfg.Temperature),
	}
	if prompt.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: prompt.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrap(ProviderClaude, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", wrap(ProviderClaude, ErrEmptyCompletion)
	}
	return text.String(), nil
}
