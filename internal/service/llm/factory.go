// Package llm adapts the supported completion providers to service.Completer.
package llm

import (
	"context"

	"StockAdvisor/internal/domain/models"
	"StockAdvisor/internal/domain/service"
	"StockAdvisor/pkg/config"
)

// New builds the completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (service.Completer, error) {
	switch cfg.Provider {
	case ProviderClaude:
		if cfg.Claude.APIKey == "" {
			return nil, models.NewConfigurationError("llm.claude.api_key", "required for provider claude (ANTHROPIC_API_KEY)")
		}
		return NewClaudeCompleter(cfg.Claude.APIKey), nil
	case ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, models.NewConfigurationError("llm.gemini.api_key", "required for provider gemini (GEMINI_API_KEY)")
		}
		c, err := NewGeminiCompleter(ctx, cfg.Gemini.APIKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, models.NewConfigurationError("llm.openai.api_key", "required for provider openai (OPENAI_API_KEY)")
		}
		c, err := NewOpenAICompleter(cfg.OpenAI.APIKey)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, models.NewConfigurationError("llm.provider", "unknown provider %q", cfg.Provider)
	}
}

// Sampling returns the sampling parameters every role starts from.
func Sampling(cfg config.LLMConfig) models.SamplingConfig {
	return models.SamplingConfig{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}
