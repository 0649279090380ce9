package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"StockAdvisor/internal/domain/models"
)

const ProviderGemini = "gemini"

type GeminiCompleter struct {
	client *genai.Client
}

func NewGeminiCompleter(ctx context.Context, apiKey string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client}, nil
}

func (g *GeminiCompleter) Name() string { return ProviderGemini }

func (g *GeminiCompleter) Complete(ctx context.Context, prompt models.Prompt, cfg models.SamplingConfig) (string, error) {
	conf := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(cfg.Temperature)),
		MaxOutputTokens: int32(cfg.MaxTokens),
	}
	if prompt.System != "" {
		conf.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, cfg.Model, genai.Text(prompt.User), conf)
	if err != nil {
		return "", wrap(ProviderGemini, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", wrap(ProviderGemini, ErrEmptyCompletion)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", wrap(ProviderGemini, ErrEmptyCompletion)
	}
	return text, nil
}
