package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/I-PingLin/Nano-Banana-Pro---AI-Marketing-Suite/internal/config"
)

// New builds the Generator selected by cfg.Provider. One instance is shared by
// every workspace of the process and passed in explicitly.
func New(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (Generator, error) {
	prompts, err := LoadPromptSpec(cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		gc, err := NewGeminiClient(ctx, GeminiConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.GenAIBaseURL,
			TextModel:  cfg.TextModel,
			ImageModel: cfg.ImageModel,
			ChatModel:  cfg.ChatModel,
		}, prompts, logger)
		if err != nil {
			return nil, err
		}
		return gc, nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			ImageModel: cfg.OpenAIImageModel,
		}, prompts, logger), nil
	case config.ProviderStub:
		return NewStubClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
