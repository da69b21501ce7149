package interp

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"finchat/config"
)

// NewChatModel builds the optional chat model for the hybrid interpreter.
// Returns nil (and no error) when LLM refinement is disabled or unconfigured.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	if !cfg.LLMEnabled || cfg.LLMAPIKey == "" {
		return nil, nil
	}

	maxTokens := 512
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   cfg.LLMBaseURL,
		APIKey:    cfg.LLMAPIKey,
		Model:     cfg.LLMModel,
		MaxTokens: &maxTokens,
	})
	if err != nil {
		return nil, err
	}
	return cm, nil
}
