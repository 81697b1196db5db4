package service

import (
	"context"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"aiinterviewer/internal/config"
)

// OpenAIBackend talks to any OpenAI-compatible chat completion API, Groq included
type OpenAIBackend struct {
	client *openai.Client
	models config.TaskModels
}

func NewOpenAIBackend(cfg *config.AIConfig) *OpenAIBackend {
	ocfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		ocfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(ocfg),
		models: cfg.Models,
	}
}

func (b *OpenAIBackend) Name() string { return config.ProviderOpenAI }

func (b *OpenAIBackend) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: modelForTask(b.models, req.Task),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", errors.Wrap(err, "openai: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
