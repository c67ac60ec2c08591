package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"school_exam_backend/internal/config"
	"school_exam_backend/internal/util"
	"school_exam_backend/pkg/logger"
	"school_exam_backend/pkg/monitoring"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "You are a helpful assistant that replies with a single JSON object and nothing else."

// TextGenerator sends one prompt to a language model and returns its reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAIGenerator talks to any OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	api *openai.Client

	mu          sync.RWMutex
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIGenerator(cfg config.AIConfig) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{
		api:         openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Apply picks up model settings from a reloaded configuration.
func (g *OpenAIGenerator) Apply(cfg config.AIConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cfg.Model != "" && cfg.Model != g.model {
		logger.Log.Info("text generation model changed", zap.String("from", g.model), zap.String("to", cfg.Model))
		g.model = cfg.Model
	}
	g.maxTokens = cfg.MaxTokens
	g.temperature = cfg.Temperature
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.RLock()
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}
	g.mu.RUnlock()

	resp, err := g.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// TextGenService retries the generator a fixed number of times, without
// backoff, on transport errors and empty replies.
type TextGenService struct {
	Generator   TextGenerator
	MaxAttempts int
}

func NewTextGenService(gen TextGenerator, maxAttempts int) *TextGenService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &TextGenService{Generator: gen, MaxAttempts: maxAttempts}
}

func (s *TextGenService) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= s.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		out, err := s.Generator.Generate(ctx, prompt)
		switch {
		case err != nil:
			lastErr = err
			monitoring.TextGenAttempts.WithLabelValues("error").Inc()
			logger.Log.Warn("text generation attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		case strings.TrimSpace(out) == "":
			lastErr = errors.New("empty response")
			monitoring.TextGenAttempts.WithLabelValues("empty").Inc()
			logger.Log.Warn("text generation returned nothing", zap.Int("attempt", attempt))
		default:
			monitoring.TextGenAttempts.WithLabelValues("ok").Inc()
			return out, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %v", util.ErrGenerationFailed, s.MaxAttempts, lastErr)
}
