package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// languageNames maps supported codes to the names used in prompts.
var languageNames = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"hi":    "Hindi",
	"fr":    "French",
	"de":    "German",
	"zh-cn": "Simplified Chinese",
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string
	Model       string  // default: gpt-4o-mini
	Temperature float32 // default: 0.3
	BaseURL     string  // optional custom endpoint
}

// OpenAIProvider implements Provider using OpenAI chat completions.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI-backed provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates text into the target language. Rate-limit responses
// come back as *RateLimitError; everything else is a generic failure.
func (p *OpenAIProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	name, ok := languageNames[targetLang]
	if !ok {
		name = targetLang
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"You are a professional translator. Translate the user's text into %s. "+
						"Respond with only the translation, nothing else.", name),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyOpenAIError wraps 429 responses as RateLimitError so the retry
// policy can tell throttling apart from permanent rejections.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Cause: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Cause: err}
	}

	return fmt.Errorf("translation request failed: %w", err)
}
