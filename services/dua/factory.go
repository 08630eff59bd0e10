package dua

import (
	"context"
	"fmt"
	"strings"
)

// NewLLMClient builds the configured provider client.
func NewLLMClient(ctx context.Context, provider, apiKey, model string) (LLMClient, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model)
	case "gemini":
		return NewGeminiClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// unavailableClient fails every call, so generation always serves fallback
// content. Used when no provider could be configured.
type unavailableClient struct{ err error }

func (u unavailableClient) Complete(context.Context, CompletionRequest) (string, error) {
	return "", u.err
}

// Unavailable returns an LLMClient that always fails with err.
func Unavailable(err error) LLMClient {
	return unavailableClient{err: err}
}
