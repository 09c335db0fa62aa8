package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider      Provider
	Model         string
	BaseURL       string // Optional; OpenAI-compatible endpoints, proxies
	APIKey        string
	MaxTokens     int // Anthropic requires an explicit completion budget
	MaxConcurrent int

	// CircuitBreaker enables fail-fast behavior when non-nil.
	CircuitBreaker *CircuitBreakerConfig
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderAnthropic:
		return "claude-sonnet-4-5-20250929"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "gpt-4"
	}
}

// NewClient builds the provider client named by cfg and wraps it in a
// GuardedClient.
func NewClient(ctx context.Context, cfg *Config, logger *zap.Logger) (LLMClient, error) {
	c := *cfg
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}

	var (
		inner LLMClient
		err   error
	)
	switch c.Provider {
	case ProviderOpenAI, "":
		inner, err = NewOpenAIClient(&c, logger)
	case ProviderAnthropic:
		inner, err = NewAnthropicClient(&c, logger)
	case ProviderGemini:
		inner, err = NewGeminiClient(ctx, &c, logger)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", c.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", c.Provider, err)
	}

	var breaker *CircuitBreaker
	if c.CircuitBreaker != nil {
		breaker = NewCircuitBreaker(*c.CircuitBreaker)
	}

	logger.Info("LLM client ready",
		zap.String("provider", string(inner.GetProvider())),
		zap.String("model", inner.GetModel()),
		zap.Bool("circuit_breaker", breaker != nil))

	return NewGuardedClient(inner, breaker, c.MaxConcurrent, logger), nil
}
