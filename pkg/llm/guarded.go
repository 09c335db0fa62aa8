package llm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxConcurrent bounds in-flight completion calls per process.
const DefaultMaxConcurrent = 8

// GuardedClient bounds concurrent calls to the wrapped client and, when a
// breaker is configured, fails fast while the provider keeps failing.
type GuardedClient struct {
	inner   LLMClient
	breaker *CircuitBreaker // nil disables the breaker
	sem     *semaphore.Weighted
	logger  *zap.Logger
}

// NewGuardedClient wraps inner. maxConcurrent <= 0 uses DefaultMaxConcurrent.
func NewGuardedClient(inner LLMClient, breaker *CircuitBreaker, maxConcurrent int, logger *zap.Logger) *GuardedClient {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &GuardedClient{
		inner:   inner,
		breaker: breaker,
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		logger:  logger.Named("llm-guard"),
	}
}

// GenerateResponse waits for a slot, consults the breaker, then delegates.
func (g *GuardedClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for completion slot: %w", err)
	}
	defer g.sem.Release(1)

	if g.breaker != nil {
		if err := g.breaker.Allow(); err != nil {
			g.logger.Warn("Completion call rejected", zap.Error(err))
			return nil, err
		}
	}

	result, err := g.inner.GenerateResponse(ctx, prompt, systemMessage, temperature)

	if g.breaker != nil {
		switch {
		case err == nil:
			g.breaker.RecordSuccess()
		case errors.Is(err, context.Canceled):
			// Caller went away; says nothing about provider health.
		default:
			g.breaker.RecordFailure()
			if g.breaker.State() == CircuitOpen {
				g.logger.Warn("Circuit breaker open",
					zap.String("provider", string(g.inner.GetProvider())),
					zap.Int("consecutive_failures", g.breaker.ConsecutiveFailures()))
			}
		}
	}

	return result, err
}

func (g *GuardedClient) GetModel() string      { return g.inner.GetModel() }
func (g *GuardedClient) GetProvider() Provider { return g.inner.GetProvider() }
