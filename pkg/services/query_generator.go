package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/llm"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/metrics"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/prompts"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

// DefaultGenerationTimeout bounds the single completion call per utterance.
const DefaultGenerationTimeout = 30 * time.Second

// QueryGenerator turns an utterance into raw completion text that should
// contain one SELECT statement.
type QueryGenerator interface {
	// Generate makes exactly one completion call. Failures are returned as
	// *apperrors.Error of KindGenerationFailure.
	Generate(ctx context.Context, utterance string) (string, error)
}

// GeneratorConfig tunes the completion call.
type GeneratorConfig struct {
	Temperature float64
	Timeout     time.Duration
}

type queryGenerator struct {
	client   llm.LLMClient
	contract *schema.Contract
	cfg      GeneratorConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewQueryGenerator creates a generator bound to contract.
func NewQueryGenerator(client llm.LLMClient, contract *schema.Contract, cfg GeneratorConfig, m *metrics.Metrics, logger *zap.Logger) QueryGenerator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultGenerationTimeout
	}
	return &queryGenerator{
		client:   client,
		contract: contract,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.Named("query-generator"),
	}
}

func (g *queryGenerator) Generate(ctx context.Context, utterance string) (string, error) {
	prompt := prompts.BuildQueryPrompt(g.contract, utterance)

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := g.client.GenerateResponse(ctx, prompt, prompts.QuerySystemMessage, g.cfg.Temperature)
	if err == nil && strings.TrimSpace(result.Content) == "" {
		err = apperrors.ErrEmptyCompletion
	}
	g.metrics.RecordLLMCall(string(g.client.GetProvider()), metrics.PurposeGenerate, time.Since(start), string(llm.GetErrorType(err)))

	if err != nil {
		g.logger.Error("Query generation failed",
			zap.String("provider", string(g.client.GetProvider())),
			zap.String("model", g.client.GetModel()),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return "", apperrors.New(apperrors.KindGenerationFailure, "generate", fmt.Errorf("completion: %w", err))
	}

	g.logger.Debug("Query generated",
		zap.Int("prompt_tokens", result.PromptTokens),
		zap.Int("completion_tokens", result.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return result.Content, nil
}
