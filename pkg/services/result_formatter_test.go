package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/llm"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/prompts"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

func TestResultFormatter_EmptySetSkipsCompletion(t *testing.T) {
	client := llm.NewStaticMockLLMClient("should not be used")
	f := NewResultFormatter(client, schema.Default(), DefaultFormatterConfig(), nil, zap.NewNop())

	assert.Equal(t, DefaultReplies().NoResults, f.Format(context.Background(), &models.ResultSet{}))
	assert.Equal(t, DefaultReplies().NoResults, f.Format(context.Background(), nil))
	assert.Equal(t, 0, client.GenerateResponseCalls())
}

func TestResultFormatter_EmptySetUsesConfiguredText(t *testing.T) {
	client := llm.NewStaticMockLLMClient("should not be used")
	cfg := DefaultFormatterConfig()
	cfg.NoResultsText = "Nothing on."
	f := NewResultFormatter(client, schema.Default(), cfg, nil, zap.NewNop())

	assert.Equal(t, "Nothing on.", f.Format(context.Background(), &models.ResultSet{}))
	assert.Equal(t, 0, client.GenerateResponseCalls())
}

func TestResultFormatter_UsesSummaryPrompt(t *testing.T) {
	client := llm.NewStaticMockLLMClient("  Jazz Night, 20 June, Valletta  ")
	contract := schema.Default()
	f := NewResultFormatter(client, contract, DefaultFormatterConfig(), nil, zap.NewNop())
	rs := eventRows()

	text := f.Format(context.Background(), rs)

	assert.Equal(t, "Jazz Night, 20 June, Valletta", text)
	calls := client.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, DefaultFormattingTemperature, calls[0].Temperature)
	assert.Equal(t, prompts.SummarySystemMessage, calls[0].SystemMessage)
	assert.Contains(t, calls[0].Prompt, "Title: Jazz Night")
	assert.Contains(t, calls[0].Prompt, "Location: Valletta")
}

func TestResultFormatter_Deterministic(t *testing.T) {
	client := llm.NewMockLLMClient()
	client.GenerateResponseFunc = func(_ context.Context, prompt, _ string, _ float64) (*llm.GenerateResponseResult, error) {
		return &llm.GenerateResponseResult{Content: "summary of " + prompt}, nil
	}
	f := NewResultFormatter(client, schema.Default(), DefaultFormatterConfig(), nil, zap.NewNop())

	first := f.Format(context.Background(), eventRows())
	second := f.Format(context.Background(), eventRows())

	assert.Equal(t, first, second)
}

func TestResultFormatter_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fn   func(context.Context, string, string, float64) (*llm.GenerateResponseResult, error)
	}{
		{"error", func(context.Context, string, string, float64) (*llm.GenerateResponseResult, error) {
			return nil, errors.New("429 rate limit")
		}},
		{"blank", func(context.Context, string, string, float64) (*llm.GenerateResponseResult, error) {
			return &llm.GenerateResponseResult{Content: "\n"}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llm.NewMockLLMClient()
			client.GenerateResponseFunc = tt.fn
			f := NewResultFormatter(client, schema.Default(), DefaultFormatterConfig(), nil, zap.NewNop())

			assert.Equal(t, FormatFallbackText, f.Format(context.Background(), eventRows()))
		})
	}
}

func TestResultFormatter_Timeout(t *testing.T) {
	client := llm.NewMockLLMClient()
	client.GenerateResponseFunc = func(ctx context.Context, _, _ string, _ float64) (*llm.GenerateResponseResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	cfg := DefaultFormatterConfig()
	cfg.Timeout = 20 * time.Millisecond
	f := NewResultFormatter(client, schema.Default(), cfg, nil, zap.NewNop())

	start := time.Now()
	text := f.Format(context.Background(), eventRows())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, FormatFallbackText, text)
	assert.Equal(t, 1, client.GenerateResponseCalls())
}
