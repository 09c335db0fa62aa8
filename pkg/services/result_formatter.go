package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/llm"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/metrics"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/prompts"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
)

const (
	DefaultFormattingTemperature = 0.5
	DefaultFormattingTimeout     = 30 * time.Second

	// FormatFallbackText is returned when the completion call fails.
	FormatFallbackText = "Error formatting results. Please try again."
)

// ResultFormatter renders rows as conversational text.
type ResultFormatter interface {
	// Format never fails; on error it returns FormatFallbackText.
	Format(ctx context.Context, rs *models.ResultSet) string
}

// FormatterConfig tunes the formatting call. Temperature is used as given.
// NoResultsText is returned for an empty result set without calling the
// model; it is the same text as Replies.NoResults.
type FormatterConfig struct {
	Temperature   float64
	Timeout       time.Duration
	AboutMaxChars int
	NoResultsText string
}

// DefaultFormatterConfig returns the stock formatting settings.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Temperature:   DefaultFormattingTemperature,
		Timeout:       DefaultFormattingTimeout,
		AboutMaxChars: prompts.DefaultAboutMaxChars,
		NoResultsText: DefaultReplies().NoResults,
	}
}

type resultFormatter struct {
	client   llm.LLMClient
	contract *schema.Contract
	cfg      FormatterConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewResultFormatter creates a formatter using the contract's summary fields.
func NewResultFormatter(client llm.LLMClient, contract *schema.Contract, cfg FormatterConfig, m *metrics.Metrics, logger *zap.Logger) ResultFormatter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultFormattingTimeout
	}
	if cfg.AboutMaxChars <= 0 {
		cfg.AboutMaxChars = prompts.DefaultAboutMaxChars
	}
	if cfg.NoResultsText == "" {
		cfg.NoResultsText = DefaultReplies().NoResults
	}
	return &resultFormatter{
		client:   client,
		contract: contract,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.Named("result-formatter"),
	}
}

func (f *resultFormatter) Format(ctx context.Context, rs *models.ResultSet) string {
	if rs.IsEmpty() {
		return f.cfg.NoResultsText
	}

	prompt := prompts.BuildSummaryPrompt(rs.Columns, rs.Rows, prompts.SummaryOptions{
		Fields:        f.contract.Summary(),
		Noun:          f.contract.EntityNoun(),
		AboutMaxChars: f.cfg.AboutMaxChars,
	})

	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	result, err := f.client.GenerateResponse(ctx, prompt, prompts.SummarySystemMessage, f.cfg.Temperature)
	f.metrics.RecordLLMCall(string(f.client.GetProvider()), metrics.PurposeFormat, time.Since(start), string(llm.GetErrorType(err)))

	if err != nil {
		f.logger.Error("Result formatting failed",
			zap.Int("rows", rs.Len()),
			zap.String("error_type", string(llm.GetErrorType(err))),
			zap.Error(err))
		return FormatFallbackText
	}

	text := strings.TrimSpace(result.Content)
	if text == "" {
		f.logger.Warn("Result formatting returned no text", zap.Int("rows", rs.Len()))
		return FormatFallbackText
	}
	return text
}
