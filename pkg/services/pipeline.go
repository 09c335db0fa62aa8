package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/intent"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/logging"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/metrics"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/models"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
	sqlutil "github.com/ekaya-inc/ekaya-eventbot/pkg/sql"
)

// Stage is a step an utterance passes through.
type Stage string

const (
	StageStart           Stage = "start"
	StageShortcutChecked Stage = "shortcut_checked"
	StageGreetingReplied Stage = "greeting_replied"
	StageExitReplied     Stage = "exit_replied"
	StageContinuing      Stage = "continuing"
	StageQueryGenerated  Stage = "query_generated"
	StageRejected        Stage = "rejected"
	StageSanitized       Stage = "sanitized"
	StageNormalized      Stage = "normalized"
	StageExecuted        Stage = "executed"
	StageEmptyResult     Stage = "empty_result"
	StageFormatted       Stage = "formatted"
	StageResponded       Stage = "responded"
)

// Outcome is how an utterance was answered. Used as a metric label.
type Outcome string

const (
	OutcomeGreeting          Outcome = "greeting"
	OutcomeFarewell          Outcome = "farewell"
	OutcomeNotAQuery         Outcome = "not_a_query"
	OutcomeGenerationFailure Outcome = "generation_failure"
	OutcomeDataAccessFailure Outcome = "data_access_failure"
	OutcomeNoResults         Outcome = "no_results"
	OutcomeAnswered          Outcome = "answered"
	OutcomePanic             Outcome = "panic"
)

// Clock supplies the current time. Injected so tests can pin the year.
type Clock func() time.Time

// Trace records what happened to one utterance.
type Trace struct {
	Stages  []Stage
	Outcome Outcome
	SQL     string // statement sent to the datastore, if one was
}

func (t *Trace) enter(s Stage) {
	t.Stages = append(t.Stages, s)
}

// PipelineDeps are the collaborators of a Pipeline. Shortcut, Replies and
// Clock are optional.
type PipelineDeps struct {
	Contract  *schema.Contract
	Shortcut  *intent.Shortcut
	Generator QueryGenerator
	Runner    QueryRunner
	Formatter ResultFormatter
	Replies   Replies
	Clock     Clock
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

// Pipeline answers utterances. It holds only read-only state and is safe for
// concurrent use.
type Pipeline struct {
	contract  *schema.Contract
	shortcut  *intent.Shortcut
	generator QueryGenerator
	sanitizer *sqlutil.Sanitizer
	runner    QueryRunner
	formatter ResultFormatter
	replies   Replies
	buttons   []models.Button
	clock     Clock
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPipeline wires deps into a Pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	shortcut := deps.Shortcut
	if shortcut == nil {
		shortcut = intent.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		contract:  deps.Contract,
		shortcut:  shortcut,
		generator: deps.Generator,
		// The date format literal appears in every temporal comparison and
		// is not user input.
		sanitizer: sqlutil.NewSanitizer(deps.Contract.TemporalFormat()),
		runner:    deps.Runner,
		formatter: deps.Formatter,
		replies:   deps.Replies.WithDefaults(),
		buttons:   models.CategoryButtons(deps.Contract.Categories(), deps.Contract.EntityNoun()),
		clock:     clock,
		metrics:   deps.Metrics,
		logger:    logger.Named("pipeline"),
	}
}

// Handle answers u with exactly one response.
func (p *Pipeline) Handle(ctx context.Context, u models.Utterance) models.BotResponse {
	resp, _ := p.HandleWithTrace(ctx, u)
	return resp
}

// HandleWithTrace is Handle that also reports the stages taken.
func (p *Pipeline) HandleWithTrace(ctx context.Context, u models.Utterance) (resp models.BotResponse, trace Trace) {
	start := time.Now()
	logger := p.logger.With(zap.String("sender_id", u.SenderID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Pipeline panic", zap.String("panic", fmt.Sprint(r)), zap.Stack("stack"))
			resp = models.NewBotResponse(u.SenderID, p.replies.Apology)
			trace.Outcome = OutcomePanic
		}
		trace.enter(StageResponded)
		p.metrics.RecordOutcome(string(trace.Outcome), time.Since(start))
		logger.Info("Utterance handled",
			zap.String("outcome", string(trace.Outcome)),
			zap.Duration("elapsed", time.Since(start)))
	}()

	trace.enter(StageStart)
	text, outcome := p.answer(ctx, strings.TrimSpace(u.Message), &trace, logger)
	trace.Outcome = outcome

	if outcome == OutcomeGreeting {
		return models.NewBotResponse(u.SenderID, text, p.buttons...), trace
	}
	return models.NewBotResponse(u.SenderID, text), trace
}

func (p *Pipeline) answer(ctx context.Context, message string, trace *Trace, logger *zap.Logger) (string, Outcome) {
	if message == "" {
		trace.enter(StageRejected)
		return p.replies.Clarification, OutcomeNotAQuery
	}

	match, ok := p.shortcut.Match(message)
	trace.enter(StageShortcutChecked)
	if ok {
		switch match.Kind {
		case intent.KindGreeting:
			trace.enter(StageGreetingReplied)
			return p.replies.Greeting, OutcomeGreeting
		case intent.KindFarewell:
			trace.enter(StageExitReplied)
			return p.replies.Farewell, OutcomeFarewell
		}
	}
	trace.enter(StageContinuing)

	raw, err := p.generator.Generate(ctx, message)
	if err != nil {
		return p.failure(err, logger)
	}
	trace.enter(StageQueryGenerated)

	stmt, err := p.sanitizer.Sanitize(raw)
	if err != nil {
		trace.enter(StageRejected)
		logger.Info("Completion rejected",
			zap.String("completion", logging.TruncateString(raw, logging.MaxQueryLogLength)),
			zap.Error(err))
		return p.failure(err, logger)
	}
	trace.enter(StageSanitized)

	stmt = sqlutil.NormalizeYear(stmt, p.contract.PlaceholderYear(), p.clock())
	trace.enter(StageNormalized)
	trace.SQL = stmt
	logger.Debug("Executing query", zap.String("sql", logging.SanitizeQuery(stmt)))

	rs, err := p.runner.Run(ctx, stmt)
	if err != nil {
		return p.failure(err, logger)
	}
	trace.enter(StageExecuted)

	if rs.IsEmpty() {
		trace.enter(StageEmptyResult)
		return p.replies.NoResults, OutcomeNoResults
	}

	text := p.formatter.Format(ctx, rs)
	trace.enter(StageFormatted)
	return text, OutcomeAnswered
}

// failure maps a classified error to its reply. The error itself is only logged.
func (p *Pipeline) failure(err error, logger *zap.Logger) (string, Outcome) {
	kind := apperrors.KindOf(err)
	logger.Debug("Pipeline stopped", zap.String("kind", kind.String()), zap.Error(err))

	switch kind {
	case apperrors.KindNotAQuery:
		return p.replies.ForKind(kind), OutcomeNotAQuery
	case apperrors.KindDataAccessFailure:
		return p.replies.ForKind(kind), OutcomeDataAccessFailure
	default:
		return p.replies.ForKind(kind), OutcomeGenerationFailure
	}
}
