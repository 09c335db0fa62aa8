package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource/mssql"
	_ "github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource/mysql"
	_ "github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/config"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/intent"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/llm"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/metrics"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/schema"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/services"
)

// app is the wired pipeline plus the resources it owns.
type app struct {
	contract *schema.Contract
	executor datasource.QueryExecutor
	metrics  *metrics.Metrics
	pipeline *services.Pipeline
}

// newApp connects to the datastore and the completion service and builds
// the pipeline. Close releases the datastore pool.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	contract, err := loadContract(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Schema contract loaded",
		zap.String("entity", contract.Entity()),
		zap.String("dialect", contract.DialectName()),
		zap.Int("columns", len(contract.ColumnNames())))

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	client, err := llm.NewClient(ctx, cfg.LLM.ClientConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	executor, err := datasource.Connect(ctx, cfg.Datastore.Type, cfg.Datastore.DatasourceConfig(), cfg.Datastore.ConnectAttempts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s datastore: %w", cfg.Datastore.Type, err)
	}

	return &app{
		contract: contract,
		executor: executor,
		metrics:  m,
		pipeline: buildPipeline(cfg, contract, client, executor, m, logger),
	}, nil
}

func buildPipeline(cfg *config.Config, contract *schema.Contract, client llm.LLMClient, executor datasource.QueryExecutor, m *metrics.Metrics, logger *zap.Logger) *services.Pipeline {
	replies := services.Replies{
		Greeting:      cfg.Replies.Greeting,
		Farewell:      cfg.Replies.Farewell,
		Clarification: cfg.Replies.Clarification,
		NoResults:     cfg.Replies.NoResults,
		Apology:       cfg.Replies.Apology,
	}.WithDefaults()

	generator := services.NewQueryGenerator(client, contract, services.GeneratorConfig{
		Temperature: cfg.LLM.GenerationTemperature,
		Timeout:     cfg.LLM.GenerationTimeout,
	}, m, logger)

	runner := services.NewQueryRunner(executor, services.RunnerConfig{
		MaxRows: cfg.Datastore.MaxRows,
		Timeout: cfg.Datastore.QueryTimeout,
	}, m, logger)

	formatter := services.NewResultFormatter(client, contract, services.FormatterConfig{
		Temperature:   cfg.LLM.FormattingTemperature,
		Timeout:       cfg.LLM.FormattingTimeout,
		AboutMaxChars: cfg.Formatter.AboutMaxChars,
		NoResultsText: replies.NoResults,
	}, m, logger)

	return services.NewPipeline(services.PipelineDeps{
		Contract:  contract,
		Shortcut:  intent.Default(),
		Generator: generator,
		Runner:    runner,
		Formatter: formatter,
		Replies:   replies,
		Metrics: m,
		Logger:  logger,
	})
}

// loadContract picks the contract file when configured, otherwise the
// built-in events contract for the datastore's dialect.
func loadContract(cfg *config.Config) (*schema.Contract, error) {
	dialect := schema.Dialect(cfg.Datastore.Type)
	if cfg.SchemaFile != "" {
		return schema.LoadFile(cfg.SchemaFile, dialect)
	}
	return schema.ForDialect(dialect)
}

func (a *app) Close() error {
	return a.executor.Close()
}
