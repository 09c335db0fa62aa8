package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/ekaya-inc/ekaya-eventbot/pkg/adapters/datasource"
	"github.com/ekaya-inc/ekaya-eventbot/pkg/llm"
)

// DefaultPath is read when no config path is given. A missing file is not
// an error; environment variables alone are enough.
const DefaultPath = "config.yaml"

// Config holds all configuration for the event bot.
// Configuration can come from a YAML file or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"10000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	Datastore DatastoreConfig `yaml:"datastore"`
	LLM       LLMConfig       `yaml:"llm"`
	Formatter FormatterConfig `yaml:"formatter"`
	Replies   RepliesConfig   `yaml:"replies"`
	MCP       MCPConfig       `yaml:"mcp"`
	Metrics   MetricsConfig   `yaml:"metrics"`

	// SchemaFile is an optional YAML schema contract overlaid on the
	// built-in events contract.
	SchemaFile string `yaml:"schema_file" env:"SCHEMA_FILE" env-default:""`
}

// DatastoreConfig holds the events datastore connection settings.
type DatastoreConfig struct {
	Type            string        `yaml:"type" env:"DB_TYPE" env-default:"mysql"`
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"0"` // 0 selects the adapter default
	User            string        `yaml:"user" env:"DB_USER" env-default:""`
	Password        string        `yaml:"-" env:"DB_PASSWORD"` // Secret - not in YAML
	Database        string        `yaml:"database" env:"DB_NAME" env-default:"events"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxConns        int           `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"DB_QUERY_TIMEOUT" env-default:"15s"`
	MaxRows         int           `yaml:"max_rows" env:"DB_MAX_ROWS" env-default:"50"`
	ConnectAttempts int           `yaml:"connect_attempts" env:"DB_CONNECT_ATTEMPTS" env-default:"5"`
}

// LLMConfig holds the completion service settings.
type LLMConfig struct {
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:""` // Empty selects the provider default
	BaseURL  string `yaml:"base_url" env:"LLM_BASE_URL" env-default:""`
	// APIKey falls back to OPENAI_API_KEY when LLM_API_KEY is unset.
	APIKey        string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
	MaxTokens     int    `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
	MaxConcurrent int    `yaml:"max_concurrent" env:"LLM_MAX_CONCURRENT" env-default:"8"`

	GenerationTemperature float64       `yaml:"generation_temperature" env:"LLM_GENERATION_TEMPERATURE" env-default:"0"`
	FormattingTemperature float64       `yaml:"formatting_temperature" env:"LLM_FORMATTING_TEMPERATURE" env-default:"0.5"`
	GenerationTimeout     time.Duration `yaml:"generation_timeout" env:"LLM_GENERATION_TIMEOUT" env-default:"30s"`
	FormattingTimeout     time.Duration `yaml:"formatting_timeout" env:"LLM_FORMATTING_TIMEOUT" env-default:"30s"`

	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig controls fail-fast behavior while the provider is down.
type CircuitBreakerConfig struct {
	Enabled    bool          `yaml:"enabled" env:"LLM_CIRCUIT_BREAKER_ENABLED" env-default:"true"`
	Threshold  int           `yaml:"threshold" env:"LLM_CIRCUIT_BREAKER_THRESHOLD" env-default:"5"`
	ResetAfter time.Duration `yaml:"reset_after" env:"LLM_CIRCUIT_BREAKER_RESET_AFTER" env-default:"30s"`
}

// FormatterConfig tunes result summaries.
type FormatterConfig struct {
	AboutMaxChars int `yaml:"about_max_chars" env:"FORMATTER_ABOUT_MAX_CHARS" env-default:"300"`
}

// RepliesConfig overrides the fixed reply texts. Empty fields keep the defaults.
type RepliesConfig struct {
	Greeting      string `yaml:"greeting" env:"REPLY_GREETING"`
	Farewell      string `yaml:"farewell" env:"REPLY_FAREWELL"`
	Clarification string `yaml:"clarification" env:"REPLY_CLARIFICATION"`
	NoResults     string `yaml:"no_results" env:"REPLY_NO_RESULTS"`
	Apology       string `yaml:"apology" env:"REPLY_APOLOGY"`
}

// MCPConfig controls the MCP tool endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled" env:"MCP_ENABLED" env-default:"true"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}

// Load reads configuration from path with environment variable overrides
// and validates it. A .env file in the working directory is loaded first if
// present; it never overrides variables that are already set. The version
// parameter is injected at build time and set on the returned Config.
func Load(path, version string) (*Config, error) {
	cfg, err := Read(path, version)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Read is Load without validation. Commands that only touch the datastore
// use it so they run without LLM credentials.
func Read(path, version string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Version: version,
	}

	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" && c.LLM.BaseURL == "" {
		return errors.New("LLM_API_KEY (or OPENAI_API_KEY) environment variable is not set")
	}

	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Datastore.Type {
	case "mysql", "postgres", "sqlserver":
	default:
		return fmt.Errorf("unknown datastore type %q", c.Datastore.Type)
	}

	for name, d := range map[string]time.Duration{
		"generation_timeout": c.LLM.GenerationTimeout,
		"formatting_timeout": c.LLM.FormattingTimeout,
		"query_timeout":      c.Datastore.QueryTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	for name, t := range map[string]float64{
		"generation_temperature": c.LLM.GenerationTemperature,
		"formatting_temperature": c.LLM.FormattingTemperature,
	} {
		if t < 0 || t > 2 {
			return fmt.Errorf("%s must be within [0, 2], got %g", name, t)
		}
	}

	if c.Datastore.MaxRows <= 0 || c.Datastore.MaxRows > datasource.MaxQueryLimit {
		return fmt.Errorf("max_rows must be within [1, %d], got %d", datasource.MaxQueryLimit, c.Datastore.MaxRows)
	}

	return nil
}

// ListenAddr is the address the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return c.BindAddr + ":" + c.Port
}

// DatasourceConfig converts the settings to the adapter form.
func (c *DatastoreConfig) DatasourceConfig() *datasource.Config {
	return &datasource.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Database:        c.Database,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// ClientConfig converts the settings to the llm factory form.
func (c *LLMConfig) ClientConfig() *llm.Config {
	cfg := &llm.Config{
		Provider:      llm.Provider(c.Provider),
		Model:         c.Model,
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		MaxTokens:     c.MaxTokens,
		MaxConcurrent: c.MaxConcurrent,
	}
	if c.CircuitBreaker.Enabled {
		cfg.CircuitBreaker = &llm.CircuitBreakerConfig{
			Threshold:  c.CircuitBreaker.Threshold,
			ResetAfter: c.CircuitBreaker.ResetAfter,
		}
	}
	return cfg
}
