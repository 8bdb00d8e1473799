package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Env          string             `mapstructure:"env"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Line         LineConfig         `mapstructure:"line"`
	Directory    DirectoryConfig    `mapstructure:"directory"`
	LLM          LLMConfig          `mapstructure:"llm"`
	Conversation ConversationConfig `mapstructure:"conversation"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

// DatabaseConfig selects and configures the relational store.
// Driver is either "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	Database       string `mapstructure:"database"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConns       int32  `mapstructure:"max_conns"`
	MinConns       int32  `mapstructure:"min_conns"`
	SQLitePath     string `mapstructure:"sqlite_path"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	Password          string        `mapstructure:"password"`
	DB                int           `mapstructure:"db"`
	DirectoryCacheTTL time.Duration `mapstructure:"directory_cache_ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LineConfig holds messaging platform credentials
type LineConfig struct {
	ChannelSecret      string `mapstructure:"channel_secret"`
	ChannelAccessToken string `mapstructure:"channel_access_token"`
	APIBaseURL         string `mapstructure:"api_base_url"`
}

// DirectoryConfig points at the identity provider's user directory
type DirectoryConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIToken string        `mapstructure:"api_token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LLMConfig struct {
	DefaultProvider string             `mapstructure:"default_provider"`
	HistoryLimit    int                `mapstructure:"history_limit"`
	ReplyService    ReplyServiceConfig `mapstructure:"reply_service"`
	OpenAI          OpenAIConfig       `mapstructure:"openai"`
	Anthropic       AnthropicConfig    `mapstructure:"anthropic"`
	Ollama          OllamaConfig       `mapstructure:"ollama"`
	DeepSeek        DeepSeekConfig     `mapstructure:"deepseek"`
	Gemini          GeminiConfig       `mapstructure:"gemini"`
}

// ReplyServiceConfig configures the dedicated reply generation endpoint
type ReplyServiceConfig struct {
	URL     string        `mapstructure:"url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

type DeepSeekConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// ConversationConfig tunes the chat flow
type ConversationConfig struct {
	CancelKeywords     []string `mapstructure:"cancel_keywords"`
	FallbackSuggestion string   `mapstructure:"fallback_suggestion"`
	Concurrency        int      `mapstructure:"concurrency"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// File enables a rotating log file in addition to stderr when set
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("server.middleware_timeout", "55s")

	// Database
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "replyassistant")
	v.SetDefault("database.database", "replyassistant")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.sqlite_path", "./data/reply-assistant.db")
	v.SetDefault("database.migrations_path", "file://migrations")

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.directory_cache_ttl", "10m")

	// LINE
	v.SetDefault("line.api_base_url", "https://api.line.me")

	// Directory
	v.SetDefault("directory.timeout", "10s")

	// LLM
	v.SetDefault("llm.default_provider", "reply_service")
	v.SetDefault("llm.history_limit", 10)
	v.SetDefault("llm.reply_service.timeout", "30s")
	v.SetDefault("llm.ollama.default_model", "llama3")
	v.SetDefault("llm.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.anthropic.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("llm.deepseek.base_url", "https://api.deepseek.com/v1")

	// Conversation
	v.SetDefault("conversation.cancel_keywords", []string{"cancel", "キャンセル", "やめる", "中止"})
	v.SetDefault("conversation.fallback_suggestion", "reply generation failed")
	v.SetDefault("conversation.concurrency", 8)

	// Auth
	v.SetDefault("auth.access_token_ttl", "24h")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_age", "168h") // 7 days
	v.SetDefault("logging.rotation_time", "24h")

	// Metrics
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("env", "ENV")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "POSTGRES_HOST")
	v.BindEnv("database.password", "POSTGRES_PASSWORD")
	v.BindEnv("database.sqlite_path", "SQLITE_PATH")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// LINE
	v.BindEnv("line.channel_secret", "LINE_CHANNEL_SECRET")
	v.BindEnv("line.channel_access_token", "LINE_CHANNEL_ACCESS_TOKEN")

	// Directory
	v.BindEnv("directory.base_url", "DIRECTORY_BASE_URL")
	v.BindEnv("directory.api_token", "DIRECTORY_API_TOKEN")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")

	// LLM
	v.BindEnv("llm.reply_service.url", "REPLY_SERVICE_URL")
	v.BindEnv("llm.reply_service.api_key", "REPLY_SERVICE_API_KEY")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("llm.deepseek.api_key", "DEEPSEEK_API_KEY")
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")
}
