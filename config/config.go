package config

import (
	"errors"
	"strings"
	"time"

	"datamilo/database"
	"datamilo/insights"
)

var ErrInvalidConfig = errors.New("INVALID_CONFIG")

const (
	ProviderNone        = "none"
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
)

// Config is the application configuration, read once at startup.
type Config struct {
	Server   ServerConfig        `mapstructure:"server" yaml:"server"`
	Database database.Options    `mapstructure:"database" yaml:"database"`
	LLM      LLMConfig           `mapstructure:"llm" yaml:"llm"`
	Cache    CacheConfig         `mapstructure:"cache" yaml:"cache"`
	Insights insights.Thresholds `mapstructure:"insights" yaml:"insights"`
	Log      LoggingConfig       `mapstructure:"log" yaml:"log"`

	// EnvFile is the .env file that was loaded, empty when none was found.
	EnvFile string `mapstructure:"-" yaml:"-"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// Addr returns a listen address; a bare port number gets a leading colon.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Port, ":") {
		return s.Port
	}
	return ":" + s.Port
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	APIKey   string        `mapstructure:"api_key" yaml:"-"`
	Model    string        `mapstructure:"model" yaml:"model"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`

	SQLTemperature     float64 `mapstructure:"sql_temperature" yaml:"sql_temperature"`
	InsightTemperature float64 `mapstructure:"insight_temperature" yaml:"insight_temperature"`
	TopP               float64 `mapstructure:"top_p" yaml:"top_p"`
	SQLMaxTokens       int     `mapstructure:"sql_max_tokens" yaml:"sql_max_tokens"`
	InsightMaxTokens   int     `mapstructure:"insight_max_tokens" yaml:"insight_max_tokens"`

	// Charts lets the model propose chart configurations too.
	Charts bool `mapstructure:"charts" yaml:"charts"`
}

// Enabled reports whether a text-generation provider is configured.
func (l LLMConfig) Enabled() bool {
	return l.Provider != "" && l.Provider != ProviderNone
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	RedisURL string        `mapstructure:"redis_url" yaml:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}
