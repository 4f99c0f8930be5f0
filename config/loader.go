package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"datamilo/database"
	"datamilo/insights"
)

// envBindings maps config keys to the environment variables that may set
// them, in priority order.
var envBindings = map[string][]string{
	"server.port":            {"PORT"},
	"server.allowed_origins": {"ALLOWED_ORIGINS"},
	"database.driver":        {"DB_DRIVER"},
	"database.dsn":           {"DATABASE_URL"},
	"database.host":          {"POSTGRES_HOST", "DB_HOST"},
	"database.port":          {"POSTGRES_PORT", "DB_PORT"},
	"database.user":          {"POSTGRES_USER", "DB_USER"},
	"database.password":      {"POSTGRES_PASSWORD", "DB_PASSWORD"},
	"database.name":          {"POSTGRES_DB", "DB_NAME"},
	"llm.provider":           {"LLM_PROVIDER"},
	"llm.api_key":            {"API_KEY", "LLM_API_KEY"},
	"llm.model":              {"LLM_MODEL"},
	"llm.base_url":           {"LLM_BASE_URL", "OLLAMA_HOST"},
	"cache.redis_url":        {"REDIS_URL"},
	"log.level":              {"LOG_LEVEL"},
	"log.format":             {"LOG_FORMAT"},
}

// Load reads .env, the optional YAML file at path and the environment, in
// increasing priority, then validates the result.
func Load(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DATAMILO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("datamilo")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.EnvFile = envFile
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.seed", false)

	v.SetDefault("llm.provider", ProviderNone)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.sql_temperature", 0.1)
	v.SetDefault("llm.insight_temperature", 0.3)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("llm.sql_max_tokens", 200)
	v.SetDefault("llm.insight_max_tokens", 300)
	v.SetDefault("llm.charts", false)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "5m")

	v.SetDefault("insights.critical_concentration", insights.DefaultCriticalConcentration)
	v.SetDefault("insights.moderate_concentration", insights.DefaultModerateConcentration)
	v.SetDefault("insights.premium_order_value", insights.DefaultPremiumOrderValue)
	v.SetDefault("insights.strong_order_value", insights.DefaultStrongOrderValue)
	v.SetDefault("insights.growth_order_value", insights.DefaultGrowthOrderValue)
	v.SetDefault("insights.low_customer_base", insights.DefaultLowCustomerBase)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks cross-field constraints. Failures wrap ErrInvalidConfig.
func Validate(cfg *Config) error {
	var problems []string

	switch cfg.Database.Driver {
	case "sqlite", database.DriverSQLite, database.DriverPgx, database.DriverPostgres:
	default:
		problems = append(problems, fmt.Sprintf("unknown database.driver %q", cfg.Database.Driver))
	}

	switch cfg.LLM.Provider {
	case ProviderNone, "":
	case ProviderHuggingFace, ProviderOpenAI:
		if cfg.LLM.APIKey == "" {
			problems = append(problems, fmt.Sprintf("API_KEY is required for llm.provider %q", cfg.LLM.Provider))
		}
	case ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("unknown llm.provider %q", cfg.LLM.Provider))
	}
	if cfg.LLM.Timeout <= 0 {
		problems = append(problems, "llm.timeout must be positive")
	}

	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		problems = append(problems, "cache.redis_url is required when the cache is enabled")
	}

	t := cfg.Insights
	if t.ModerateConcentration <= 0 || t.CriticalConcentration <= t.ModerateConcentration || t.CriticalConcentration > 100 {
		problems = append(problems, "insights concentration thresholds must satisfy 0 < moderate < critical <= 100")
	}
	if t.GrowthOrderValue <= 0 || t.StrongOrderValue <= t.GrowthOrderValue || t.PremiumOrderValue <= t.StrongOrderValue {
		problems = append(problems, "insights order value tiers must satisfy 0 < growth < strong < premium")
	}
	if t.LowCustomerBase < 0 {
		problems = append(problems, "insights.low_customer_base must not be negative")
	}

	switch cfg.Log.Format {
	case "json", "console":
	default:
		problems = append(problems, fmt.Sprintf("unknown log.format %q", cfg.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// loadEnvFile loads the first .env found in the working directory or the
// module root and returns its path.
func loadEnvFile() string {
	paths := []string{".env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
