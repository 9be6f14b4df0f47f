package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Cache    CacheConfig    `yaml:"cache"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port               int `yaml:"port"`
	MetricsPort        int `yaml:"metrics_port"`
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	TTLSeconds     int `yaml:"ttl_seconds"`
	CleanupSeconds int `yaml:"cleanup_seconds"`
}

type ScoringConfig struct {
	WeightMethod         string  `yaml:"weight_method"`
	Intensity            string  `yaml:"intensity"`
	ConsistencyPolicy    string  `yaml:"consistency_policy"`
	ConsistencyThreshold float64 `yaml:"consistency_threshold"`
	DefaultLambda        float64 `yaml:"default_lambda"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) CacheCleanup() time.Duration {
	return time.Duration(c.Cache.CleanupSeconds) * time.Second
}

// SlogLevel maps logging.level onto a slog level. Unknown values are info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Defaults returns the built-in settings, before any file or environment
// overrides.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8700,
			MetricsPort:        8701,
			RateLimitPerMinute: 120,
		},
		Cache: CacheConfig{
			TTLSeconds:     300,
			CleanupSeconds: 600,
		},
		Scoring: ScoringConfig{
			WeightMethod:         "geometric",
			Intensity:            "threshold",
			ConsistencyPolicy:    "strict",
			ConsistencyThreshold: 0.1,
			DefaultLambda:        0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Scoring.ConsistencyThreshold <= 0 {
		return fmt.Errorf("scoring.consistency_threshold must be positive, got %v", c.Scoring.ConsistencyThreshold)
	}
	if c.Scoring.DefaultLambda < 0 || c.Scoring.DefaultLambda > 1 {
		return fmt.Errorf("scoring.default_lambda must be within [0, 1], got %v", c.Scoring.DefaultLambda)
	}
	switch strings.ToLower(c.Scoring.ConsistencyPolicy) {
	case "strict", "warn":
	default:
		return fmt.Errorf("scoring.consistency_policy must be strict or warn, got %q", c.Scoring.ConsistencyPolicy)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	if c.Cache.TTLSeconds < 0 || c.Cache.CleanupSeconds < 0 {
		return fmt.Errorf("cache durations must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARBITER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("ARBITER_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("ARBITER_RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.RateLimitPerMinute = n
		}
	}
	if v := os.Getenv("ARBITER_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ARBITER_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("ARBITER_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("ARBITER_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLSeconds = n
		}
	}
	if v := os.Getenv("ARBITER_WEIGHT_METHOD"); v != "" {
		cfg.Scoring.WeightMethod = v
	}
	if v := os.Getenv("ARBITER_INTENSITY"); v != "" {
		cfg.Scoring.Intensity = v
	}
	if v := os.Getenv("ARBITER_CONSISTENCY_POLICY"); v != "" {
		cfg.Scoring.ConsistencyPolicy = v
	}
	if v := os.Getenv("ARBITER_CONSISTENCY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.ConsistencyThreshold = f
		}
	}
	if v := os.Getenv("ARBITER_DEFAULT_LAMBDA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Scoring.DefaultLambda = f
		}
	}
	if v := os.Getenv("ARBITER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ARBITER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
