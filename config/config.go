package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	// DBDriver is empty when no database is configured; read endpoints then
	// serve the embedded fallback data.
	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	RedisURL        string `yaml:"redis_url"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`

	MinVisiblePercent float64 `yaml:"min_visible_percent"`
	TimelineMaxDepth  int     `yaml:"timeline_max_depth"`
	GlobalWindowHours int     `yaml:"global_window_hours"`
	GlobalLimit       int     `yaml:"global_limit"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	CacheWarmSchedule string `yaml:"cache_warm_schedule"`
	LogLevel          string `yaml:"log_level"`
}

// Load starts from the defaults, applies config.yaml (or CONFIG_PATH) and
// then environment overrides, and validates the result. Keys that are set
// keep their value even when it is zero.
func Load() (Config, error) {
	cfg := Defaults()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.DBDriver, "DB_DRIVER")
	envOverride(&cfg.DatabaseURL, "SUPABASE_DB_URL")
	envOverride(&cfg.DatabaseURL, "DATABASE_URL")
	envOverride(&cfg.SQLitePath, "SQLITE_PATH")
	envOverride(&cfg.RedisURL, "REDIS_URL")
	envOverride(&cfg.CacheWarmSchedule, "CACHE_WARM_SCHEDULE")
	envOverride(&cfg.LogLevel, "LOG_LEVEL")

	overrides := []error{
		envOverrideInt(&cfg.CacheTTLSeconds, "CACHE_TTL_SECONDS"),
		envOverrideFloat(&cfg.MinVisiblePercent, "MIN_VISIBLE_PERCENT"),
		envOverrideInt(&cfg.TimelineMaxDepth, "TIMELINE_MAX_DEPTH"),
		envOverrideInt(&cfg.GlobalWindowHours, "GLOBAL_WINDOW_HOURS"),
		envOverrideInt(&cfg.GlobalLimit, "GLOBAL_LIMIT"),
		envOverrideFloat(&cfg.RateLimitRPS, "RATE_LIMIT_RPS"),
		envOverrideInt(&cfg.RateLimitBurst, "RATE_LIMIT_BURST"),
	}
	for _, err := range overrides {
		if err != nil {
			return Config{}, err
		}
	}

	def := Defaults()
	for _, f := range []struct{ field, fallback *string }{
		{&cfg.ListenAddr, &def.ListenAddr},
		{&cfg.SQLitePath, &def.SQLitePath},
		{&cfg.LogLevel, &def.LogLevel},
	} {
		if *f.field == "" {
			*f.field = *f.fallback
		}
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults is the configuration used for every key left unset.
func Defaults() Config {
	return Config{
		ListenAddr:        ":8090",
		SQLitePath:        "./spectrum.db",
		CacheTTLSeconds:   600,
		MinVisiblePercent: 3,
		TimelineMaxDepth:  30,
		GlobalWindowHours: 24,
		GlobalLimit:       50,
		RateLimitRPS:      20,
		RateLimitBurst:    40,
		LogLevel:          "info",
	}
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "", DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required when db_driver=%s", DriverPostgres)
		}
	default:
		return fmt.Errorf("db_driver must be '%s', '%s' or empty, got '%s'", DriverPostgres, DriverSQLite, c.DBDriver)
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("invalid cache_ttl_seconds '%d': must be >= 0", c.CacheTTLSeconds)
	}
	if c.MinVisiblePercent < 0 || c.MinVisiblePercent > 50 {
		return fmt.Errorf("invalid min_visible_percent '%g': must be between 0 and 50", c.MinVisiblePercent)
	}
	if c.TimelineMaxDepth < 1 {
		return fmt.Errorf("invalid timeline_max_depth '%d': must be >= 1", c.TimelineMaxDepth)
	}
	if c.GlobalWindowHours < 1 {
		return fmt.Errorf("invalid global_window_hours '%d': must be >= 1", c.GlobalWindowHours)
	}
	if c.GlobalLimit < 1 {
		return fmt.Errorf("invalid global_limit '%d': must be >= 1", c.GlobalLimit)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate_limit_rps and rate_limit_burst must be >= 0")
	}
	return nil
}

// HasDatabase reports whether a database driver is configured.
func (c Config) HasDatabase() bool { return c.DBDriver != "" }

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c Config) GlobalWindow() time.Duration {
	return time.Duration(c.GlobalWindowHours) * time.Hour
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}

func envOverrideFloat(field *float64, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
