package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds runtime configuration values for the companion service.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	APIKey      string
	CORSOrigins string
	Location    *time.Location
	Storage     string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string
	RedisPrefix string

	DedupWindow      time.Duration
	StatsGuardWindow time.Duration
	DOMThrottle      time.Duration
	DOMSettle        time.Duration
	RecentLimit      int
	CodeTTL          time.Duration
	JanitorInterval  time.Duration
	CaptureRateLimit int

	JudgeGraphQLURL string
	JudgeTimeout    time.Duration
	GitHubAPIURL    string

	NATSURL     string
	NATSSubject string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.Contains(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf("127.0.0.1:%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SOLVESYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SolveSync")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "4917")
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("app.cors_origins", "*")
	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("sqlite.path", "solvesync.db")
	v.SetDefault("redis.prefix", "solvesync")
	v.SetDefault("capture.dedup_window", "5m")
	v.SetDefault("capture.stats_guard_window", "30s")
	v.SetDefault("capture.dom_throttle", "1500ms")
	v.SetDefault("capture.dom_settle", "1s")
	v.SetDefault("capture.recent_limit", 10)
	v.SetDefault("capture.code_ttl", "24h")
	v.SetDefault("capture.janitor_interval", "1m")
	v.SetDefault("capture.rate_limit", 120)
	v.SetDefault("judge.graphql_url", "https://leetcode.com/graphql/")
	v.SetDefault("judge.timeout", "5s")
	v.SetDefault("nats.subject", "solvesync.solutions")

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		APIKey:           v.GetString("app.api_key"),
		CORSOrigins:      v.GetString("app.cors_origins"),
		Storage:          strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		DatabaseURL:      v.GetString("database.url"),
		SQLitePath:       v.GetString("sqlite.path"),
		RedisURL:         v.GetString("redis.url"),
		RedisPrefix:      v.GetString("redis.prefix"),
		RecentLimit:      v.GetInt("capture.recent_limit"),
		CaptureRateLimit: v.GetInt("capture.rate_limit"),
		JudgeGraphQLURL:  v.GetString("judge.graphql_url"),
		GitHubAPIURL:     v.GetString("github.api_url"),
		NATSURL:          v.GetString("nats.url"),
		NATSSubject:      v.GetString("nats.subject"),
	}

	durations := map[string]*time.Duration{
		"capture.dedup_window":       &cfg.DedupWindow,
		"capture.stats_guard_window": &cfg.StatsGuardWindow,
		"capture.dom_throttle":       &cfg.DOMThrottle,
		"capture.dom_settle":         &cfg.DOMSettle,
		"capture.code_ttl":           &cfg.CodeTTL,
		"capture.janitor_interval":   &cfg.JanitorInterval,
		"judge.timeout":              &cfg.JudgeTimeout,
	}

	for key, target := range durations {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", key)
		}
		*target = parsed
	}

	location, err := time.LoadLocation(v.GetString("app.timezone"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid app timezone: %w", err)
	}
	cfg.Location = location

	switch cfg.Storage {
	case StorageSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return Config{}, fmt.Errorf("sqlite path must be provided")
		}
	case StoragePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return Config{}, fmt.Errorf("database url must be provided for postgres storage")
		}
	case StorageRedis:
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return Config{}, fmt.Errorf("redis url must be provided for redis storage")
		}
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage)
	}

	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 10
	}

	if cfg.CaptureRateLimit <= 0 {
		cfg.CaptureRateLimit = 120
	}

	return cfg, nil
}
