package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

var ErrMissingConnectionString = errors.New("storage connection string not set")

type Config struct {
	Environment string `toml:"environment" env:"DIARY_ENV"`
	Host        string `toml:"host" env:"HOST"`
	Port        int    `toml:"port" env:"PORT" env-default:"5000"`

	// logging
	LogLevel      string `toml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogsPath      string `toml:"logs_path" env:"LOGS_PATH"`
	LogToStdout   bool   `toml:"log_to_stdout" env:"LOG_TO_STDOUT"`
	LogFormatJSON bool   `toml:"log_format_json" env:"LOG_FORMAT_JSON"`
	SentryEnabled bool   `toml:"sentry_enabled" env:"SENTRY_ENABLED"`
	SentryDSN     string `toml:"-" env:"SENTRY_DSN"`

	// storage
	Storage         string `toml:"storage" env:"DIARY_STORAGE" env-default:"mongo"`
	MongoURI        string `toml:"-" env:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" env:"MONGO_DATABASE" env-default:"diary"`
	MongoCollection string `toml:"mongo_collection" env:"MONGO_COLLECTION" env-default:"notes"`
	PostgresURL     string `toml:"-" env:"DATABASE_URL"`

	// cache
	Cache             string `toml:"cache" env:"DIARY_CACHE" env-default:"none"`
	CacheTTLSeconds   int    `toml:"cache_ttl_seconds" env:"CACHE_TTL_SECONDS" env-default:"300"`
	MemoryCacheSizeMB int    `toml:"memory_cache_size_mb" env:"MEMORY_CACHE_SIZE_MB" env-default:"16"`
	RedisHost         string `toml:"redis_host" env:"REDIS_HOST" env-default:"localhost"`
	RedisPort         string `toml:"redis_port" env:"REDIS_PORT" env-default:"6379"`
	RedisPassword     string `toml:"-" env:"REDIS_PASSWORD"`

	// mutating note routes, per minute, 0 disables the limiter
	MutationsRateLimitPerMin int `toml:"mutations_rate_limit_per_min" env:"MUTATIONS_RATE_LIMIT_PER_MIN"`

	AllowedOrigins []string `toml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:","`

	// telemetry
	PrometheusMetricsHost string `toml:"prometheus_metrics_host" env:"METRICS_HOST"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port" env:"METRICS_PORT" env-default:"2112"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled" env:"HONEYCOMB_ENABLED"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the env section of the TOML file and applies environment overrides on top.
// A missing file is not an error, the configuration then comes from the environment only.
func Load(env, path string) (*Config, error) {
	normalizedEnv, err := normalizeEnv(env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	} else if cfg, err = t.Get(env); err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env overrides: %w", err)
	}

	if cfg.Environment == "" {
		cfg.Environment = normalizedEnv
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: set MONGO_URI", ErrMissingConnectionString)
		}
	case StoragePostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("%w: set DATABASE_URL", ErrMissingConnectionString)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage)
	}

	switch c.Cache {
	case CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("unknown cache: %q", c.Cache)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MutationsRateLimitPerMin < 0 {
		return fmt.Errorf("invalid mutations rate limit: %d", c.MutationsRateLimitPerMin)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func normalizeEnv(env string) (string, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return "development", nil
	case "prod", "production":
		return "production", nil
	default:
		return "", fmt.Errorf("unknown env: %s", env)
	}
}
