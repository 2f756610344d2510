// Package config loads the application configuration from environment
// variables. All variables share the BTCWATCH_ prefix, e.g.
// BTCWATCH_POLL_INTERVAL=15s or BTCWATCH_STORAGE=redis.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Storage backend identifiers accepted by Config.Storage.
const (
	StorageJSONFile = "jsonfile"
	StorageRedis    = "redis"
)

// envPrefix is the common prefix of all environment variables.
const envPrefix = "btcwatch"

// Config is the full runtime configuration of the service.
type Config struct {
	// LogLevel is the minimum level of the global logger
	// (debug, info, warn, error, panic, fatal).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// TelemetryEnabled turns on OTLP telemetry export. Exporter endpoints are
	// taken from the standard OTEL_EXPORTER_OTLP_* variables.
	TelemetryEnabled bool `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// Storage selects the wallet store backend: "jsonfile" or "redis".
	Storage string `envconfig:"STORAGE" default:"jsonfile"`

	// WalletsFile is the path of the flat-file wallet store
	// (jsonfile backend only).
	WalletsFile string `envconfig:"WALLETS_FILE" default:"wallet_settings.json"`

	// Redis connection parameters (redis backend only).
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisUsername string `envconfig:"REDIS_USERNAME" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// LedgerBaseURL is the root of the esplora-style ledger API.
	LedgerBaseURL string `envconfig:"LEDGER_BASE_URL" default:"https://mempool.space/api"`

	// PollInterval is the fixed delay between monitoring cycles.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`

	// HTTPTimeout bounds each individual ledger API request.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// Load reads the configuration from the environment, applying defaults for
// unset variables.
func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process(envPrefix, &cfg)
	return cfg, err
}
