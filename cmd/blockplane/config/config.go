// Package config loads CLI configuration from flags, environment
// variables (BLOCKPLANE_*), an optional config file, and .env files.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything needed to construct a backend.
type Config struct {
	// Provider scope.
	Project   string `mapstructure:"project"`
	Zone      string `mapstructure:"zone"`
	ClusterID string `mapstructure:"cluster-id"`

	// Operation poll cadence.
	PollInterval time.Duration `mapstructure:"poll-interval"`
	PollAttempts int           `mapstructure:"poll-attempts"`

	// Logging and telemetry.
	LogLevel     string `mapstructure:"log-level"`
	OtelEnabled  bool   `mapstructure:"otel-enabled"`
	OtelEndpoint string `mapstructure:"otel-endpoint"`
	OtelInsecure bool   `mapstructure:"otel-insecure"`
}

// Load reads configuration from the environment, an optional config
// file, and defaults. Flag bindings are registered by the commands.
func Load() (*Config, error) {
	// .env is a convenience for local use; absence is fine.
	_ = godotenv.Load()

	viper.SetDefault("poll-interval", "1s")
	viper.SetDefault("poll-attempts", 120)
	viper.SetDefault("log-level", "info")
	viper.SetDefault("otel-enabled", false)
	viper.SetDefault("otel-endpoint", "localhost:4317")
	viper.SetDefault("otel-insecure", true)

	viper.SetEnvPrefix("BLOCKPLANE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// AutomaticEnv resolves only keys viper already knows about. The
	// scope keys have no default, so without an explicit binding they
	// would be invisible to Unmarshal unless a flag registered them.
	for _, key := range []string{"project", "zone", "cluster-id"} {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	viper.SetConfigName("blockplane")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.blockplane")
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the provider scope is usable.
func (c *Config) Validate() error {
	if c.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.Zone == "" {
		return fmt.Errorf("zone is required")
	}
	if _, err := uuid.Parse(c.ClusterID); err != nil {
		return fmt.Errorf("cluster-id must be a UUID: %w", err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll-interval must be positive")
	}
	if c.PollAttempts <= 0 {
		return fmt.Errorf("poll-attempts must be positive")
	}
	return nil
}
