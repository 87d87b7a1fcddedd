package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log             LogConfig         `yaml:"log"`
	Server          ServerConfig      `yaml:"server"`
	Items           ItemsConfig       `yaml:"items"`
	Inventory       InventoryConfig   `yaml:"inventory"`
	Notices         NoticesConfig     `yaml:"notices"`
	Reconciler      ReconcilerConfig  `yaml:"reconciler"`
	EventBus        EventBusConfig    `yaml:"eventbus"`
	Ledger          LedgerConfig      `yaml:"ledger"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	Dragonfly       DragonflyConfig   `yaml:"dragonfly"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"use_json"`
}

// GetLevel returns the lower-cased log level
func (c *LogConfig) GetLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Level))
}

// ServerConfig contains game server settings
type ServerConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// ItemsConfig selects which items count as light sources
type ItemsConfig struct {
	Patterns []string `yaml:"patterns"` // Case-insensitive substrings of item ids (default: ["torch"])
	Script   string   `yaml:"script"`   // Optional Lua file defining is_qualifying(item_id)
}

// InventoryConfig contains inventory change handling settings
type InventoryConfig struct {
	QuietPeriod *Duration `yaml:"quiet_period"` // Resync after inventory has been quiet this long; 0 resyncs on every change
}

// DefaultQuietPeriod applies when quiet_period is not set.
const DefaultQuietPeriod = 50 * time.Millisecond

// GetQuietPeriod returns the inventory quiet period. An explicit 0 (or a negative value)
// disables debouncing; unset means DefaultQuietPeriod.
func (c *InventoryConfig) GetQuietPeriod() time.Duration {
	if c.QuietPeriod == nil {
		return DefaultQuietPeriod
	}
	return max(0, c.QuietPeriod.Duration())
}

// NoticesConfig contains per-player notice throttling
type NoticesConfig struct {
	RatePerSec float64 `yaml:"rate_per_sec"` // 0 disables throttling
	Burst      int     `yaml:"burst"`
}

// ReconcilerConfig contains periodic resync settings
type ReconcilerConfig struct {
	PeriodicInterval Duration `yaml:"periodic_interval"`
	RateLimitRPS     float64  `yaml:"rate_limit_rps"`
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	Workers   int `yaml:"workers"`    // Number of worker goroutines (default: 4)
	QueueSize int `yaml:"queue_size"` // Event queue size (default: 100)
}

// GetWorkers returns worker count with default
func (c *EventBusConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

// GetQueueSize returns queue size with default
func (c *EventBusConfig) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 100
	}
	return c.QueueSize
}

// LedgerConfig contains boost ledger settings
type LedgerConfig struct {
	Enabled         *bool    `yaml:"enabled"` // nil = enabled
	Path            string   `yaml:"path"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	RetentionDays   int      `yaml:"retention_days"`
}

// IsEnabled returns whether the ledger is enabled (default: true)
func (c *LedgerConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// DragonflyConfig contains settings specific to the Dragonfly host
type DragonflyConfig struct {
	NightVision bool `yaml:"night_vision"` // Render an active boost as night vision
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses configuration bytes and applies defaults
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Server defaults
	if cfg.Server.Name == "" {
		cfg.Server.Name = "torchlight"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":19132"
	}

	// Item defaults
	if len(cfg.Items.Patterns) == 0 {
		cfg.Items.Patterns = []string{"torch"}
	}

	// Notice defaults
	if cfg.Notices.RatePerSec == 0 {
		cfg.Notices.RatePerSec = 2.0
	}
	if cfg.Notices.Burst == 0 {
		cfg.Notices.Burst = 4
	}

	// Reconciler defaults
	if cfg.Reconciler.PeriodicInterval == 0 {
		cfg.Reconciler.PeriodicInterval = Duration(30 * time.Second)
	}
	if cfg.Reconciler.RateLimitRPS == 0 {
		cfg.Reconciler.RateLimitRPS = 20.0
	}

	// Ledger defaults
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = "./torchlight.sqlite"
	}
	if cfg.Ledger.CleanupInterval == 0 {
		cfg.Ledger.CleanupInterval = Duration(24 * time.Hour)
	}
	if cfg.Ledger.RetentionDays == 0 {
		cfg.Ledger.RetentionDays = 30
	}

	// Healthcheck defaults
	if cfg.Healthcheck.Port == 0 {
		cfg.Healthcheck.Port = 9090
	}
	if cfg.Healthcheck.Host == "" {
		cfg.Healthcheck.Host = "0.0.0.0"
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
