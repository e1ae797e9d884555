package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/DevBigEazi/circlepot-indexer/internal/common"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Config represents the complete configuration for the Circlepot indexer.
type Config struct {
	// Feed contains the upstream log feed configuration
	Feed FeedConfig `yaml:"feed" json:"feed" toml:"feed"`

	// Contracts contains the Circlepot contract addresses to index
	Contracts ContractsConfig `yaml:"contracts" json:"contracts" toml:"contracts"`

	// DB contains the database configuration
	DB DatabaseConfig `yaml:"db" json:"db" toml:"db"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`
}

// Finality modes for the log feed.
const (
	FinalityFinalized = "finalized"
	FinalitySafe      = "safe"
	FinalityLatest    = "latest"
)

// FeedConfig represents the configuration for the upstream log feed.
type FeedConfig struct {
	// RPCURL is the Ethereum RPC endpoint URL
	RPCURL string `yaml:"rpc_url" json:"rpc_url" toml:"rpc_url"`

	// StartBlock is the block from which indexing starts on a fresh database
	StartBlock uint64 `yaml:"start_block" json:"start_block" toml:"start_block"`

	// ChunkSize is the block range per eth_getLogs call
	ChunkSize uint64 `yaml:"chunk_size" json:"chunk_size" toml:"chunk_size"`

	// Finality specifies the finality mode: "finalized", "safe", or "latest"
	Finality string `yaml:"finality" json:"finality" toml:"finality"`

	// FinalizedLag is the number of blocks behind head to consider finalized.
	// Only used when Finality is set to "latest".
	FinalizedLag uint64 `yaml:"finalized_lag" json:"finalized_lag" toml:"finalized_lag"`

	// PollInterval is how long to wait once the feed has caught up to the chain tip
	PollInterval common.Duration `yaml:"poll_interval" json:"poll_interval" toml:"poll_interval"`

	// Retry contains RPC retry configuration with exponential backoff
	Retry *RetryConfig `yaml:"retry,omitempty" json:"retry,omitempty" toml:"retry,omitempty"`
}

// ApplyDefaults sets default values for optional feed configuration fields.
func (f *FeedConfig) ApplyDefaults() {
	if f.ChunkSize == 0 {
		f.ChunkSize = 5000
	}
	if f.Finality == "" {
		f.Finality = FinalityFinalized
	}
	if f.PollInterval.Duration == 0 {
		f.PollInterval = common.NewDuration(12 * time.Second) //nolint:mnd
	}
	if f.Retry != nil {
		f.Retry.ApplyDefaults()
	}
}

// Validate checks the feed configuration.
func (f *FeedConfig) Validate() error {
	if f.RPCURL == "" {
		return fmt.Errorf("feed.rpc_url is required")
	}

	validFinality := []string{FinalityFinalized, FinalitySafe, FinalityLatest}
	if !slices.Contains(validFinality, f.Finality) {
		return fmt.Errorf("feed.finality: must be one of: finalized, safe, latest")
	}

	return nil
}

// ContractsConfig holds the addresses of the Circlepot protocol contracts.
type ContractsConfig struct {
	// CircleSavings is the rotating savings circle contract address
	CircleSavings string `yaml:"circle_savings" json:"circle_savings" toml:"circle_savings"`

	// PersonalSavings is the personal savings goal contract address
	PersonalSavings string `yaml:"personal_savings" json:"personal_savings" toml:"personal_savings"`

	// Reputation is the reputation score contract address
	Reputation string `yaml:"reputation" json:"reputation" toml:"reputation"`

	// UserProfile is the user profile and referral contract address
	UserProfile string `yaml:"user_profile" json:"user_profile" toml:"user_profile"`
}

// Validate checks that every configured contract address is a valid hex address.
func (c *ContractsConfig) Validate() error {
	for name, addr := range map[string]string{
		"circle_savings":   c.CircleSavings,
		"personal_savings": c.PersonalSavings,
		"reputation":       c.Reputation,
		"user_profile":     c.UserProfile,
	} {
		if addr == "" {
			return fmt.Errorf("contracts.%s is required", name)
		}
		if !ethcommon.IsHexAddress(addr) {
			return fmt.Errorf("contracts.%s: %q is not a valid address", name, addr)
		}
	}
	return nil
}

// Addresses returns the configured contract addresses in parsed form.
func (c *ContractsConfig) Addresses() []ethcommon.Address {
	return []ethcommon.Address{
		ethcommon.HexToAddress(c.CircleSavings),
		ethcommon.HexToAddress(c.PersonalSavings),
		ethcommon.HexToAddress(c.Reputation),
		ethcommon.HexToAddress(c.UserProfile),
	}
}

// RetryConfig represents RPC retry configuration with exponential backoff.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial request)
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts" toml:"max_attempts"`

	// InitialBackoff is the initial backoff duration before first retry
	InitialBackoff common.Duration `yaml:"initial_backoff" json:"initial_backoff" toml:"initial_backoff"`

	// MaxBackoff is the maximum backoff duration
	MaxBackoff common.Duration `yaml:"max_backoff" json:"max_backoff" toml:"max_backoff"`

	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64 `yaml:"backoff_multiplier" json:"backoff_multiplier" toml:"backoff_multiplier"`
}

// ApplyDefaults sets default values for retry configuration.
func (r *RetryConfig) ApplyDefaults() {
	if r.MaxAttempts == 0 {
		r.MaxAttempts = 5
	}
	if r.InitialBackoff.Duration == 0 {
		r.InitialBackoff = common.NewDuration(1 * time.Second)
	}
	if r.MaxBackoff.Duration == 0 {
		r.MaxBackoff = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if r.BackoffMultiplier == 0 {
		r.BackoffMultiplier = 2.0
	}
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Path is the file path to the SQLite database
	Path string `yaml:"path" json:"path" toml:"path"`

	// JournalMode sets the SQLite journal mode (e.g., "WAL", "DELETE")
	// WAL mode is recommended for better concurrency
	JournalMode string `yaml:"journal_mode" json:"journal_mode" toml:"journal_mode"`

	// Synchronous sets the synchronization level ("FULL", "NORMAL", "OFF")
	Synchronous string `yaml:"synchronous" json:"synchronous" toml:"synchronous"`

	// BusyTimeout is the time in milliseconds to wait when the database is locked
	BusyTimeout int `yaml:"busy_timeout" json:"busy_timeout" toml:"busy_timeout"`

	// CacheSize is the size of the page cache (negative = KB, positive = pages)
	CacheSize int `yaml:"cache_size" json:"cache_size" toml:"cache_size"`

	// MaxOpenConnections is the maximum number of open database connections
	MaxOpenConnections int `yaml:"max_open_connections" json:"max_open_connections" toml:"max_open_connections"`

	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections int `yaml:"max_idle_connections" json:"max_idle_connections" toml:"max_idle_connections"`

	// EnableForeignKeys enables foreign key constraint enforcement
	EnableForeignKeys bool `yaml:"enable_foreign_keys" json:"enable_foreign_keys" toml:"enable_foreign_keys"`
}

// ApplyDefaults sets default values for optional database configuration fields.
func (d *DatabaseConfig) ApplyDefaults() {
	if d.JournalMode == "" {
		d.JournalMode = "WAL"
	}
	if d.Synchronous == "" {
		d.Synchronous = "NORMAL"
	}
	if d.BusyTimeout == 0 {
		d.BusyTimeout = 5000
	}
	if d.CacheSize == 0 {
		d.CacheSize = 10000
	}
	if d.MaxOpenConnections == 0 {
		d.MaxOpenConnections = 25
	}
	if d.MaxIdleConnections == 0 {
		d.MaxIdleConnections = 5
	}
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (stack traces, console encoder)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"`
}

// ApplyDefaults sets default values for logging configuration.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
}

// Validate checks logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, l.DefaultLevel) {
		return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
	}

	for component, level := range l.ComponentLevels {
		if _, ok := common.AllComponents[component]; !ok {
			return fmt.Errorf("logging.component_levels: unknown component %q", component)
		}
		if !slices.Contains(validLevels, level) {
			return fmt.Errorf("logging.component_levels.%s: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// BuildLogger creates the root logger from this logging configuration.
func (l *LoggingConfig) BuildLogger() (*logger.Logger, error) {
	return logger.NewLogger(l.DefaultLevel, l.Development)
}

// MetricsConfig configures the Prometheus metrics HTTP server.
type MetricsConfig struct {
	// Enabled controls whether the metrics server runs
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address the metrics server binds to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for metrics configuration.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// ApplyDefaults sets default values on the whole configuration tree.
func (c *Config) ApplyDefaults() {
	c.Feed.ApplyDefaults()
	c.DB.ApplyDefaults()

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	c.Metrics.ApplyDefaults()
}

// Validate checks the whole configuration tree.
func (c *Config) Validate() error {
	if err := c.Feed.Validate(); err != nil {
		return err
	}
	if err := c.Contracts.Validate(); err != nil {
		return err
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}
	return nil
}
