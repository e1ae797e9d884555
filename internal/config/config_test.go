package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const validYAML = `
feed:
  rpc_url: "https://rpc.example.org"
  start_block: 1000
  chunk_size: 200
  finality: latest
  finalized_lag: 12
  poll_interval: 5s
  retry:
    max_attempts: 3
contracts:
  circle_savings: "0x1000000000000000000000000000000000000001"
  personal_savings: "0x1000000000000000000000000000000000000002"
  reputation: "0x1000000000000000000000000000000000000003"
  user_profile: "0x1000000000000000000000000000000000000004"
db:
  path: "/tmp/circlepot.db"
logging:
  default_level: debug
  component_levels:
    feed: warn
metrics:
  enabled: true
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromYAML(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	require.Equal(t, "https://rpc.example.org", cfg.Feed.RPCURL)
	require.Equal(t, uint64(1000), cfg.Feed.StartBlock)
	require.Equal(t, uint64(200), cfg.Feed.ChunkSize)
	require.Equal(t, FinalityLatest, cfg.Feed.Finality)
	require.Equal(t, uint64(12), cfg.Feed.FinalizedLag)
	require.Equal(t, 5*time.Second, cfg.Feed.PollInterval.Duration)

	require.Equal(t, 3, cfg.Feed.Retry.MaxAttempts)
	// Unset retry fields get their defaults.
	require.Equal(t, 1*time.Second, cfg.Feed.Retry.InitialBackoff.Duration)
	require.Equal(t, 2.0, cfg.Feed.Retry.BackoffMultiplier)

	require.Equal(t, "warn", cfg.Logging.ComponentLevels["feed"])
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, ":9090", cfg.Metrics.ListenAddress)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadFromJSON(t *testing.T) {
	content := `{
		"feed": {"rpc_url": "https://rpc.example.org", "start_block": 5},
		"contracts": {
			"circle_savings": "0x1000000000000000000000000000000000000001",
			"personal_savings": "0x1000000000000000000000000000000000000002",
			"reputation": "0x1000000000000000000000000000000000000003",
			"user_profile": "0x1000000000000000000000000000000000000004"
		},
		"db": {"path": "/tmp/circlepot.db"}
	}`

	cfg, err := LoadFromFile(writeConfig(t, "config.json", content))
	require.NoError(t, err)
	require.Equal(t, uint64(5), cfg.Feed.StartBlock)
	require.Equal(t, FinalityFinalized, cfg.Feed.Finality)
}

func TestLoadFromTOML(t *testing.T) {
	content := `
[feed]
rpc_url = "https://rpc.example.org"

[contracts]
circle_savings = "0x1000000000000000000000000000000000000001"
personal_savings = "0x1000000000000000000000000000000000000002"
reputation = "0x1000000000000000000000000000000000000003"
user_profile = "0x1000000000000000000000000000000000000004"

[db]
path = "/tmp/circlepot.db"
journal_mode = "DELETE"
`

	cfg, err := LoadFromFile(writeConfig(t, "config.toml", content))
	require.NoError(t, err)
	require.Equal(t, "DELETE", cfg.DB.JournalMode)
	require.Equal(t, 5000, cfg.DB.BusyTimeout)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := LoadFromFile(writeConfig(t, "config.ini", "feed:"))
	require.ErrorContains(t, err, "unsupported config file format")
}

func TestFeedDefaults(t *testing.T) {
	f := FeedConfig{}
	f.ApplyDefaults()

	require.Equal(t, uint64(5000), f.ChunkSize)
	require.Equal(t, FinalityFinalized, f.Finality)
	require.Equal(t, 12*time.Second, f.PollInterval.Duration)
}

func TestValidateRejectsBadFinality(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "config.yaml", validYAML))
	require.NoError(t, err)

	cfg.Feed.Finality = "instant"
	require.ErrorContains(t, cfg.Validate(), "feed.finality")
}

func TestValidateRequiresRPCURL(t *testing.T) {
	f := FeedConfig{Finality: FinalityFinalized}
	require.ErrorContains(t, f.Validate(), "feed.rpc_url is required")
}

func TestContractsValidation(t *testing.T) {
	c := ContractsConfig{
		CircleSavings:   "0x1000000000000000000000000000000000000001",
		PersonalSavings: "0x1000000000000000000000000000000000000002",
		Reputation:      "0x1000000000000000000000000000000000000003",
		UserProfile:     "0x1000000000000000000000000000000000000004",
	}
	require.NoError(t, c.Validate())

	c.Reputation = ""
	require.ErrorContains(t, c.Validate(), "contracts.reputation is required")

	c.Reputation = "not-an-address"
	require.ErrorContains(t, c.Validate(), "contracts.reputation")
}

func TestLoggingValidation(t *testing.T) {
	l := LoggingConfig{DefaultLevel: "info"}
	require.NoError(t, l.Validate())

	l.ComponentLevels = map[string]string{"nonexistent": "debug"}
	require.ErrorContains(t, l.Validate(), "unknown component")

	l.ComponentLevels = map[string]string{"feed": "loud"}
	require.ErrorContains(t, l.Validate(), "component_levels.feed")

	l.DefaultLevel = "verbose"
	l.ComponentLevels = nil
	require.ErrorContains(t, l.Validate(), "logging.default_level")
}
