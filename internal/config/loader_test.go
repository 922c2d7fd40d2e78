package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namegate/namegate/internal/config"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.TrustForwardedFor)
	assert.Equal(t, "namegate", cfg.Redis.KeyPrefix)
	assert.Equal(t, int64(10), cfg.Limits.BurstPerMinute)
	assert.Equal(t, int64(50), cfg.Limits.MonthlyQuota)
	assert.Equal(t, int64(10000), cfg.Limits.MonthlyCeiling)
	assert.Equal(t, 8*time.Second, cfg.Resolver.RDAPTimeout)
	assert.Equal(t, 2*time.Second, cfg.Resolver.RDAPRetryDelay)
	assert.Equal(t, 5*time.Second, cfg.Resolver.WhoisTimeout)
}

func TestLoad_FileValues(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `server:
  addr: ":9090"
  trust_forwarded_for: false
redis:
  addr: "localhost:6379"
  key_prefix: "staging"
limits:
  burst_per_minute: 3
  monthly_quota: 100
  monthly_ceiling: 5000
alert:
  webhook_url: "https://hooks.example/alert"
premium:
  base_url: "https://api.upstream.example"
  api_key: "secret"
resolver:
  rdap_timeout: 4s
  whois_timeout: 2s
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(yamlContent), 0o600))

	cfg, err := config.Load(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.False(t, cfg.Server.TrustForwardedFor)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "staging", cfg.Redis.KeyPrefix)
	assert.Equal(t, int64(3), cfg.Limits.BurstPerMinute)
	assert.Equal(t, int64(100), cfg.Limits.MonthlyQuota)
	assert.Equal(t, int64(5000), cfg.Limits.MonthlyCeiling)
	assert.Equal(t, "https://hooks.example/alert", cfg.Alert.WebhookURL)
	assert.Equal(t, "https://api.upstream.example", cfg.Premium.BaseURL)
	assert.Equal(t, "secret", cfg.Premium.APIKey)
	assert.Equal(t, 4*time.Second, cfg.Resolver.RDAPTimeout)
	assert.Equal(t, 2*time.Second, cfg.Resolver.WhoisTimeout)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("server:\n  addr: \":3000\"\n"), 0o600))

	cfg, err := config.Load(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, int64(50), cfg.Limits.MonthlyQuota, "unset keys fall back to defaults")
	assert.Equal(t, 8*time.Second, cfg.Resolver.RDAPTimeout)
}

func TestLoad_MalformedFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("server: [not: valid"), 0o600))

	_, err := config.Load(cfgFile, nil)
	assert.Error(t, err)
}

func TestGetDefaultConfigPath(t *testing.T) {
	dir := t.TempDir()
	path, err := config.GetDefaultConfigPath(func() (string, error) { return dir, nil })
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "namegate", "config.yaml"), path)
	info, statErr := os.Stat(filepath.Join(dir, "namegate"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestGetDefaultConfigPath_DirError(t *testing.T) {
	_, err := config.GetDefaultConfigPath(func() (string, error) { return "", os.ErrPermission })
	assert.Error(t, err)
}
