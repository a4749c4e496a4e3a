package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644))
	t.Setenv("WARDEN_CONFIG_PATH", dir)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WARDEN_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8423", cfg.ListenAddress)
	assert.Equal(t, 1000, cfg.APIListLimitMax)
	assert.Equal(t, 480, cfg.TokenTTL)
	assert.True(t, cfg.AuditToDatabase)
	assert.Equal(t, "default", cfg.Source("listen_address"))
}

func TestLoadFromFile(t *testing.T) {
	writeConfigFile(t, "listen_address: \":9000\"\ntoken_ttl: 60\nlog_level: debug\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddress)
	assert.Equal(t, 60, cfg.TokenTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.Source("listen_address"))
	assert.Equal(t, "default", cfg.Source("api_list_limit_max"))
}

func TestEnvOverridesFile(t *testing.T) {
	writeConfigFile(t, "listen_address: \":9000\"\n")
	t.Setenv("WARDEN_LISTEN_ADDRESS", ":7000")
	t.Setenv("WARDEN_TOKEN_TTL", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.ListenAddress)
	assert.Equal(t, 120, cfg.TokenTTL)
	assert.Equal(t, "environment", cfg.Source("listen_address"))
	assert.Equal(t, "environment", cfg.Source("token_ttl"))
}

func TestLoadBadYAML(t *testing.T) {
	writeConfigFile(t, "listen_address: [unclosed\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewDefault()
	assert.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"10.0.0.0/8"}
	assert.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())

	cfg = NewDefault()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = NewDefault()
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := NewDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.5"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.5"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))

	cfg.TrustedProxies = nil
	assert.False(t, cfg.IsTrustedProxy("10.1.2.3"))
}

func TestFormatText(t *testing.T) {
	t.Setenv("WARDEN_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	text := cfg.FormatText()
	assert.Contains(t, text, "listen_address")
	assert.Contains(t, text, "default")
}
