package config

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMainFile(fpath string) error {
	contents := `---
runningEnvironment: development
api:
  baseURL: https://payments.example.com/api
  timeout: 5s
session:
  id: front-desk
payments:
  pollInterval: 3s
redis:
  type: redis-mock
`
	return os.WriteFile(fpath, []byte(contents), 0666)
}

func createSecretFile(fpath string) error {
	contents := `---
session:
  tokenEncryption:
    enabled: true
    secretKey: 0123456789abcdef0123456789abcdef
monitoring:
  sentry:
    dsn: dsn-from-secret-file
`
	return os.WriteFile(fpath, []byte(contents), 0666)
}

func TestReadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_LOCATION", t.TempDir())
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, Production, config.RunningEnvironment)
	assert.Equal(t, "http://localhost:3000", config.API.BaseURL.String())
	assert.Equal(t, 2*time.Second, config.Payments.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, config.Payments.DisplayDelay)
	assert.Equal(t, 1000.0, config.Payments.MinAmount)
	assert.Equal(t, 1000000.0, config.Payments.MaxAmount)
	assert.Equal(t, 8500.0, config.Payments.DefaultAmount)
	assert.Equal(t, []string{"localhost:6379"}, config.Redis.Addresses)
}

func TestReadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	require.NoError(t, createMainFile(path.Join(tmpDir, "config.yaml")))
	require.NoError(t, createSecretFile(path.Join(tmpDir, "secret_config.yaml")))
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, Development, config.RunningEnvironment)
	assert.Equal(t, "https://payments.example.com/api", config.API.BaseURL.String())
	assert.Equal(t, 5*time.Second, config.API.Timeout)
	assert.Equal(t, "front-desk", config.Session.ID)
	assert.Equal(t, 3*time.Second, config.Payments.PollInterval)
	assert.Equal(t, DBTypeRedisMock, config.Redis.Type)
	assert.True(t, config.Session.TokenEncryption.Enabled)
	assert.Equal(t, RedactedString("0123456789abcdef0123456789abcdef"), config.Session.TokenEncryption.SecretKey)
	assert.Equal(t, RedactedString("dsn-from-secret-file"), config.Monitoring.Sentry.Dsn)
}

func TestReadConfigWithEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("CONFIG_LOCATION", tmpDir)
	require.NoError(t, createMainFile(path.Join(tmpDir, "config.yaml")))
	require.NoError(t, createSecretFile(path.Join(tmpDir, "secret_config.yaml")))
	t.Setenv("PAYTRACKER_API_BASEURL", "http://api.internal:3000")
	t.Setenv("PAYTRACKER_PAYMENTS_POLLINTERVAL", "500ms")
	t.Setenv("PAYTRACKER_MONITORING_SENTRY_DSN", "dsn-from-env")
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:3000", config.API.BaseURL.String())
	assert.Equal(t, 500*time.Millisecond, config.Payments.PollInterval)
	assert.Equal(t, RedactedString("dsn-from-env"), config.Monitoring.Sentry.Dsn)
	assert.Equal(t, "front-desk", config.Session.ID)
}

func TestReadConfigWithEnvVarsNoFiles(t *testing.T) {
	t.Setenv("CONFIG_LOCATION", t.TempDir())
	t.Setenv("PAYTRACKER_RUNNINGENVIRONMENT", "development")
	t.Setenv("PAYTRACKER_REDIS_TYPE", "redis-mock")
	t.Setenv("PAYTRACKER_PAYMENTS_MINAMOUNT", "2000")
	ch := NewConfigHandler()

	config, err := ch.Config()

	require.NoError(t, err)
	assert.Equal(t, DBTypeRedisMock, config.Redis.Type)
	assert.Equal(t, 2000.0, config.Payments.MinAmount)
}

func TestReadInvalidConfig(t *testing.T) {
	t.Setenv("CONFIG_LOCATION", t.TempDir())
	t.Setenv("PAYTRACKER_API_BASEURL", "ftp://files.example.com")
	ch := NewConfigHandler()

	_, err := ch.Config()

	assert.ErrorContains(t, err, "http or https")
}
