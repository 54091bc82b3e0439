package config

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey string = "0123456789abcdef0123456789abcdef"

func TestRedactedStringFormats(t *testing.T) {
	key := RedactedString(testSecretKey)

	assert.Equal(t, "<redacted-32-chars>", key.String())
	text, err := key.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "<redacted-32-chars>", string(text))
	binary, err := key.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "<redacted-32-chars>", string(binary))
	// the key length is still checked on the real value
	assert.Len(t, key, 32)
}

func TestSecretsAreRedactedWhenLogged(t *testing.T) {
	cfg := Config{
		Session: SessionConfig{
			ID:              "operator",
			TokenEncryption: TokenEncryptionConfig{Enabled: true, SecretKey: RedactedString(testSecretKey)},
		},
		Redis:      RedisConfig{Password: RedactedString("redis-password")},
		Monitoring: MonitoringConfig{Sentry: SentryConfig{Dsn: RedactedString("https://key@sentry.example.com/1")}},
	}

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	var logged strings.Builder
	slog.New(slog.NewJSONHandler(&logged, nil)).Info("loaded config", "config", cfg)

	for _, output := range []string{string(raw), logged.String()} {
		assert.NotContains(t, output, testSecretKey)
		assert.NotContains(t, output, "redis-password")
		assert.NotContains(t, output, "key@sentry")
		assert.Contains(t, output, "redacted-32-chars")
	}
}
