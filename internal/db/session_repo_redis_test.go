package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Check that RedisAdapter implements SessionRepository.
// This test would fail to compile otherwise.
func TestRedisAdapterIsSessionRepository(t *testing.T) {
	rdb := RedisAdapter{}
	_ = models.SessionRepository(rdb)
}

func testSession() models.Session {
	return models.Session{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "bearer",
		ExpiresAt:    time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSetGetSession(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewMockRedisAdapter()
	require.NoError(t, err)
	session := testSession()

	err = adapter.SetSession(ctx, "operator", session)
	require.NoError(t, err)
	stored, err := adapter.GetSession(ctx, "operator")
	require.NoError(t, err)

	assert.Truef(t, cmp.Equal(session, stored), "diff: %s", cmp.Diff(session, stored))
}

func TestGetMissingSession(t *testing.T) {
	adapter, err := NewMockRedisAdapter()
	require.NoError(t, err)

	_, err = adapter.GetSession(context.Background(), "missing")

	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
}

func TestRemoveSession(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewMockRedisAdapter()
	require.NoError(t, err)
	require.NoError(t, adapter.SetSession(ctx, "operator", testSession()))

	require.NoError(t, adapter.RemoveSession(ctx, "operator"))

	_, err = adapter.GetSession(ctx, "operator")
	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
}

func TestSetSessionClearsRefreshToken(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewMockRedisAdapter()
	require.NoError(t, err)
	require.NoError(t, adapter.SetSession(ctx, "operator", testSession()))

	require.NoError(t, adapter.SetSession(ctx, "operator", models.Session{AccessToken: "only-access"}))

	stored, err := adapter.GetSession(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, "only-access", stored.AccessToken)
	assert.Empty(t, stored.RefreshToken)
}

func TestEncryptedSession(t *testing.T) {
	ctx := context.Background()
	client := NewMockRedisClient()
	adapter, err := NewRedisAdapter(WithRedisClient(client), WithEncryption("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	session := testSession()

	require.NoError(t, adapter.SetSession(ctx, "operator", session))

	raw, err := client.HGetAll(ctx, "session:operator").Result()
	require.NoError(t, err)
	assert.NotEqual(t, session.AccessToken, raw["AccessToken"])
	assert.NotEqual(t, session.RefreshToken, raw["RefreshToken"])
	stored, err := adapter.GetSession(ctx, "operator")
	require.NoError(t, err)
	assert.Truef(t, cmp.Equal(session, stored), "diff: %s", cmp.Diff(session, stored))
}

func TestSessionTTL(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewMockRedisAdapter(WithSessionTTL(time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, adapter.SetSession(ctx, "operator", testSession()))

	time.Sleep(5 * time.Millisecond)

	_, err = adapter.GetSession(ctx, "operator")
	assert.ErrorIs(t, err, apierrors.ErrSessionNotFound)
}

func TestNewRedisAdapterFromConfig(t *testing.T) {
	adapter, err := NewRedisAdapter(
		WithRedisConfig(config.RedisConfig{Type: config.DBTypeRedisMock}),
		WithSessionConfig(config.SessionConfig{
			TokenEncryption: config.TokenEncryptionConfig{Enabled: true, SecretKey: "0123456789abcdef0123456789abcdef"},
		}),
	)
	require.NoError(t, err)
	assert.NotNil(t, adapter.encryptor)
	assert.NoError(t, adapter.Ping(context.Background()))

	_, err = NewRedisAdapter(WithRedisConfig(config.RedisConfig{Type: "memcached"}))
	assert.Error(t, err)
	_, err = NewRedisAdapter()
	assert.Error(t, err)
}
