package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "naverboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NAVERBOARD_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
port: "9090"
cache:
  backend: redis
  ttl: 5m
redis:
  addr: localhost:6379
  db: 2
session:
  ttl: 30m
naver:
  client_id: file-id
  client_secret: file-secret
`)
	t.Setenv("NAVERBOARD_CONFIG", path)
	t.Setenv("PORT", "")
	t.Setenv("NAVER_CLIENT_ID", "")
	t.Setenv("NAVER_CLIENT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)

	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.Equal(t, "file-id", creds.ClientID)
	assert.Equal(t, "file-secret", creds.ClientSecret)
}

func TestCredentialsPrecedence(t *testing.T) {
	t.Run("file wins over environment", func(t *testing.T) {
		path := writeConfigFile(t, "naver:\n  client_id: file-id\n  client_secret: file-secret\n")
		t.Setenv("NAVERBOARD_CONFIG", path)
		t.Setenv("NAVER_CLIENT_ID", "env-id")
		t.Setenv("NAVER_CLIENT_SECRET", "env-secret")

		cfg, err := Load()
		require.NoError(t, err)

		creds, err := cfg.Credentials()
		require.NoError(t, err)
		assert.Equal(t, "file-id", creds.ClientID)
		assert.Equal(t, "file-secret", creds.ClientSecret)
	})

	t.Run("environment fills in when the file has none", func(t *testing.T) {
		t.Setenv("NAVERBOARD_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("NAVER_CLIENT_ID", "env-id")
		t.Setenv("NAVER_CLIENT_SECRET", "env-secret")

		cfg, err := Load()
		require.NoError(t, err)

		creds, err := cfg.Credentials()
		require.NoError(t, err)
		assert.Equal(t, "env-id", creds.ClientID)
	})

	t.Run("missing credentials are a configuration error", func(t *testing.T) {
		t.Setenv("NAVERBOARD_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		t.Setenv("NAVER_CLIENT_ID", "")
		t.Setenv("NAVER_CLIENT_SECRET", "")

		cfg, err := Load()
		require.NoError(t, err)

		_, err = cfg.Credentials()
		require.Error(t, err)

		var cfgErr *Error
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Msg, "NAVER_CLIENT_ID")
	})
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfigFile(t, "port: [unclosed\n")
	t.Setenv("NAVERBOARD_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestEnvOverridesSettings(t *testing.T) {
	t.Setenv("NAVERBOARD_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("PORT", "3000")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis-host:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, "redis-host:6379", cfg.RedisAddr)
}
