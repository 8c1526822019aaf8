package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply without a config file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "condo_db", cfg.Database.Name)
		assert.Equal(t, "America/Caracas", cfg.Timezone)
		assert.Equal(t, "test-secret", cfg.JWT.Secret)
	})

	t.Run("file values and env overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\ndatabase:\n  host: db.internal\n"), 0o600))
		t.Setenv("CONFIG_FILE", path)
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("DB_HOST", "override-host")
		t.Setenv("DB_PORT", "6543")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "override-host", cfg.Database.Host)
		assert.Equal(t, 6543, cfg.Database.Port)
		assert.Contains(t, cfg.DatabaseDSN(), "override-host:6543")
	})

	t.Run("secret and storage come from the environment alone", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("JWT_SECRET", "from-env")
		t.Setenv("STORAGE_ENDPOINT", "https://r2.example.com")
		t.Setenv("S3_ACCESS_KEY", "key-id")
		t.Setenv("S3_SECRET_KEY", "key-secret")
		t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://files.example.com")
		t.Setenv("STORAGE_MAX_UPLOAD_MB", "8")
		t.Setenv("REDIS_LOCK_TTL_SECONDS", "30")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.JWT.Secret)
		assert.Equal(t, "https://r2.example.com", cfg.Storage.Endpoint)
		assert.Equal(t, "key-id", cfg.Storage.AccessKey)
		assert.Equal(t, "key-secret", cfg.Storage.SecretKey)
		assert.Equal(t, "https://files.example.com", cfg.Storage.PublicURL)
		assert.Equal(t, 8, cfg.Storage.MaxUploadMB)
		assert.Equal(t, 30*time.Second, cfg.LockTTL())
	})

	t.Run("lock ttl and upload cap defaults", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Storage.MaxUploadMB)
		assert.Equal(t, 10*time.Second, cfg.LockTTL())
	})

	t.Run("missing secret is an error", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
		t.Setenv("JWT_SECRET", "")

		_, err := Load()

		assert.Error(t, err)
	})
}
