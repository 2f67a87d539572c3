package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOLVESYNC_APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageSQLite, cfg.Storage)
	require.Equal(t, 5*time.Minute, cfg.DedupWindow)
	require.Equal(t, 30*time.Second, cfg.StatsGuardWindow)
	require.Equal(t, 1500*time.Millisecond, cfg.DOMThrottle)
	require.Equal(t, time.Second, cfg.DOMSettle)
	require.Equal(t, 10, cfg.RecentLimit)
	require.Equal(t, 24*time.Hour, cfg.CodeTTL)
	require.Equal(t, time.UTC, cfg.Location)
	require.Equal(t, "127.0.0.1:4917", cfg.HTTPAddress())
	require.Equal(t, "*", cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOLVESYNC_STORAGE_DRIVER", "redis")
	t.Setenv("SOLVESYNC_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SOLVESYNC_CAPTURE_DEDUP_WINDOW", "2m")
	t.Setenv("SOLVESYNC_APP_PORT", "0.0.0.0:9000")
	t.Setenv("SOLVESYNC_APP_CORS_ORIGINS", "https://leetcode.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StorageRedis, cfg.Storage)
	require.Equal(t, 2*time.Minute, cfg.DedupWindow)
	require.Equal(t, "0.0.0.0:9000", cfg.HTTPAddress())
	require.Equal(t, "https://leetcode.com", cfg.CORSOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SOLVESYNC_CAPTURE_DOM_SETTLE", "soon")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadRequiresBackendURL(t *testing.T) {
	t.Setenv("SOLVESYNC_STORAGE_DRIVER", "postgres")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("SOLVESYNC_STORAGE_DRIVER", "etcd")
	_, err = Load()
	require.Error(t, err)
}
