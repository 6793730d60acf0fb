package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/roster/internal/directory/store/drivers/sqlite"
	"github.com/aussiebroadwan/roster/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"ROSTER_STORE_DRIVER", "ROSTER_SQLITE_DSN", "ENV", "LOG_LEVEL",
		"LOG_FORMAT", "PORT", "SHUTDOWN_GRACE_PERIOD", "RATELIMIT_STRICT_REQUESTS",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, DriverMemory, cfg.StoreDriver)
	require.Equal(t, sqlite.DefaultDSN, cfg.SQLiteDSN)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, httpx.StrictLimit, cfg.RateLimits.Strict)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROSTER_STORE_DRIVER", "sqlite")
	t.Setenv("PORT", "9000")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "3")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")

	cfg := LoadConfig()
	require.Equal(t, DriverSQLite, cfg.StoreDriver)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 3*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 50, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("PORT=9191\nLOG_LEVEL=debug\n"), 0o600))

	// Register both for restoration, then leave PORT unset so the file fills it.
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("PORT"))
	t.Setenv("LOG_LEVEL", "warn")

	cfg := LoadConfig()
	require.Equal(t, 9191, cfg.Port)
	require.Equal(t, "warn", cfg.LogLevel)
}
