package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "novarecord.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
app_name: rows
log:
  level: debug
redis:
  addr: 10.0.0.1:6380
  db: 2
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "rows", cfg.AppName)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel())
	require.Equal(t, "10.0.0.1:6380", cfg.Redis.Addr)
	require.Equal(t, 2, cfg.Redis.DB)
	require.Equal(t, "novarecord:", cfg.Redis.Prefix)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "novarecord", cfg.AppName)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel())
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("NOVARECORD_REDIS_ADDR", "redis:6379")
	cfg, err := Load(writeConfig(t, "app_name: x\n"))
	require.NoError(t, err)
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	cfg := &Config{}
	cfg.Log.Level = "loud"
	require.Equal(t, slog.LevelInfo, cfg.LogLevel())
}
