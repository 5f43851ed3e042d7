package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 50014, cfg.Server.Port)
	require.Equal(t, "round_robin", cfg.Pool.Strategy)
	require.Equal(t, 3, cfg.Pool.MaxErrors)
	require.Equal(t, 50, cfg.Streaming.WordDelayMS)
}

func TestLoadMissingFileIsNotFatal(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.NotNil(t, cfg)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\npool:\n  strategy: random\n"), 0o644))

	t.Setenv("PORT", "9100")
	t.Setenv("POOL_STRATEGY", "least_recently_used")

	cfg, err := Load(path)
	require.NoError(t, err)
	// Env wins over file.
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "least_recently_used", cfg.Pool.Strategy)
}

func TestValidateRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "-1")
	_, err := Load("")
	require.Error(t, err)
}

func TestTimeoutHelpers(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, "0.0.0.0:50014", cfg.Addr())
	require.Positive(t, cfg.InitTimeout())
	require.Positive(t, cfg.GenerateTimeout())
	require.Positive(t, cfg.WordDelay())
}
