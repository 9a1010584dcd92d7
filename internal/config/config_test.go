package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMARTKISSAN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "ipapi", cfg.Locate.Backend)
	require.Equal(t, 13, cfg.Map.ZoomLevel)
	require.False(t, cfg.Map.ShowSatellite)
	require.True(t, cfg.Map.ShowCurrentLocationButton)
	require.Equal(t, "en", cfg.UI.Locale)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[locate]
backend = "static"
static_lat = 21.15
static_lon = 79.09

[map]
zoom_level = 15
show_satellite = true

[ui]
locale = "hi"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("SMARTKISSAN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "static", cfg.Locate.Backend)
	require.InDelta(t, 21.15, cfg.Locate.StaticLat, 1e-9)
	require.Equal(t, 15, cfg.Map.ZoomLevel)
	require.True(t, cfg.Map.ShowSatellite)
	require.Equal(t, "hi", cfg.UI.Locale)
	// untouched keys keep defaults
	require.True(t, cfg.Map.ShowCurrentLocationButton)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SMARTKISSAN_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("SMARTKISSAN_LOCATE_BACKEND", "none")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "none", cfg.Locate.Backend)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("SMARTKISSAN_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.UI.Locale = "hi"
	cfg.Map.ZoomLevel = 14
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "hi", got.UI.Locale)
	require.Equal(t, 14, got.Map.ZoomLevel)
}
