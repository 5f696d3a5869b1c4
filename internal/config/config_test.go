package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// isolate points both config locations at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Chdir(tmpDir)
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		require.Equal(t, "/custom/config/screencal/screencal.yml", GlobalPath())
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		got := GlobalPath()
		require.True(t, filepath.IsAbs(got), "GlobalPath() should be absolute, got %s", got)
		require.Equal(t, "screencal.yml", filepath.Base(got))
	})
}

func TestProjectPath(t *testing.T) {
	require.Equal(t, "screencal.yml", ProjectPath())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
	require.False(t, Exists())
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Defaults()
	global.ScreenWidthPx = 2560
	global.ScreenHeightPx = 1440
	global.DistanceCm = 60
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("distance_cm: 57\nswatch_count: 8\n"), 0644))

	t.Setenv("SCREENCAL_SWATCH_COUNT", "16")
	t.Setenv("SCREENCAL_SHOW_ON_LOAD", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, Exists())

	require.Equal(t, 2560, cfg.ScreenWidthPx, "global config value")
	require.Equal(t, 1440, cfg.ScreenHeightPx, "global config value")
	require.Equal(t, 57.0, cfg.DistanceCm, "project config overrides global")
	require.Equal(t, 16, cfg.SwatchCount, "env overrides project config")
	require.False(t, cfg.ShowOnLoad, "env bool parsed")
	require.Equal(t, 8, cfg.CellWidthPx, "untouched default")
}

func TestLoad_InvalidValues(t *testing.T) {
	isolate(t)

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("screen_width_px: 0\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid screen resolution")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"negative distance", func(c *Config) { c.DistanceCm = -1 }, false},
		{"zero cell width", func(c *Config) { c.CellWidthPx = 0 }, false},
		{"single swatch", func(c *Config) { c.SwatchCount = 1 }, false},
		{"two swatches", func(c *Config) { c.SwatchCount = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestWriteProject_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := Defaults()
	cfg.TemplatesDir = "views"
	cfg.Publish = true
	require.NoError(t, WriteProject(cfg))

	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, "views", loaded.TemplatesDir)
	require.True(t, loaded.Publish)
}
