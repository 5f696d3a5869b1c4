package main

import (
	"testing"

	"github.com/mark3labs/screencal/internal/config"
	"github.com/mark3labs/screencal/internal/template"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestDeviceFlags_OnlyChangedFlagsApply(t *testing.T) {
	var f deviceFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--width", "2560"}))

	cfg := config.Defaults()
	f.apply(cmd, cfg)
	require.Equal(t, 2560, cfg.ScreenWidthPx)
	require.Equal(t, 1080, cfg.ScreenHeightPx, "unset flag keeps config value")
	require.Equal(t, 50.0, cfg.DistanceCm)
}

func TestCheckViewName(t *testing.T) {
	require.NoError(t, checkViewName("summary"))
	require.ErrorIs(t, checkViewName("nope"), template.ErrUnknownView)
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "derive", "surface", "templates", "listen", "mcp", "setup"} {
		require.True(t, names[want], "missing command %s", want)
	}
	require.Contains(t, rootCmd.Long, "pixels per degree")
}
