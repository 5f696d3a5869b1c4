package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/config"
	"github.com/mark3labs/screencal/internal/logger"
	"github.com/spf13/cobra"
)

// deviceFlags are shared by the commands that need the screen geometry.
type deviceFlags struct {
	width    int
	height   int
	distance float64
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "Screen width in device pixels (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Screen height in device pixels (default from config)")
	cmd.Flags().Float64Var(&f.distance, "distance", 0, "Viewing distance in cm (default from config)")
}

// apply overrides config values with flags the user set.
func (f *deviceFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("width") {
		cfg.ScreenWidthPx = f.width
	}
	if cmd.Flags().Changed("height") {
		cfg.ScreenHeightPx = f.height
	}
	if cmd.Flags().Changed("distance") {
		cfg.DistanceCm = f.distance
	}
}

// loadConfig loads the layered config, applies device flags and configures
// the logger. Flags win over every other source.
func loadConfig(cmd *cobra.Command, flags *deviceFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags != nil {
		flags.apply(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logger: %w", err)
	}
	return cfg, nil
}

func resolution(cfg *config.Config) calibration.Resolution {
	return calibration.Resolution{Width: cfg.ScreenWidthPx, Height: cfg.ScreenHeightPx}
}

// stdoutProfile detects how many colors stdout can show.
func stdoutProfile() colorprofile.Profile {
	return colorprofile.Detect(os.Stdout, os.Environ())
}
