// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for screencal.
type Config struct {
	// Device geometry. The terminal cannot report the physical display
	// resolution, so it is configured.
	ScreenWidthPx  int     `mapstructure:"screen_width_px" yaml:"screen_width_px"`
	ScreenHeightPx int     `mapstructure:"screen_height_px" yaml:"screen_height_px"`
	DistanceCm     float64 `mapstructure:"distance_cm" yaml:"distance_cm"`

	// Terminal cell size in device pixels, used to map the drawing surface
	// onto character cells.
	CellWidthPx  int `mapstructure:"cell_width_px" yaml:"cell_width_px"`
	CellHeightPx int `mapstructure:"cell_height_px" yaml:"cell_height_px"`

	SwatchCount  int    `mapstructure:"swatch_count" yaml:"swatch_count"`
	ShowOnLoad   bool   `mapstructure:"show_on_load" yaml:"show_on_load"`
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`

	// Result publishing. An empty NATSURL with Publish set starts an
	// embedded server on NATSPort.
	Publish  bool   `mapstructure:"publish" yaml:"publish"`
	NATSURL  string `mapstructure:"nats_url" yaml:"nats_url"`
	NATSPort int    `mapstructure:"nats_port" yaml:"nats_port"`

	HooksFile string `mapstructure:"hooks_file" yaml:"hooks_file"`
}

// keys lists every config key; each is bound to SCREENCAL_<KEY>.
var keys = []string{
	"screen_width_px",
	"screen_height_px",
	"distance_cm",
	"cell_width_px",
	"cell_height_px",
	"swatch_count",
	"show_on_load",
	"templates_dir",
	"log_level",
	"log_file",
	"publish",
	"nats_url",
	"nats_port",
	"hooks_file",
}

// Defaults returns the configuration used when no file or env var overrides a key.
func Defaults() *Config {
	return &Config{
		ScreenWidthPx:  1920,
		ScreenHeightPx: 1080,
		DistanceCm:     50,
		CellWidthPx:    8,
		CellHeightPx:   16,
		SwatchCount:    12,
		ShowOnLoad:     true,
		LogLevel:       "info",
		NATSPort:       4222,
		HooksFile:      ".screencal.hooks.yml",
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("screencal")

	d := Defaults()
	v.SetDefault("screen_width_px", d.ScreenWidthPx)
	v.SetDefault("screen_height_px", d.ScreenHeightPx)
	v.SetDefault("distance_cm", d.DistanceCm)
	v.SetDefault("cell_width_px", d.CellWidthPx)
	v.SetDefault("cell_height_px", d.CellHeightPx)
	v.SetDefault("swatch_count", d.SwatchCount)
	v.SetDefault("show_on_load", d.ShowOnLoad)
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("publish", d.Publish)
	v.SetDefault("nats_url", d.NATSURL)
	v.SetDefault("nats_port", d.NATSPort)
	v.SetDefault("hooks_file", d.HooksFile)

	v.SetEnvPrefix("SCREENCAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit bindings so bool/int env values unmarshal correctly
	for _, key := range keys {
		if err := v.BindEnv(key, "SCREENCAL_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the wizard cannot work with.
func (c *Config) Validate() error {
	if c.ScreenWidthPx <= 0 || c.ScreenHeightPx <= 0 {
		return fmt.Errorf("invalid screen resolution %dx%d", c.ScreenWidthPx, c.ScreenHeightPx)
	}
	if c.DistanceCm <= 0 {
		return fmt.Errorf("distance_cm must be positive, got %g", c.DistanceCm)
	}
	if c.CellWidthPx <= 0 || c.CellHeightPx <= 0 {
		return fmt.Errorf("invalid cell size %dx%d", c.CellWidthPx, c.CellHeightPx)
	}
	if c.SwatchCount < 2 {
		return fmt.Errorf("swatch_count must be at least 2, got %d", c.SwatchCount)
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/screencal/screencal.yml or $XDG_CONFIG_HOME/screencal/screencal.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "screencal", "screencal.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "screencal", "screencal.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "screencal.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
