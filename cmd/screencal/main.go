package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/screencal/internal/logger"
	"github.com/mark3labs/screencal/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▀ █▀▀ █▀█ █▀▀ █▀▀ █▄ █ █▀▀ ▄▀█ █  "
	logoText2 = "▄▄█ █▄▄ █▀▄ ██▄ ██▄ █ ▀█ █▄▄ █▀█ █▄▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "screencal",
	Short: "Measure a screen's physical size and contrast for perception experiments",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

screencal walks a participant through measuring the physical size of their
screen, either by typing the diagonal or by matching a credit card or compact
disk on screen, and through adjusting contrast on a gray ramp. It derives
pixels per inch and pixels per degree of visual angle for stimulus sizing.

Results are printed as JSON, optionally published over NATS and handed to
on_complete hooks.`

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(surfaceCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(setupCmd)
}
