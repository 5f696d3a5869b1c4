package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/screencal/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	device    deviceFlags
	project   bool
	force     bool
	templates string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create screencal configuration file",
	Long: `Create a screencal configuration file with sensible defaults.

By default, creates a global config at ~/.config/screencal/screencal.yml.
Use --project to create a project-local config in the current directory.

The terminal cannot report the physical display resolution, so set --width and
--height to the device pixels of the participant's screen.`,
	RunE: runSetup,
}

func init() {
	setupFlags.device.register(setupCmd)
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.templates, "templates", "", "Directory with view overrides")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Defaults()
	setupFlags.device.apply(cmd, cfg)
	cfg.TemplatesDir = setupFlags.templates
	if err := cfg.Validate(); err != nil {
		return err
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'screencal run' to get started.")
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
