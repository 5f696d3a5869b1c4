package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"charm.land/glamour/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/config"
	"github.com/mark3labs/screencal/internal/template"
	"github.com/spf13/cobra"
)

var templatesFlags struct {
	dir   string
	force bool
	raw   bool
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage the wizard's view templates",
	Long: `Manage the markdown views shown by each wizard step.

Views are embedded in the binary. Writing them to a directory and pointing
templates_dir at it lets you reword any step; missing files fall back to the
embedded defaults. Available views:
  ` + strings.Join(template.EmbeddedNames(), "\n  "),
}

var templatesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Write the default views to the templates directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := templatesDir(cmd)
		if err != nil {
			return err
		}
		written, err := template.WriteDefaults(dir, templatesFlags.force)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Printf("All views already exist in %s (use --force to overwrite)\n", dir)
			return nil
		}
		for _, path := range written {
			fmt.Println("Wrote", path)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <view>",
	Short: "Render a view with placeholder values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkViewName(args[0]); err != nil {
			return err
		}
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dir") {
			cfg.TemplatesDir = templatesFlags.dir
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return err
		}
		wiz, err := calibration.New(calibration.Options{
			Templates:   provider,
			Resolution:  resolution(cfg),
			DistanceCm:  cfg.DistanceCm,
			SwatchCount: cfg.SwatchCount,
			OnComplete:  func(calibration.Result) {},
		})
		if err != nil {
			return err
		}

		view, err := provider.RenderSync(context.Background(), args[0], wiz.Variables())
		if err != nil {
			return err
		}

		text := "# " + view.Title + "\n\n" + view.Body
		if templatesFlags.raw {
			fmt.Println(text)
			return nil
		}
		r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(80))
		if err != nil {
			fmt.Println(text)
			return nil
		}
		out, err := r.Render(text)
		if err != nil {
			fmt.Println(text)
			return nil
		}
		fmt.Print(out)
		return nil
	},
}

var templatesEditCmd = &cobra.Command{
	Use:   "edit <view>",
	Short: "Open a view override in $EDITOR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkViewName(args[0]); err != nil {
			return err
		}
		dir, err := templatesDir(cmd)
		if err != nil {
			return err
		}
		src, err := template.NewDirSource(dir)
		if err != nil {
			return err
		}

		path := src.Path(args[0])
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if _, err := template.WriteDefaults(dir, false); err != nil {
				return err
			}
		}

		c, err := editor.Command("screencal", path)
		if err != nil {
			return fmt.Errorf("failed to prepare editor: %w", err)
		}
		c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}
		return nil
	},
}

var templatesDiffCmd = &cobra.Command{
	Use:   "diff <view>",
	Short: "Show how an override differs from the default view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkViewName(args[0]); err != nil {
			return err
		}
		dir, err := templatesDir(cmd)
		if err != nil {
			return err
		}
		diff, err := template.Diff(dir, args[0])
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Println("Override matches the default.")
			return nil
		}
		fmt.Print(diff)
		return nil
	},
}

func init() {
	templatesCmd.PersistentFlags().StringVar(&templatesFlags.dir, "dir", "", "Templates directory (default: templates_dir from config)")
	templatesGenCmd.Flags().BoolVarP(&templatesFlags.force, "force", "f", false, "Overwrite existing views")
	templatesShowCmd.Flags().BoolVar(&templatesFlags.raw, "raw", false, "Print markdown without rendering")

	templatesCmd.AddCommand(templatesGenCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesEditCmd)
	templatesCmd.AddCommand(templatesDiffCmd)
}

// templatesDir resolves --dir, then templates_dir from config.
func templatesDir(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("dir") {
		return templatesFlags.dir, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TemplatesDir == "" {
		return "", fmt.Errorf("%w\n\nSet templates_dir in screencal.yml or pass --dir", template.ErrNoBasePath)
	}
	return cfg.TemplatesDir, nil
}

func checkViewName(name string) error {
	if !slices.Contains(template.EmbeddedNames(), name) {
		return fmt.Errorf("%w: %s", template.ErrUnknownView, name)
	}
	return nil
}
