package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/colorprofile"
	"github.com/google/uuid"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/config"
	"github.com/mark3labs/screencal/internal/hooks"
	"github.com/mark3labs/screencal/internal/logger"
	"github.com/mark3labs/screencal/internal/nats"
	"github.com/mark3labs/screencal/internal/report"
	"github.com/mark3labs/screencal/internal/surface"
	"github.com/mark3labs/screencal/internal/template"
	"github.com/mark3labs/screencal/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var runFlags struct {
	device    deviceFlags
	templates string
	publish   bool
	natsURL   string
	noHooks   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive calibration wizard",
	Long: `Run the interactive calibration wizard.

The wizard asks whether the screen size is known, measures it with a reference
object otherwise, shows a gray ramp for contrast adjustment and prints the
result as JSON. Pressing q (or ctrl+c while typing) dismisses the session.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./screencal.yml
Global config: ~/.config/screencal/screencal.yml`,
	RunE: runRun,
}

func init() {
	runFlags.device.register(runCmd)
	runCmd.Flags().StringVarP(&runFlags.templates, "templates", "t", "", "Directory with view overrides (default from config)")
	runCmd.Flags().BoolVar(&runFlags.publish, "publish", false, "Publish the result over NATS")
	runCmd.Flags().StringVar(&runFlags.natsURL, "nats-url", "", "External NATS server; empty starts an embedded one")
	runCmd.Flags().BoolVar(&runFlags.noHooks, "no-hooks", false, "Skip on_complete hooks")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &runFlags.device)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("templates") {
		cfg.TemplatesDir = runFlags.templates
	}
	if cmd.Flags().Changed("publish") {
		cfg.Publish = runFlags.publish
	}
	if cmd.Flags().Changed("nats-url") {
		cfg.NATSURL = runFlags.natsURL
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profile := stdoutProfile()
	if profile != colorprofile.TrueColor {
		fmt.Fprintf(os.Stderr, "Warning: terminal reports %s colors; the gray ramp may show fewer distinct levels.\n", profile)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	loaded := make(chan struct{})
	provider.Load(ctx, calibration.RequiredViews(), func() { close(loaded) })

	var reloaded chan string
	if cfg.TemplatesDir != "" {
		reloaded = make(chan string, 8)
		w, err := template.Watch(cfg.TemplatesDir, provider, func(v template.View) {
			select {
			case reloaded <- v.Name:
			default:
			}
		})
		if err != nil {
			logger.Warn("Template live reload disabled: %v", err)
			reloaded = nil
		} else {
			defer func() { _ = w.Close() }()
		}
	}

	catalog := calibration.DefaultCatalog()
	assets, err := surface.LoadAssets(cfg.TemplatesDir, catalog)
	if err != nil {
		return fmt.Errorf("failed to load object images: %w", err)
	}

	var result calibration.Result
	wiz, err := calibration.New(calibration.Options{
		Templates:   provider,
		Catalog:     catalog,
		Resolution:  resolution(cfg),
		DistanceCm:  cfg.DistanceCm,
		SwatchCount: cfg.SwatchCount,
		ShowOnLoad:  cfg.ShowOnLoad,
		OnComplete:  func(r calibration.Result) { result = r },
	})
	if err != nil {
		return fmt.Errorf("failed to create wizard: %w", err)
	}

	if _, err := wizard.Run(ctx, wizard.Options{
		Wizard:   wiz,
		Renderer: surface.NewRenderer(surface.Options{SwatchCount: cfg.SwatchCount}, assets),
		Canvas:   surface.NewCellCanvas(cfg.CellWidthPx, cfg.CellHeightPx),
		Loaded:   loaded,
		Reloaded: reloaded,
	}); err != nil {
		return err
	}

	report.ConsoleSink(os.Stdout, profile)(result)

	session := uuid.NewString()
	if cfg.Publish {
		published, err := publish(cfg, result)
		if err != nil {
			// Publishing is best effort; the result is already on stdout
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		} else {
			session = published
		}
	}

	if !runFlags.noHooks {
		runHooks(ctx, cfg, session, result)
	}
	return nil
}

func newProvider(cfg *config.Config) (*template.Provider, error) {
	var src template.Source = template.EmbeddedSource{}
	if cfg.TemplatesDir != "" {
		dir, err := template.NewDirSource(cfg.TemplatesDir)
		if err != nil {
			return nil, err
		}
		src = dir
	}
	return template.NewProvider(src)
}

// publish sends the result and returns the session id it was published under.
func publish(cfg *config.Config, r calibration.Result) (string, error) {
	nc, ns, err := connectNATS(cfg.NATSURL, cfg.NATSPort)
	if err != nil {
		return "", err
	}
	defer func() { _ = nats.Shutdown(nc, ns) }()

	p, err := nats.NewPublisher(nc)
	if err != nil {
		return "", err
	}
	if err := p.Publish(r); err != nil {
		return "", err
	}
	fmt.Fprintf(os.Stderr, "Published to %s\n", p.Subject())
	return p.Session(), nil
}

func runHooks(ctx context.Context, cfg *config.Config, session string, r calibration.Result) {
	hc, err := hooks.LoadConfig(cfg.HooksFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	wd, _ := os.Getwd()
	out, err := hooks.RunOnComplete(ctx, hc, wd, session, r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: hooks interrupted: %v\n", err)
		return
	}
	if out != "" {
		fmt.Println(out)
	}
}
