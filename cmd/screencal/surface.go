package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/surface"
	"github.com/spf13/cobra"
)

var surfaceFlags struct {
	device deviceFlags
	object string
	ratio  float64
	ramp   bool
	out    string
	assets string
}

var surfaceCmd = &cobra.Command{
	Use:   "surface",
	Short: "Export the drawing surface as a PNG",
	Long: `Export the drawing surface as a PNG at device pixel size.

Draws the reference object at a slider ratio, or the contrast gray ramp with
--ramp, at the configured screen width. Useful to check the stimuli on a
second display or to print them.`,
	RunE: runSurface,
}

func init() {
	surfaceFlags.device.register(surfaceCmd)
	surfaceCmd.Flags().StringVarP(&surfaceFlags.object, "object", "o", "card", "Reference object (card, cd)")
	surfaceCmd.Flags().Float64VarP(&surfaceFlags.ratio, "ratio", "r", calibration.DefaultScaleRatio, "Slider ratio in [0, 1]")
	surfaceCmd.Flags().BoolVar(&surfaceFlags.ramp, "ramp", false, "Draw the gray ramp instead of an object")
	surfaceCmd.Flags().StringVar(&surfaceFlags.out, "out", "surface.png", "Output file")
	surfaceCmd.Flags().StringVar(&surfaceFlags.assets, "assets", "", "Root directory holding assets/<object>.png (default: templates_dir)")
}

func runSurface(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &surfaceFlags.device)
	if err != nil {
		return err
	}
	if surfaceFlags.out == "" {
		return errors.New("--out must not be empty")
	}

	root := surfaceFlags.assets
	if root == "" {
		root = cfg.TemplatesDir
	}
	catalog := calibration.DefaultCatalog()
	assets, err := surface.LoadAssets(root, catalog)
	if err != nil {
		return fmt.Errorf("failed to load object images: %w", err)
	}

	r := surface.NewRenderer(surface.Options{SwatchCount: cfg.SwatchCount}, assets)
	c := surface.NewImageCanvas(0, 0)

	if surfaceFlags.ramp {
		if err := r.DrawRamp(c, cfg.ScreenWidthPx); err != nil {
			return err
		}
	} else {
		kind, err := calibration.ParseObjectKind(surfaceFlags.object)
		if err != nil {
			return err
		}
		o, _ := catalog.Get(kind)
		ratio := surfaceFlags.ratio
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("ratio %g is outside [0, 1]", ratio)
		}
		if err := r.DrawObject(c, cfg.ScreenWidthPx, o, ratio); err != nil {
			return err
		}
	}

	f, err := os.Create(surfaceFlags.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", surfaceFlags.out, err)
	}
	if err := c.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", surfaceFlags.out, err)
	}

	w, h := c.Size()
	fmt.Printf("Wrote %dx%d surface to %s\n", w, h, surfaceFlags.out)
	return nil
}
