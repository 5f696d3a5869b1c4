package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/report"
	"github.com/spf13/cobra"
)

var deriveFlags struct {
	device   deviceFlags
	diagonal float64
	object   string
	ratio    float64
	jsonOnly bool
}

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive ppi and ppd without the wizard",
	Long: `Derive pixels per inch and pixels per degree without running the wizard.

Give either the known diagonal:
  screencal derive --diagonal 24

or the reference object and the slider ratio at which it matched:
  screencal derive --object card --ratio 0.5`,
	RunE: runDerive,
}

func init() {
	deriveFlags.device.register(deriveCmd)
	deriveCmd.Flags().Float64VarP(&deriveFlags.diagonal, "diagonal", "d", 0, "Known screen diagonal in inches")
	deriveCmd.Flags().StringVarP(&deriveFlags.object, "object", "o", "", "Reference object (card, cd)")
	deriveCmd.Flags().Float64VarP(&deriveFlags.ratio, "ratio", "r", calibration.DefaultScaleRatio, "Slider ratio in [0, 1] at which the object matched")
	deriveCmd.Flags().BoolVar(&deriveFlags.jsonOnly, "json", false, "Print JSON only")
}

func runDerive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, &deriveFlags.device)
	if err != nil {
		return err
	}

	hasDiagonal := cmd.Flags().Changed("diagonal")
	hasObject := deriveFlags.object != ""
	if hasDiagonal == hasObject {
		return errors.New("give exactly one of --diagonal or --object")
	}

	model := calibration.NewSizeModel(resolution(cfg), cfg.DistanceCm)
	if hasDiagonal {
		if err := model.SetDiagonalInches(deriveFlags.diagonal); err != nil {
			return fmt.Errorf("diagonal %g: %w", deriveFlags.diagonal, err)
		}
	} else {
		kind, err := calibration.ParseObjectKind(deriveFlags.object)
		if err != nil {
			return err
		}
		o, _ := calibration.DefaultCatalog().Get(kind)
		model.SelectObject(o)
		model.SetScaleRatio(deriveFlags.ratio)
		if raw, ok := model.DeriveFromObject(); !ok {
			return fmt.Errorf("ratio %g derives a %.2f in diagonal: %w", model.ScaleRatio(), raw, calibration.ErrSizeOutOfRange)
		}
	}

	result := model.Result(calibration.StatusConfirmed)
	if deriveFlags.jsonOnly {
		return report.WriteJSON(os.Stdout, result, stdoutProfile())
	}
	report.ConsoleSink(os.Stdout, stdoutProfile())(result)
	return nil
}
