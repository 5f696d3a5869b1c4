// Package calibration implements the screen calibration wizard: the step
// state machine, the screen-size derivation model and the completion
// callback contract.
//
// The controller never draws. Every transition returns an Entry that tells
// the host which effects to run for the step it just entered.
package calibration

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mark3labs/screencal/internal/logger"
	"github.com/mark3labs/screencal/internal/template"
)

var (
	ErrNoTemplates       = errors.New("template provider is required")
	ErrInvalidResolution = errors.New("screen resolution must be positive")
	ErrNoBack            = errors.New("step has no back navigation")
	ErrInvalidAction     = errors.New("action not available on this step")
	ErrNotNumeric        = errors.New("screen size is not a number")
	ErrSizeOutOfRange    = errors.New("screen size must be between 0 and 60 inches")
	ErrUnknownObject     = errors.New("unknown reference object")
	ErrCompleted         = errors.New("calibration already completed")
)

// Templates renders step views. *template.Provider satisfies it.
type Templates interface {
	RenderView(name string, vars template.Variables) (template.View, bool)
}

// Options configures a Wizard.
type Options struct {
	Templates   Templates    // Required
	Catalog     *Catalog     // Defaults to DefaultCatalog()
	Resolution  Resolution   // Device resolution, fixed for the session
	DistanceCm  float64      // Viewing distance, defaults to 50
	SwatchCount int          // Gray ramp swatches, defaults to 12
	OnComplete  func(Result) // Called at most once
	ShowOnLoad  bool         // Show the wizard as soon as views are loaded
	Console     io.Writer    // Fallback output when OnComplete is nil, defaults to stdout
}

// DrawKind is the surface effect requested by a step entry.
type DrawKind int

const (
	DrawNone DrawKind = iota
	DrawObject
	DrawRamp
)

func (d DrawKind) String() string {
	switch d {
	case DrawObject:
		return "object"
	case DrawRamp:
		return "ramp"
	default:
		return "none"
	}
}

// Entry describes the render effects of entering or updating a step.
type Entry struct {
	Step           Step
	Draw           DrawKind
	Prefill        string  // Known diagonal for the manual entry input
	SliderPosition float64 // Scale ratio for the object step
}

// Wizard drives one calibration session. It is not safe for concurrent use;
// the host calls it from a single goroutine.
type Wizard struct {
	templates   Templates
	catalog     *Catalog
	model       *SizeModel
	swatches    int
	showOnLoad  bool
	onComplete  func(Result)
	step        Step
	done        bool
	finalResult Result
}

// New creates a wizard positioned on StepAskIfKnown.
func New(opts Options) (*Wizard, error) {
	if opts.Templates == nil {
		return nil, ErrNoTemplates
	}
	if !opts.Resolution.Valid() {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, opts.Resolution.Width, opts.Resolution.Height)
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultCatalog()
	}
	if opts.SwatchCount <= 0 {
		opts.SwatchCount = DefaultSwatchCount
	}

	onComplete := opts.OnComplete
	if onComplete == nil {
		out := opts.Console
		if out == nil {
			out = os.Stdout
		}
		logger.Info("No completion callback set, result will be written to the console")
		onComplete = consoleOutput(out)
	}

	return &Wizard{
		templates:  opts.Templates,
		catalog:    opts.Catalog,
		model:      NewSizeModel(opts.Resolution, opts.DistanceCm),
		swatches:   opts.SwatchCount,
		showOnLoad: opts.ShowOnLoad,
		onComplete: onComplete,
		step:       StepAskIfKnown,
	}, nil
}

func consoleOutput(w io.Writer) func(Result) {
	return func(r Result) {
		data, err := r.JSON()
		if err != nil {
			logger.Error("Failed to encode result: %v", err)
			return
		}
		_, _ = fmt.Fprintln(w, string(data))
	}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Model exposes the size model for display. Hosts must not mutate it directly.
func (w *Wizard) Model() *SizeModel { return w.model }

// Catalog returns the reference object catalog.
func (w *Wizard) Catalog() *Catalog { return w.catalog }

// SwatchCount is the number of ramp swatches.
func (w *Wizard) SwatchCount() int { return w.swatches }

// ShowOnLoad reports whether the host shows the wizard once views are loaded.
func (w *Wizard) ShowOnLoad() bool { return w.showOnLoad }

// Done reports whether completion has fired.
func (w *Wizard) Done() bool { return w.done }

// FinalResult returns the payload delivered on completion.
func (w *Wizard) FinalResult() (Result, bool) {
	return w.finalResult, w.done
}

// RequiredViews lists the views the host must load before the wizard is
// interactive.
func RequiredViews() []string {
	names := make([]string, 0, len(Steps))
	for _, s := range Steps {
		names = append(names, s.ViewName())
	}
	return names
}

// Current returns the entry for the current step without changing state.
func (w *Wizard) Current() Entry {
	e := Entry{Step: w.step}
	switch w.step {
	case StepEnterObjectSize:
		e.Draw = DrawObject
		e.SliderPosition = w.model.ScaleRatio()
	case StepBrightness:
		e.Draw = DrawRamp
	}
	return e
}

// Do runs a forward action. ActionFinalConfirm on the summary completes the
// session with StatusConfirmed. ActionConfirmManualSize needs the typed text
// and goes through ConfirmManualSize.
func (w *Wizard) Do(action Action) (Entry, error) {
	if w.done {
		return w.Current(), ErrCompleted
	}

	if action == ActionFinalConfirm && w.step == StepSummary {
		w.complete(StatusConfirmed)
		return w.Current(), nil
	}
	if action == ActionConfirmManualSize {
		return w.Current(), fmt.Errorf("%w: %s needs input", ErrInvalidAction, action)
	}

	next, ok := forward[edge{w.step, action}]
	if !ok {
		return w.Current(), fmt.Errorf("%w: %s on %s", ErrInvalidAction, action, w.step)
	}

	switch action {
	case ActionChooseCard, ActionChooseDisk:
		kind := CreditCard
		if action == ActionChooseDisk {
			kind = CompactDisk
		}
		o, ok := w.catalog.Get(kind)
		if !ok {
			return w.Current(), fmt.Errorf("%w: %s", ErrUnknownObject, kind)
		}
		w.model.SelectObject(o)
	}

	return w.enter(next), nil
}

// ConfirmManualSize parses the typed diagonal and, when valid, moves on to
// the brightness step. Invalid input logs a warning and leaves the wizard on
// StepEnterKnownSize.
func (w *Wizard) ConfirmManualSize(input string) (Entry, error) {
	if w.done {
		return w.Current(), ErrCompleted
	}
	if w.step != StepEnterKnownSize {
		return w.Current(), fmt.Errorf("%w: %s on %s", ErrInvalidAction, ActionConfirmManualSize, w.step)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		logger.Warn("Screen size %q is not a number", input)
		return w.Current(), ErrNotNumeric
	}
	if err := w.model.SetDiagonalInches(v); err != nil {
		logger.Warn("Screen size %v rejected: %v", v, err)
		return w.Current(), err
	}

	return w.enter(forward[edge{StepEnterKnownSize, ActionConfirmManualSize}]), nil
}

// SetScaleRatio moves the slider. On the object step the diagonal is
// re-derived and an object redraw is requested.
func (w *Wizard) SetScaleRatio(r float64) Entry {
	w.model.SetScaleRatio(r)
	if w.step == StepEnterObjectSize && !w.done {
		w.model.DeriveFromObject()
	}
	return w.Current()
}

// Back follows the step's back edge.
func (w *Wizard) Back() (Entry, error) {
	if w.done {
		return w.Current(), ErrCompleted
	}
	prev, ok := back[w.step]
	if !ok {
		return w.Current(), ErrNoBack
	}
	return w.enter(prev), nil
}

// Dismiss completes the session with StatusDismissed from any step.
func (w *Wizard) Dismiss() (Result, error) {
	if w.done {
		return w.finalResult, ErrCompleted
	}
	return w.complete(StatusDismissed), nil
}

// Resize handles a surface resize. The object and brightness steps redraw,
// and the diagonal is re-derived unless it was entered manually.
func (w *Wizard) Resize() Entry {
	e := w.Current()
	if e.Draw == DrawNone || w.done {
		return e
	}
	if w.model.Source() != SourceManual {
		w.model.DeriveFromObject()
	}
	return e
}

// Variables are the placeholder values for the current state.
func (w *Wizard) Variables() template.Variables {
	m := w.model
	d, known := m.DiagonalInches()
	ppi, _ := m.PixelsPerInch()
	ppd, _ := m.PixelsPerDegree()

	object := ""
	if o, ok := m.Selected(); ok {
		object = o.Name
	}

	return template.Variables{
		"object":        object,
		"ratio":         FormatRatio(m.ScaleRatio()),
		"diagonal_size": FormatInches(d, known),
		"diagonal_px":   FormatValue(m.DiagonalPx(), true, "px"),
		"ppi":           FormatValue(ppi, known, ""),
		"ppd":           FormatValue(ppd, known, ""),
		"distance_cm":   FormatValue(m.DistanceCm(), true, "cm"),
		"swatches":      strconv.Itoa(w.swatches),
	}
}

// Content returns the current step's title and body. ready is false while
// the view is still being fetched; the host asks again on its next render.
func (w *Wizard) Content() (title, body string, ready bool) {
	v, ok := w.templates.RenderView(w.step.ViewName(), w.Variables())
	if !ok {
		return "", "", false
	}
	return v.Title, v.Body, true
}

func (w *Wizard) enter(step Step) Entry {
	w.step = step
	e := Entry{Step: step}

	switch step {
	case StepEnterKnownSize:
		if d, ok := w.model.DiagonalInches(); ok {
			e.Prefill = strconv.FormatFloat(math.Round(d*100)/100, 'f', -1, 64)
		}
	case StepEnterObjectSize:
		w.model.DeriveFromObject()
		e.Draw = DrawObject
		e.SliderPosition = w.model.ScaleRatio()
	case StepBrightness:
		e.Draw = DrawRamp
	}

	logger.Debug("Wizard entered step %s (phase %s)", step, step.Phase())
	return e
}

func (w *Wizard) complete(status Status) Result {
	w.done = true
	w.finalResult = w.model.Result(status)
	logger.Info("Calibration completed: status=%d known=%t", status, w.finalResult.Known())
	w.onComplete(w.finalResult)
	return w.finalResult
}
