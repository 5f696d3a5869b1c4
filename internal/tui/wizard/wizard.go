// Package wizard hosts the calibration wizard in a Bubbletea program.
//
// The model owns no calibration state. Every key press is translated into a
// calibration.Wizard call and the returned Entry drives the redraw of the
// drawing surface.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/logger"
	"github.com/mark3labs/screencal/internal/surface"
	"github.com/mark3labs/screencal/internal/tui/theme"
)

// Layout constants
const (
	defaultWidth      = 80  // Used until the first WindowSizeMsg
	defaultHeight     = 24  // Used until the first WindowSizeMsg
	maxContentWidth   = 100 // Text column cap for readability
	sliderWidth       = 30
	defaultSliderStep = 0.01
	retryInterval     = 100 * time.Millisecond
)

// Options configures the calibration TUI.
type Options struct {
	Wizard     *calibration.Wizard // Required
	Renderer   *surface.Renderer   // Defaults to a renderer with the wizard's swatch count
	Canvas     *surface.CellCanvas // Nil draws no surface
	Loaded     <-chan struct{}     // Closed once views are cached; nil means ready
	Reloaded   <-chan string       // Names of views re-cached after an edit; nil disables
	SliderStep float64             // Ratio change per arrow press (default 0.01)
}

// choice is one button of the current step.
type choice struct {
	label  string
	back   bool
	action calibration.Action
}

// Model is the Bubbletea model for a calibration session.
type Model struct {
	wiz      *calibration.Wizard
	renderer *surface.Renderer
	canvas   *surface.CellCanvas
	loaded   <-chan struct{}
	reloaded <-chan string
	keys     keyMap

	ready   bool // Views are cached
	visible bool // Wizard shown (immediately when ShowOnLoad)

	spinner   spinner.Model
	sizeInput textinput.Model
	buttons   *ButtonBar
	choices   []choice

	title        string
	body         string
	contentReady bool
	markdown     markdownCache

	surface    string // Last rendered canvas
	drawErr    error
	status     string // Validation message for the current step
	sliderStep float64

	width  int
	height int
}

// New creates the model. It does not start a program.
func New(opts Options) *Model {
	renderer := opts.Renderer
	if renderer == nil {
		renderer = surface.NewRenderer(surface.Options{SwatchCount: opts.Wizard.SwatchCount()}, nil)
	}
	step := opts.SliderStep
	if step <= 0 {
		step = defaultSliderStep
	}

	s := theme.Current().S()
	m := &Model{
		wiz:        opts.Wizard,
		renderer:   renderer,
		canvas:     opts.Canvas,
		loaded:     opts.Loaded,
		reloaded:   opts.Reloaded,
		keys:       defaultKeyMap(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner)),
		sizeInput:  newSizeInput(),
		sliderStep: step,
	}
	m.setChoices(m.wiz.Step())
	return m
}

func newSizeInput() textinput.Model {
	t := theme.Current()
	input := textinput.New()
	input.Placeholder = "e.g. 24"
	input.Prompt = ""
	input.CharLimit = 8

	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(12)
	return input
}

// Run starts a Bubbletea program for the wizard and blocks until the session
// completes. Quitting the program any other way dismisses the session.
func Run(ctx context.Context, opts Options) (calibration.Result, error) {
	if opts.Wizard == nil {
		return calibration.Result{}, errors.New("wizard is required")
	}

	p := tea.NewProgram(New(opts), tea.WithContext(ctx))
	_, err := p.Run()

	if !opts.Wizard.Done() {
		if _, derr := opts.Wizard.Dismiss(); derr != nil {
			logger.Warn("Dismiss after exit: %v", derr)
		}
	}
	result, _ := opts.Wizard.FinalResult()

	if err != nil {
		return result, fmt.Errorf("wizard failed: %w", err)
	}
	return result, nil
}

// Init starts the loading spinner and waits for the views.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForViews(m.loaded), waitForReload(m.reloaded))
}

func waitForReload(reloaded <-chan string) tea.Cmd {
	if reloaded == nil {
		return nil
	}
	return func() tea.Msg {
		name, ok := <-reloaded
		if !ok {
			return nil
		}
		return ViewReloadedMsg{Name: name}
	}
}

func waitForViews(loaded <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if loaded != nil {
			<-loaded
		}
		return ViewsLoadedMsg{}
	}
}

// Ready reports whether views have loaded.
func (m *Model) Ready() bool { return m.ready }

// Visible reports whether the wizard is shown.
func (m *Model) Visible() bool { return m.visible }

// Status returns the current validation message.
func (m *Model) Status() string { return m.status }

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.buttons.SetWidth(m.contentWidth())
		if m.visible && !m.wiz.Done() {
			m.draw(m.wiz.Resize())
			return m, m.checkContent()
		}
		return m, nil

	case ViewsLoadedMsg:
		m.ready = true
		logger.Debug("Views loaded, show on load: %t", m.wiz.ShowOnLoad())
		if m.wiz.ShowOnLoad() {
			return m, m.show()
		}
		return m, nil

	case retryContentMsg:
		return m, m.checkContent()

	case ViewReloadedMsg:
		logger.Debug("View %s reloaded", msg.Name)
		var cmd tea.Cmd
		if m.visible && !m.wiz.Done() {
			cmd = m.checkContent()
		}
		return m, tea.Batch(cmd, waitForReload(m.reloaded))

	case spinner.TickMsg:
		if m.ready && m.contentReady {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	// Cursor blink and other input messages
	if m.visible && m.wiz.Step() == calibration.StepEnterKnownSize {
		var cmd tea.Cmd
		m.sizeInput, cmd = m.sizeInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	typing := m.visible && m.wiz.Step() == calibration.StepEnterKnownSize

	// ctrl+c always dismisses; q only when it is not text for the size input
	if msg.String() == "ctrl+c" || (!typing && key.Matches(msg, m.keys.Quit)) {
		return m.dismiss()
	}
	if !m.ready || m.wiz.Done() {
		return nil
	}
	if !m.visible {
		if key.Matches(msg, m.keys.Select) {
			return m.show()
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Next):
		m.buttons.FocusNext()
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.buttons.FocusPrev()
		return nil
	case key.Matches(msg, m.keys.Select):
		return m.activate()
	}

	if m.wiz.Step() == calibration.StepEnterObjectSize {
		switch {
		case key.Matches(msg, m.keys.Smaller):
			return m.nudge(-m.sliderStep)
		case key.Matches(msg, m.keys.Larger):
			return m.nudge(m.sliderStep)
		case key.Matches(msg, m.keys.SmallerXL):
			return m.nudge(-10 * m.sliderStep)
		case key.Matches(msg, m.keys.LargerXL):
			return m.nudge(10 * m.sliderStep)
		}
	}

	if typing {
		var cmd tea.Cmd
		m.sizeInput, cmd = m.sizeInput.Update(msg)
		m.status = ""
		return cmd
	}
	return nil
}

// show makes the wizard visible on its current step.
func (m *Model) show() tea.Cmd {
	m.visible = true
	return m.enter(m.wiz.Current())
}

// activate runs the focused button.
func (m *Model) activate() tea.Cmd {
	i := m.buttons.Focused()
	if i < 0 || i >= len(m.choices) {
		return nil
	}
	c := m.choices[i]
	if c.back {
		return m.back()
	}

	var (
		e   calibration.Entry
		err error
	)
	if c.action == calibration.ActionConfirmManualSize {
		e, err = m.wiz.ConfirmManualSize(m.sizeInput.Value())
	} else {
		e, err = m.wiz.Do(c.action)
	}
	if err != nil {
		m.status = statusFor(err)
		return nil
	}
	if m.wiz.Done() {
		return m.finish()
	}
	return m.enter(e)
}

func (m *Model) back() tea.Cmd {
	e, err := m.wiz.Back()
	if errors.Is(err, calibration.ErrNoBack) {
		return nil
	}
	if err != nil {
		m.status = statusFor(err)
		return nil
	}
	return m.enter(e)
}

func (m *Model) nudge(delta float64) tea.Cmd {
	e := m.wiz.SetScaleRatio(m.wiz.Model().ScaleRatio() + delta)
	m.draw(e)
	return m.checkContent()
}

func (m *Model) dismiss() tea.Cmd {
	if !m.wiz.Done() {
		if _, err := m.wiz.Dismiss(); err != nil {
			logger.Warn("Dismiss failed: %v", err)
		}
	}
	return m.finish()
}

func (m *Model) finish() tea.Cmd {
	result, _ := m.wiz.FinalResult()
	return tea.Sequence(
		func() tea.Msg { return CompletedMsg{Result: result} },
		tea.Quit,
	)
}

// enter applies the render effects of a step entry.
func (m *Model) enter(e calibration.Entry) tea.Cmd {
	m.status = ""
	m.setChoices(e.Step)

	var cmds []tea.Cmd
	if e.Step == calibration.StepEnterKnownSize {
		m.sizeInput.SetValue(e.Prefill)
		m.sizeInput.CursorEnd()
		cmds = append(cmds, m.sizeInput.Focus())
	} else {
		m.sizeInput.Blur()
	}

	m.draw(e)
	cmds = append(cmds, m.checkContent())
	return tea.Batch(cmds...)
}

func (m *Model) setChoices(step calibration.Step) {
	m.choices = m.choices[:0]
	if step.HasBack() {
		m.choices = append(m.choices, choice{label: "← Back", back: true})
	}
	for _, a := range step.Actions() {
		m.choices = append(m.choices, choice{label: actionLabel(a), action: a})
	}

	buttons := make([]Button, len(m.choices))
	for i, c := range m.choices {
		buttons[i] = Button{Label: c.label, State: ButtonNormal}
	}
	m.buttons = NewButtonBar(buttons)
	m.buttons.SetWidth(m.contentWidth())

	// Focus the first forward action
	first := 0
	if step.HasBack() {
		first = 1
	}
	m.buttons.Focus(first)
}

func actionLabel(a calibration.Action) string {
	switch a {
	case calibration.ActionSizeKnown:
		return "Yes, I know it"
	case calibration.ActionSizeUnknown:
		return "No, measure it"
	case calibration.ActionChooseCard:
		return "Credit card"
	case calibration.ActionChooseDisk:
		return "Compact disk"
	case calibration.ActionFinalConfirm:
		return "Finish"
	default:
		return "Next →"
	}
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, calibration.ErrNotNumeric):
		return "Please enter a number, for example 24 or 15.6."
	case errors.Is(err, calibration.ErrSizeOutOfRange):
		return "The diagonal must be greater than 0 and less than 60 inches."
	default:
		return err.Error()
	}
}

// draw runs the surface effect of an entry. The canvas is handed to the
// renderer as a nil interface when none is configured so the renderer's nil
// handling applies.
func (m *Model) draw(e calibration.Entry) {
	m.surface = ""
	m.drawErr = nil

	var c surface.Canvas
	widthPx := 0
	if m.canvas != nil {
		c = m.canvas
		widthPx = m.canvas.PixelWidth(m.screenWidth())
	}

	switch e.Draw {
	case calibration.DrawObject:
		o, ok := m.wiz.Model().Selected()
		if !ok {
			return
		}
		m.drawErr = m.renderer.DrawObject(c, widthPx, o, e.SliderPosition)
	case calibration.DrawRamp:
		m.drawErr = m.renderer.DrawRamp(c, widthPx)
	default:
		return
	}

	if m.drawErr != nil {
		logger.Error("Drawing %s failed: %v", e.Draw, m.drawErr)
		return
	}
	if m.canvas != nil {
		m.surface = m.canvas.Render()
	}
}

// checkContent refreshes the step text. A view that is not cached yet is
// polled until its fetch lands.
func (m *Model) checkContent() tea.Cmd {
	title, body, ok := m.wiz.Content()
	m.contentReady = ok
	if ok {
		m.title, m.body = title, body
		return nil
	}
	return tea.Batch(
		m.spinner.Tick,
		tea.Tick(retryInterval, func(time.Time) tea.Msg { return retryContentMsg{} }),
	)
}

func (m *Model) screenWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) screenHeight() int {
	if m.height <= 0 {
		return defaultHeight
	}
	return m.height
}

func (m *Model) contentWidth() int {
	return min(m.screenWidth()-4, maxContentWidth)
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	width, height := m.screenWidth(), m.screenHeight()
	canvas := uv.NewScreenBuffer(width, height)
	uv.NewStyledString(m.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: width, Y: height},
	})

	view := tea.NewView(canvas.Render())
	view.AltScreen = true
	view.WindowTitle = "screencal"
	return view
}

func (m *Model) render() string {
	switch {
	case !m.ready:
		return m.spinner.View() + " Loading calibration views…"
	case !m.visible:
		return m.renderIdle()
	default:
		return m.renderWizard()
	}
}

func (m *Model) renderIdle() string {
	s := theme.Current().S()
	return strings.Join([]string{
		s.HeaderTitle.Render("screencal"),
		"",
		"Screen calibration is ready.",
		"",
		renderHintBar("enter", "start", "q", "dismiss"),
	}, "\n")
}

func (m *Model) renderWizard() string {
	s := theme.Current().S()
	step := m.wiz.Step()

	sections := []string{
		s.HeaderTitle.Render("screencal") + "  " + renderPhases(step.Phase()),
		"",
	}

	if m.contentReady {
		sections = append(sections,
			s.ViewTitle.Render(m.title),
			m.markdown.render(m.body, m.contentWidth()),
		)
	} else {
		sections = append(sections, m.spinner.View()+" Loading…")
	}
	sections = append(sections, "")

	switch step {
	case calibration.StepEnterKnownSize:
		sections = append(sections, "Diagonal (inches): "+m.sizeInput.View(), "")
	case calibration.StepEnterObjectSize:
		sections = append(sections, "Scale: "+renderSlider(m.wiz.Model().ScaleRatio(), sliderWidth), "")
	}

	var footer []string
	if m.drawErr != nil {
		footer = append(footer, s.Error.Render("Cannot draw: "+m.drawErr.Error()), "")
	}
	if m.status != "" {
		footer = append(footer, s.Warning.Render(m.status), "")
	}
	footer = append(footer, m.buttons.Render(), "", m.hints(step))

	if m.surface != "" {
		head := strings.Join(sections, "\n")
		foot := strings.Join(footer, "\n")
		rows := m.screenHeight() - lipgloss.Height(head) - lipgloss.Height(foot) - 1
		if cropped := cropRows(m.surface, rows); cropped != "" {
			sections = append(sections, cropped, "")
		}
	}

	return strings.Join(append(sections, footer...), "\n")
}

// cropRows keeps at most n lines of s, dropping rows evenly from the top
// and bottom so a centered object stays centered.
func cropRows(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	top := (len(lines) - n) / 2
	return strings.Join(lines[top:top+n], "\n")
}

func (m *Model) hints(step calibration.Step) string {
	pairs := []string{}
	if step == calibration.StepEnterObjectSize {
		pairs = append(pairs, "←→", "resize", "shift+←→", "faster")
	}
	pairs = append(pairs, "tab", "focus", "enter", "select")
	if step.HasBack() {
		pairs = append(pairs, "esc", "back")
	}
	if step == calibration.StepEnterKnownSize {
		pairs = append(pairs, "ctrl+c", "dismiss")
	} else {
		pairs = append(pairs, "q", "dismiss")
	}
	return renderHintBar(pairs...)
}
