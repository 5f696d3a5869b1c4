package wizard

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/surface"
	"github.com/mark3labs/screencal/internal/tui/testfixtures"
	"github.com/stretchr/testify/require"
)

type harness struct {
	model     *Model
	wiz       *calibration.Wizard
	sink      *testfixtures.MockSink
	templates *testfixtures.MockTemplates
}

func newHarness(t *testing.T, showOnLoad bool, canvas *surface.CellCanvas) *harness {
	t.Helper()
	sink := testfixtures.NewMockSink()
	templates := testfixtures.NewMockTemplates()
	wiz, err := calibration.New(calibration.Options{
		Templates:  templates,
		Resolution: testfixtures.FixedResolution,
		OnComplete: sink.OnComplete,
		ShowOnLoad: showOnLoad,
	})
	require.NoError(t, err)

	m := New(Options{Wizard: wiz, Canvas: canvas})
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	m.Update(ViewsLoadedMsg{})
	return &harness{model: m, wiz: wiz, sink: sink, templates: templates}
}

func (h *harness) press(msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = h.model.Update(msg)
	}
	return cmd
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.press(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func (h *harness) screen() string {
	return h.model.render()
}

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	escKey   = tea.KeyPressMsg{Code: tea.KeyEscape}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
	rightKey = tea.KeyPressMsg{Code: tea.KeyRight}
	leftKey  = tea.KeyPressMsg{Code: tea.KeyLeft}
	qKey     = tea.KeyPressMsg{Code: 'q', Text: "q"}
	ctrlC    = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

func TestModel_LoadingState(t *testing.T) {
	wiz, err := calibration.New(calibration.Options{
		Templates:  testfixtures.NewMockTemplates(),
		Resolution: testfixtures.FixedResolution,
		OnComplete: func(calibration.Result) {},
	})
	require.NoError(t, err)

	m := New(Options{Wizard: wiz})
	require.NotNil(t, m.Init())
	require.False(t, m.Ready())
	require.Contains(t, m.render(), "Loading calibration views")
	view := m.View()
	require.True(t, view.AltScreen)
	require.Equal(t, "screencal", view.WindowTitle)

	// Keys other than dismiss are ignored until views load
	m.Update(enterKey)
	require.False(t, m.Visible())
}

func TestModel_WaitsForLoadedChannel(t *testing.T) {
	loaded := make(chan struct{})
	close(loaded)
	msg := waitForViews(loaded)()
	require.IsType(t, ViewsLoadedMsg{}, msg)
	require.IsType(t, ViewsLoadedMsg{}, waitForViews(nil)())
}

func TestModel_IdleUntilStarted(t *testing.T) {
	h := newHarness(t, false, nil)
	require.True(t, h.model.Ready())
	require.False(t, h.model.Visible())
	require.Contains(t, h.screen(), "Screen calibration is ready")

	h.press(enterKey)
	require.True(t, h.model.Visible())
	require.Equal(t, calibration.StepAskIfKnown, h.wiz.Step())
	require.Contains(t, h.screen(), "Screen size")
}

func TestModel_ManualSizeFlow(t *testing.T) {
	h := newHarness(t, true, surface.NewCellCanvas(0, 0))
	require.True(t, h.model.Visible())
	require.Equal(t, "Yes, I know it", h.model.buttons.FocusedLabel())

	h.press(enterKey)
	require.Equal(t, calibration.StepEnterKnownSize, h.wiz.Step())
	require.Equal(t, "Next →", h.model.buttons.FocusedLabel())

	// q is text while the size input has focus
	h.typeText("q")
	require.False(t, h.wiz.Done())
	h.press(enterKey)
	require.Equal(t, calibration.StepEnterKnownSize, h.wiz.Step())
	require.Contains(t, h.model.Status(), "number")

	h.model.sizeInput.SetValue("")
	h.typeText("75")
	h.press(enterKey)
	require.Equal(t, calibration.StepEnterKnownSize, h.wiz.Step())
	require.Contains(t, h.model.Status(), "60 inches")

	h.model.sizeInput.SetValue("")
	h.typeText("24")
	h.press(enterKey)
	require.Equal(t, calibration.StepBrightness, h.wiz.Step())
	require.Empty(t, h.model.Status())
	require.NotEmpty(t, h.model.surface, "ramp is drawn")

	h.press(enterKey)
	require.Equal(t, calibration.StepSummary, h.wiz.Step())
	require.Contains(t, h.screen(), "Summary")

	// Back to brightness and forward again
	h.press(escKey)
	require.Equal(t, calibration.StepBrightness, h.wiz.Step())
	h.press(enterKey)

	cmd := h.press(enterKey)
	require.NotNil(t, cmd)
	require.True(t, h.wiz.Done())
	require.Equal(t, 1, h.sink.Count())

	r, ok := h.sink.Last()
	require.True(t, ok)
	require.Equal(t, testfixtures.ConfirmedResult(), r)
}

func TestModel_ObjectFlow(t *testing.T) {
	h := newHarness(t, true, surface.NewCellCanvas(0, 0))

	h.press(tabKey) // focus "No, measure it"
	require.Equal(t, "No, measure it", h.model.buttons.FocusedLabel())
	h.press(enterKey)
	require.Equal(t, calibration.StepChooseObject, h.wiz.Step())

	h.press(enterKey) // Credit card
	require.Equal(t, calibration.StepEnterObjectSize, h.wiz.Step())
	require.NotEmpty(t, h.model.surface)
	require.InDelta(t, calibration.DefaultScaleRatio, h.wiz.Model().ScaleRatio(), 1e-9)

	before, ok := h.wiz.Model().DiagonalInches()
	require.True(t, ok)

	h.press(rightKey)
	require.InDelta(t, 0.51, h.wiz.Model().ScaleRatio(), 1e-9)
	after, _ := h.wiz.Model().DiagonalInches()
	require.Less(t, after, before, "a larger object means a smaller screen")

	h.press(leftKey, leftKey)
	require.InDelta(t, 0.49, h.wiz.Model().ScaleRatio(), 1e-9)

	h.press(tea.KeyPressMsg{Code: tea.KeyRight, Mod: tea.ModShift})
	require.InDelta(t, 0.59, h.wiz.Model().ScaleRatio(), 1e-9)

	require.Contains(t, h.screen(), "Scale:")

	h.press(escKey)
	require.Equal(t, calibration.StepChooseObject, h.wiz.Step())
}

func TestModel_DismissWithQ(t *testing.T) {
	h := newHarness(t, true, nil)

	cmd := h.press(qKey)
	require.NotNil(t, cmd)
	require.True(t, h.wiz.Done())

	r, ok := h.sink.Last()
	require.True(t, ok)
	require.Equal(t, testfixtures.DismissedResult(), r)

	// Later keys do nothing
	h.press(enterKey, qKey)
	require.Equal(t, 1, h.sink.Count())
}

func TestModel_CtrlCDismissesWhileTyping(t *testing.T) {
	h := newHarness(t, true, nil)
	h.press(enterKey)
	require.Equal(t, calibration.StepEnterKnownSize, h.wiz.Step())

	h.press(ctrlC)
	require.True(t, h.wiz.Done())
	r, _ := h.sink.Last()
	require.Equal(t, calibration.StatusDismissed, r.Status)
}

func TestModel_BrightnessWithoutCanvas(t *testing.T) {
	h := newHarness(t, true, nil)
	h.press(enterKey)
	h.typeText("24")
	h.press(enterKey)
	require.Equal(t, calibration.StepBrightness, h.wiz.Step())

	require.ErrorIs(t, h.model.drawErr, surface.ErrSurfaceNotFound)
	require.Contains(t, h.screen(), "Cannot draw")
}

func TestModel_ContentRetriesUntilCached(t *testing.T) {
	h := newHarness(t, true, nil)
	h.templates.Hold("enter-known-size")

	cmd := h.press(enterKey)
	require.NotNil(t, cmd)
	require.False(t, h.model.contentReady)
	require.Contains(t, h.screen(), "Loading")

	h.templates.Release("enter-known-size")
	h.model.Update(retryContentMsg{})
	require.True(t, h.model.contentReady)
	require.Contains(t, h.screen(), "Enter your screen size")
}

func TestModel_ReloadedViewRefreshesContent(t *testing.T) {
	reloaded := make(chan string, 1)
	require.Nil(t, waitForReload(nil))
	reloaded <- "enter-known-size"
	require.Equal(t, ViewReloadedMsg{Name: "enter-known-size"}, waitForReload(reloaded)())

	h := newHarness(t, true, nil)
	h.model.reloaded = reloaded
	h.templates.Hold("enter-known-size")
	h.press(enterKey)
	require.False(t, h.model.contentReady)

	h.templates.Release("enter-known-size")
	_, cmd := h.model.Update(ViewReloadedMsg{Name: "enter-known-size"})
	require.NotNil(t, cmd, "keeps waiting for further edits")
	require.True(t, h.model.contentReady)
	require.Contains(t, h.screen(), "Enter your screen size")
}

func TestModel_ResizeRedrawsSurface(t *testing.T) {
	canvas := surface.NewCellCanvas(0, 0)
	h := newHarness(t, true, canvas)
	h.press(tabKey, enterKey, enterKey)
	require.Equal(t, calibration.StepEnterObjectSize, h.wiz.Step())

	h.model.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	cols, _ := canvas.Grid()
	require.Equal(t, 60, cols)
	first := strings.Split(h.model.surface, "\n")[0]
	require.NotEmpty(t, first)
}

func TestModel_ObjectStepKeepsControlsOnScreen(t *testing.T) {
	canvas := surface.NewCellCanvas(0, 0)
	h := newHarness(t, true, canvas)
	h.press(tabKey, enterKey) // measure it
	h.press(tabKey, enterKey) // compact disk
	require.Equal(t, calibration.StepEnterObjectSize, h.wiz.Step())

	_, rows := canvas.Grid()
	require.Greater(t, rows, testfixtures.TestTermHeight, "disk surface is taller than the terminal")

	screen := h.screen()
	lines := strings.Split(screen, "\n")
	require.LessOrEqual(t, len(lines), testfixtures.TestTermHeight)
	require.Contains(t, screen, "Next →")
	require.Contains(t, screen, "dismiss")
	require.Contains(t, screen, "Scale:")

	t.Run("tiny terminal drops the surface first", func(t *testing.T) {
		h.model.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
		screen := h.screen()
		require.Contains(t, screen, "Next →")
		require.NotContains(t, screen, "▀")
	})
}

func TestCropRows(t *testing.T) {
	s := "a\nb\nc\nd\ne"
	require.Equal(t, s, cropRows(s, 5))
	require.Equal(t, "b\nc\nd", cropRows(s, 3))
	require.Equal(t, "", cropRows(s, 0))
}

func TestModel_Hints(t *testing.T) {
	h := newHarness(t, true, nil)
	require.Contains(t, h.model.hints(calibration.StepAskIfKnown), "q")
	require.NotContains(t, h.model.hints(calibration.StepAskIfKnown), "back")
	require.Contains(t, h.model.hints(calibration.StepEnterKnownSize), "ctrl+c")
	require.Contains(t, h.model.hints(calibration.StepEnterObjectSize), "resize")
}
