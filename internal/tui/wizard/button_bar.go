package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/screencal/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling and tracks
// which one has focus.
type ButtonBar struct {
	buttons []Button
	focused int // -1 when no button has focus
	width   int
}

// NewButtonBar creates a new button bar with the given buttons. A button
// created in the focused state receives focus.
func NewButtonBar(buttons []Button) *ButtonBar {
	b := &ButtonBar{
		buttons: buttons,
		focused: -1,
		width:   60,
	}
	for i, btn := range buttons {
		if btn.State == ButtonFocused {
			b.focused = i
			break
		}
	}
	return b
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Len returns the number of buttons.
func (b *ButtonBar) Len() int {
	return len(b.buttons)
}

// Focused returns the index of the focused button, or -1.
func (b *ButtonBar) Focused() int {
	return b.focused
}

// FocusedLabel returns the label of the focused button.
func (b *ButtonBar) FocusedLabel() string {
	if b.focused < 0 || b.focused >= len(b.buttons) {
		return ""
	}
	return b.buttons[b.focused].Label
}

// Focus moves focus to button i if it is enabled.
func (b *ButtonBar) Focus(i int) bool {
	if i < 0 || i >= len(b.buttons) || b.buttons[i].State == ButtonDisabled {
		return false
	}
	if b.focused >= 0 {
		b.buttons[b.focused].State = ButtonNormal
	}
	b.focused = i
	b.buttons[i].State = ButtonFocused
	return true
}

// FocusNext moves focus to the next enabled button (wraps around).
func (b *ButtonBar) FocusNext() {
	b.cycle(1)
}

// FocusPrev moves focus to the previous enabled button (wraps around).
func (b *ButtonBar) FocusPrev() {
	b.cycle(-1)
}

func (b *ButtonBar) cycle(dir int) {
	n := len(b.buttons)
	if n == 0 {
		return
	}
	start := b.focused
	if start < 0 {
		start = -dir
		if dir < 0 {
			start = n
		}
	}
	for step := 1; step <= n; step++ {
		i := ((start+dir*step)%n + n) % n
		if b.Focus(i) {
			return
		}
	}
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()

	var renderedButtons []string
	for _, btn := range b.buttons {
		var rendered string
		switch btn.State {
		case ButtonDisabled:
			rendered = s.ButtonDisabled.Render(btn.Label)
		case ButtonFocused:
			rendered = s.ButtonFocused.Render(btn.Label)
		default: // ButtonNormal
			rendered = s.ButtonNormal.Render(btn.Label)
		}
		renderedButtons = append(renderedButtons, rendered)
	}

	result := strings.Join(renderedButtons, "")

	// Center the button bar
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, result)
}
