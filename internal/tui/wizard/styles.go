package wizard

import (
	"strings"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/tui/theme"
)

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("←→", "resize", "enter", "select", "esc", "back")
// Returns: "←→ resize • enter select • esc back"
func renderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			result.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		result.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return result.String()
}

// renderPhases renders the three stage indicator, highlighting the stage of
// the current step.
func renderPhases(current calibration.Phase) string {
	s := theme.Current().S()
	parts := make([]string, 0, len(calibration.Phases))
	for _, p := range calibration.Phases {
		switch {
		case p == current:
			parts = append(parts, s.PhaseActive.Render(p.String()))
		case p < current:
			parts = append(parts, s.PhaseDone.Render("✓ "+p.String()))
		default:
			parts = append(parts, s.PhasePending.Render(p.String()))
		}
	}
	return strings.Join(parts, s.PhaseSeparator.Render("›"))
}

// renderSlider draws the scale ratio as a bar of the given width.
func renderSlider(ratio float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(ratio*float64(width) + 0.5)
	filled = max(0, min(width, filled))

	s := theme.Current().S()
	bar := s.Spinner.Render(strings.Repeat("━", filled)) +
		s.Muted.Render(strings.Repeat("─", width-filled))
	return bar + " " + calibration.FormatRatio(ratio)
}
