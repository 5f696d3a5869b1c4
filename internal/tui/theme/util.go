package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// InterpolateColor blends between two hex colors based on position (0.0 to 1.0).
// The blend runs in Lab space so mid points keep their brightness.
func InterpolateColor(colorA, colorB string, pos float64) string {
	a, err := colorful.Hex(colorA)
	if err != nil {
		return colorB
	}
	b, err := colorful.Hex(colorB)
	if err != nil {
		return colorA
	}
	pos = max(0, min(1, pos))
	return a.BlendLab(b, pos).Clamped().Hex()
}

// ApplyGradient colors each rune of text along a gradient from colorA to colorB.
// Multi-line text uses the same gradient on every line.
func ApplyGradient(text, colorA, colorB string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		runes := []rune(line)
		var b strings.Builder
		for j, r := range runes {
			if r == ' ' {
				b.WriteRune(r)
				continue
			}
			pos := 0.0
			if len(runes) > 1 {
				pos = float64(j) / float64(len(runes)-1)
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(InterpolateColor(colorA, colorB, pos)))
			b.WriteString(style.Render(string(r)))
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
