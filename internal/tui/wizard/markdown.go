package wizard

import (
	"strings"

	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
)

// renderMarkdown renders markdown content using glamour.
// Falls back to the raw text if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 100 for readability
	if width > 100 {
		width = 100
	}
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(content)
	}

	return strings.Trim(rendered, "\n")
}

// markdownCache keeps the last rendered body so View does not re-run glamour
// on every frame.
type markdownCache struct {
	source string
	width  int
	out    string
}

func (c *markdownCache) render(content string, width int) string {
	if c.out != "" && c.source == content && c.width == width {
		return c.out
	}
	c.source, c.width = content, width
	c.out = renderMarkdown(content, width)
	return c.out
}
