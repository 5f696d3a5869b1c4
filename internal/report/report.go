// Package report prints calibration results on the console.
package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/colorprofile"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/tui/theme"
)

// formatterFor maps a terminal color profile to a chroma formatter name.
// An empty name means no highlighting.
func formatterFor(p colorprofile.Profile) string {
	switch p {
	case colorprofile.TrueColor:
		return "terminal16m"
	case colorprofile.ANSI256:
		return "terminal256"
	case colorprofile.ANSI:
		return "terminal16"
	default:
		return ""
	}
}

// HighlightJSON colors JSON for the given profile. Profiles without color
// and highlighting failures return the source unchanged.
func HighlightJSON(source string, p colorprofile.Profile) string {
	name := formatterFor(p)
	if name == "" {
		return source
	}
	formatter := formatters.Get(name)
	if formatter == nil {
		return source
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	baseStyle := styles.Get("catppuccin-mocha")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Drop token backgrounds so output sits on the terminal's own background
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = 0
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}

// WriteJSON writes the result as indented JSON, highlighted for p.
func WriteJSON(w io.Writer, r calibration.Result, p colorprofile.Profile) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, HighlightJSON(string(data), p))
	return err
}

// Summary renders a short human readable table of the result.
func Summary(r calibration.Result) string {
	s := theme.Current().S()

	label := func(text string) string {
		return s.HintKey.Render(fmt.Sprintf("%-18s", text))
	}

	ppi, ppiOK := deref(r.PixelsPerInch)
	ppd, ppdOK := deref(r.PixelsPerDegree)
	rows := []string{
		label("Status") + r.Status.String(),
		label("Diagonal") + calibration.FormatInches(deref(r.DiagonalSize)),
		label("Diagonal (px)") + fmt.Sprintf("%.2f", r.DiagonalSizeInPx),
		label("Pixels per inch") + calibration.FormatValue(ppi, ppiOK, "ppi"),
		label("Pixels per degree") + calibration.FormatValue(ppd, ppdOK, "ppd"),
	}
	if r.DistanceFromScreenInCm != nil {
		rows = append(rows, label("Distance")+fmt.Sprintf("%.0f cm", *r.DistanceFromScreenInCm))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// ConsoleSink returns a completion callback that prints the summary and the
// JSON to w.
func ConsoleSink(w io.Writer, p colorprofile.Profile) func(calibration.Result) {
	return func(r calibration.Result) {
		_, _ = fmt.Fprintln(w, Summary(r))
		_, _ = fmt.Fprintln(w)
		_ = WriteJSON(w, r, p)
	}
}
