package surface

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Default terminal cell size in device pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// Cells are drawn with half blocks: the upper block carries the top sample in
// its foreground and the bottom sample in its background.
const (
	upperHalf = "▀"
	lowerHalf = "▄"
	blank     = " "
)

// CellCanvas maps device pixels onto terminal cells. Each cell shows two
// samples, one per vertical half.
type CellCanvas struct {
	*ImageCanvas
	cellWidth  int
	cellHeight int
}

// NewCellCanvas creates a cell canvas. Non-positive cell dimensions use the
// defaults.
func NewCellCanvas(cellWidth, cellHeight int) *CellCanvas {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	return &CellCanvas{
		ImageCanvas: NewImageCanvas(0, 0),
		cellWidth:   cellWidth,
		cellHeight:  cellHeight,
	}
}

// CellSize returns the pixel size of one cell.
func (c *CellCanvas) CellSize() (int, int) {
	return c.cellWidth, c.cellHeight
}

// PixelWidth converts a width in cells to device pixels.
func (c *CellCanvas) PixelWidth(cols int) int {
	return cols * c.cellWidth
}

// Grid returns the number of columns and rows needed to show the canvas.
func (c *CellCanvas) Grid() (cols, rows int) {
	w, h := c.Size()
	return w / c.cellWidth, (h + c.cellHeight - 1) / c.cellHeight
}

// Render returns the canvas as styled terminal lines.
func (c *CellCanvas) Render() string {
	cols, rows := c.Grid()
	if cols == 0 || rows == 0 {
		return ""
	}

	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var b strings.Builder
		y0 := row * c.cellHeight
		topY := y0 + c.cellHeight/4
		bottomY := y0 + (3*c.cellHeight)/4

		// Adjacent cells with equal samples share one styled run
		var run strings.Builder
		var runTop, runBottom color.RGBA
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(cellStyle(runTop, runBottom).Render(run.String()))
			run.Reset()
		}

		for col := 0; col < cols; col++ {
			x := col*c.cellWidth + c.cellWidth/2
			top := c.img.RGBAAt(x, topY)
			bottom := c.img.RGBAAt(x, bottomY)
			if run.Len() > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			run.WriteString(cellGlyph(top, bottom))
		}
		flush()
		lines[row] = b.String()
	}
	return strings.Join(lines, "\n")
}

// cellGlyph picks the block that shows the opaque halves of a cell.
// Transparent samples are left to the terminal background.
func cellGlyph(top, bottom color.RGBA) string {
	switch {
	case top.A == 0 && bottom.A == 0:
		return blank
	case top.A == 0:
		return lowerHalf
	default:
		return upperHalf
	}
}

func cellStyle(top, bottom color.RGBA) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch {
	case top.A == 0 && bottom.A == 0:
	case top.A == 0:
		s = s.Foreground(bottom)
	case bottom.A == 0:
		s = s.Foreground(top)
	default:
		s = s.Foreground(top).Background(bottom)
	}
	return s
}
