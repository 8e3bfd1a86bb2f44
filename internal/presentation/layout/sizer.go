package layout

import (
	"os"

	"github.com/penwyp/go-career-timeline/internal/util"
	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chartMargin   = 3 // separator plus a trailing space
)

// Sizer turns terminal dimensions into timeline viewport geometry. One
// terminal column shows one month cell.
type Sizer struct {
	Width    int
	Height   int
	strategy LayoutStrategy
}

// NewSizer creates a sizer for fixed dimensions
func NewSizer(width, height int) *Sizer {
	return &Sizer{
		Width:    width,
		Height:   height,
		strategy: GetLayoutStrategy(width),
	}
}

// DetectSizer reads the dimensions of the terminal on stdout, falling back
// to 80x24 when stdout is not a terminal
func DetectSizer() *Sizer {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return NewSizer(defaultWidth, defaultHeight)
	}
	width, height, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		util.LogDebugf("Failed to read terminal size, using %dx%d: %v", defaultWidth, defaultHeight, err)
		return NewSizer(defaultWidth, defaultHeight)
	}
	return NewSizer(width, height)
}

// WithStrategy forces a layout strategy regardless of width
func (s *Sizer) WithStrategy(strategy LayoutStrategy) *Sizer {
	if strategy != nil {
		s.strategy = strategy
	}
	return s
}

// Strategy returns the active layout strategy
func (s *Sizer) Strategy() LayoutStrategy {
	return s.strategy
}

// LabelWidth is the label gutter, shrunk on very narrow terminals
func (s *Sizer) LabelWidth() int {
	label := s.strategy.LabelWidth()
	if limit := s.Width / 2; label > limit {
		label = limit
	}
	if label < 1 {
		label = 1
	}
	return label
}

// ChartColumns is the number of month cells visible at once
func (s *Sizer) ChartColumns() int {
	cols := s.Width - s.LabelWidth() - chartMargin
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Viewport returns the column width and viewport width in layout units
func (s *Sizer) Viewport() (columnWidth, viewportWidth float64) {
	columnWidth = s.strategy.ColumnWidth()
	viewportWidth = float64(s.ChartColumns()) * columnWidth
	util.LogDebugf("Viewport %s: %d columns, column=%.0f viewport=%.0f",
		s.strategy.GetName(), s.ChartColumns(), columnWidth, viewportWidth)
	return columnWidth, viewportWidth
}

// ResolveViewport fills zero widths from the sizer. Explicit widths win.
func ResolveViewport(columnWidth, viewportWidth float64, sizer *Sizer) (float64, float64) {
	cw, vw := sizer.Viewport()
	if columnWidth > 0 {
		cw = columnWidth
		vw = float64(sizer.ChartColumns()) * cw
	}
	if viewportWidth > 0 {
		vw = viewportWidth
	}
	return cw, vw
}
