package formatter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

const (
	defaultLabelWidth = 24
	barCell           = "█"
	emptyCell         = "·"
	nowCell           = "┊"
	monthInitials     = "JFMAMJJASOND"
)

// ChartFormatter draws a Gantt-style chart, one terminal column per month.
// Only the scrolled viewport is drawn unless FullWidth is set.
type ChartFormatter struct {
	opts   Options
	colors map[model.ColorToken]*color.Color
}

func NewChartFormatter(opts Options) *ChartFormatter {
	if opts.LabelWidth <= 0 {
		opts.LabelWidth = defaultLabelWidth
	}
	return &ChartFormatter{
		opts:   opts,
		colors: make(map[model.ColorToken]*color.Color),
	}
}

func (f *ChartFormatter) Format(w io.Writer, tl model.Timeline) error {
	var b strings.Builder
	if len(tl.Grid) == 0 {
		b.WriteString("(empty timeline)\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	first, count := f.window(tl)
	cells := tl.Grid[first : first+count]
	gutter := strings.Repeat(" ", f.opts.LabelWidth)

	fmt.Fprintf(&b, "%s │%s\n", gutter, yearAxis(cells))
	fmt.Fprintf(&b, "%s │%s\n", gutter, monthAxis(cells))

	for _, pe := range tl.Entries {
		label := util.PadString(util.TruncateString(entryLabel(pe), f.opts.LabelWidth), f.opts.LabelWidth, true)
		fmt.Fprintf(&b, "%s │%s%s\n", label, f.bar(tl, pe, first, count), entrySuffix(pe))
	}

	fmt.Fprintf(&b, "%s └ showing %s to %s of %d months, now %s\n",
		gutter, cells[0].Label(), cells[len(cells)-1].Label(), len(tl.Grid), currentLabel(tl))

	_, err := io.WriteString(w, b.String())
	return err
}

// window returns the first visible cell and the number of visible cells
func (f *ChartFormatter) window(tl model.Timeline) (int, int) {
	n := len(tl.Grid)
	if f.opts.FullWidth || tl.ViewportWidth <= 0 || tl.ColumnWidth <= 0 {
		return 0, n
	}

	count := int(tl.ViewportWidth / tl.ColumnWidth)
	if count < 1 {
		count = 1
	}
	if count >= n {
		return 0, n
	}

	first := int(math.Floor((tl.ScrollOffset - tl.LeadingPadding) / tl.ColumnWidth))
	if first < 0 {
		first = 0
	}
	if first+count > n {
		first = n - count
	}
	return first, count
}

func (f *ChartFormatter) bar(tl model.Timeline, pe model.PlacedEntry, first, count int) string {
	start, span := 0, 1
	if tl.ColumnWidth > 0 {
		start = int(math.Round((pe.Rect.LeftPx - tl.LeadingPadding) / tl.ColumnWidth))
		span = int(math.Round(pe.Rect.WidthPx / tl.ColumnWidth))
	}
	if span < 1 {
		span = 1
	}
	end := start + span - 1

	var b strings.Builder
	c := f.colorFor(pe.Color)
	for col := first; col < first+count; {
		if col >= start && col <= end {
			run := end - col + 1
			if col+run > first+count {
				run = first + count - col
			}
			b.WriteString(c.Sprint(strings.Repeat(barCell, run)))
			col += run
			continue
		}
		if col == tl.CurrentMonth {
			b.WriteString(nowCell)
		} else {
			b.WriteString(emptyCell)
		}
		col++
	}
	return b.String()
}

func (f *ChartFormatter) colorFor(token model.ColorToken) *color.Color {
	if c, ok := f.colors[token]; ok {
		return c
	}
	c := color.New(color.FgWhite)
	if r, g, bl, ok := parseHex(string(token)); ok {
		c = color.RGB(r, g, bl)
	}
	f.colors[token] = c
	return c
}

func parseHex(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

// yearAxis writes each year at its January column, and at the first column
func yearAxis(cells []model.MonthCell) string {
	axis := []rune(strings.Repeat(" ", len(cells)))
	next := 0
	for i, cell := range cells {
		if !cell.IsYearStart && i != 0 {
			continue
		}
		if i < next {
			continue
		}
		for j, r := range strconv.Itoa(cell.Year) {
			if i+j >= len(axis) {
				break
			}
			axis[i+j] = r
		}
		next = i + 5
	}
	return string(axis)
}

func monthAxis(cells []model.MonthCell) string {
	var b strings.Builder
	for _, cell := range cells {
		b.WriteByte(monthInitials[cell.Month])
	}
	return b.String()
}

func entrySuffix(pe model.PlacedEntry) string {
	switch {
	case pe.IsOngoing:
		return " ▸ present"
	case pe.EndClamped:
		return " » " + formatEnd(pe)
	default:
		return ""
	}
}

func currentLabel(tl model.Timeline) string {
	if tl.CurrentMonth >= 0 && tl.CurrentMonth < len(tl.Grid) {
		return tl.Grid[tl.CurrentMonth].Label()
	}
	return "unknown"
}
