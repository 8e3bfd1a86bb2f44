package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Category", "Entity", "Position", "Start", "End",
			"Left (px)", "Width (px)", "Color",
		},
	}
}

func (f *TableFormatter) Format(w io.Writer, tl model.Timeline) error {
	rows := make([][]string, 0, len(tl.Entries))
	for _, pe := range tl.Entries {
		end := formatEnd(pe)
		if pe.EndClamped {
			end += " »"
		}
		rows = append(rows, []string{
			string(pe.Entry.Category),
			pe.Entry.EntityName,
			pe.Entry.PositionTitle,
			formatMonth(pe.Entry.StartDate),
			end,
			formatPx(pe.Rect.LeftPx),
			formatPx(pe.Rect.WidthPx),
			string(pe.Color),
		})
	}

	widths := f.calculateColumnWidths(rows)
	tw := &tableWriter{w: w}

	tw.printBorder(widths, "top")
	tw.printRow(f.headers, widths)
	tw.printBorder(widths, "middle")
	for _, row := range rows {
		tw.printRow(row, widths)
	}
	tw.printBorder(widths, "bottom")

	if len(tl.Grid) > 0 {
		tw.printf("%d entries across %d months (%s to %s), scroll %s of %s\n",
			len(tl.Entries), len(tl.Grid),
			tl.Grid[0].Label(), tl.Grid[len(tl.Grid)-1].Label(),
			formatPx(tl.ScrollOffset), formatPx(tl.ContentWidth))
	}
	return tw.err
}

// calculateColumnWidths determines the display width of each column
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// tableWriter keeps the first write error so rows can be printed unchecked
type tableWriter struct {
	w   io.Writer
	err error
}

func (tw *tableWriter) printf(format string, args ...interface{}) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// printBorder prints table borders (top, middle, bottom)
func (tw *tableWriter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("─", width+2)
	}
	tw.printf("%s%s%s\n", left, strings.Join(parts, middle), right)
}

// printRow prints a row; pixel columns are right-aligned
func (tw *tableWriter) printRow(values []string, widths []int) {
	var b strings.Builder
	b.WriteString("│")
	for i, value := range values {
		leftAlign := i != 5 && i != 6
		b.WriteString(" ")
		b.WriteString(util.PadString(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	tw.printf("%s\n", b.String())
}

func formatPx(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
