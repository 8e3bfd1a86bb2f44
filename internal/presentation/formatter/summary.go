package formatter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// SummaryFormatter prints per-category totals and the entity color legend
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type categoryStats struct {
	entries  int
	ongoing  int
	clamped  int
	months   int
	entities map[string]model.ColorToken
}

func (f *SummaryFormatter) Format(w io.Writer, tl model.Timeline) error {
	stats := map[model.Category]*categoryStats{}
	for _, pe := range tl.Entries {
		cs, ok := stats[pe.Entry.Category]
		if !ok {
			cs = &categoryStats{entities: make(map[string]model.ColorToken)}
			stats[pe.Entry.Category] = cs
		}
		cs.entries++
		if pe.IsOngoing {
			cs.ongoing++
		}
		if pe.EndClamped {
			cs.clamped++
		}
		if tl.ColumnWidth > 0 {
			cs.months += int(pe.Rect.WidthPx/tl.ColumnWidth + 0.5)
		}
		cs.entities[pe.Entry.EntityName] = pe.Color
	}

	var b strings.Builder
	b.WriteString("=== Timeline Summary ===\n")
	if len(tl.Grid) > 0 {
		fmt.Fprintf(&b, "Span:    %s to %s (%d months)\n",
			tl.Grid[0].Label(), tl.Grid[len(tl.Grid)-1].Label(), len(tl.Grid))
	}
	if tl.CurrentMonth >= 0 && tl.CurrentMonth < len(tl.Grid) {
		fmt.Fprintf(&b, "Current: %s (scroll %s)\n", tl.Grid[tl.CurrentMonth].Label(), formatPx(tl.ScrollOffset))
	}
	fmt.Fprintf(&b, "Entries: %d\n", len(tl.Entries))

	for _, cat := range []model.Category{model.CategoryWork, model.CategoryVolunteer} {
		cs, ok := stats[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n[%s] %d entries, %d entities, %d ongoing, %d clamped, %d months covered\n",
			cat, cs.entries, len(cs.entities), cs.ongoing, cs.clamped, cs.months)

		names := make([]string, 0, len(cs.entities))
		for name := range cs.entities {
			names = append(names, name)
		}
		sort.Strings(names)

		width := 0
		for _, name := range names {
			if w := util.GetDisplayWidth(name); w > width {
				width = w
			}
		}
		for _, name := range names {
			fmt.Fprintf(&b, "  %s  %s\n", util.PadString(name, width, true), cs.entities[name])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
