package timeline

import (
	"math"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// LayoutEngine computes bar geometry for entries against a month grid
type LayoutEngine struct {
	mapper            *PositionMapper
	currentMonthStart time.Time
}

// NewLayoutEngine creates a layout engine that clamps every range to now's month
func NewLayoutEngine(mapper *PositionMapper, now time.Time) *LayoutEngine {
	return &LayoutEngine{
		mapper:            mapper,
		currentMonthStart: util.MonthStart(now),
	}
}

// EffectiveEnd returns the date that participates in layout in place of the
// raw end date, and whether a future end date was cut back to now's month.
func (le *LayoutEngine) EffectiveEnd(entry model.TimelineEntry) (time.Time, bool) {
	if entry.EndDate == nil {
		return le.currentMonthStart, false
	}
	end := *entry.EndDate
	if end.After(le.currentMonthStart) {
		return le.currentMonthStart, util.MonthStart(end).After(le.currentMonthStart)
	}
	return end, false
}

// Layout returns the bar for one entry and whether its end was clamped.
// A zero start date or an end before the start yields a minimum-width bar
// anchored at the start position.
func (le *LayoutEngine) Layout(entry model.TimelineEntry) (model.LayoutRect, bool) {
	cw := le.mapper.ColumnWidth()
	startPos := le.mapper.Position(entry.StartDate)

	if entry.StartDate.IsZero() {
		util.LogWarn("Entry has no start date, using minimum-width bar",
			util.F("id", entry.ID), util.F("entity", entry.EntityName))
		return model.LayoutRect{LeftPx: startPos, WidthPx: cw}, false
	}

	effectiveEnd, clamped := le.EffectiveEnd(entry)
	if effectiveEnd.Before(util.MonthStart(entry.StartDate)) {
		util.LogDebug("Entry ends before it starts, using minimum-width bar",
			util.F("id", entry.ID), util.F("entity", entry.EntityName))
		return model.LayoutRect{LeftPx: startPos, WidthPx: cw}, clamped
	}

	endPos := le.mapper.Position(effectiveEnd)
	width := math.Max(endPos-startPos+cw, cw)
	return model.LayoutRect{LeftPx: startPos, WidthPx: width}, clamped
}

// LayoutAll places every entry, keeping input order. Colors come from colors.
func (le *LayoutEngine) LayoutAll(entries []model.TimelineEntry, colors *ColorAssigner) []model.PlacedEntry {
	placed := make([]model.PlacedEntry, 0, len(entries))
	clampedCount := 0

	for _, e := range entries {
		rect, clamped := le.Layout(e)
		if clamped {
			clampedCount++
		}
		placed = append(placed, model.PlacedEntry{
			Entry:      e,
			Rect:       rect,
			Color:      colors.ColorFor(e.EntityName, e.Category),
			IsOngoing:  e.IsOngoing(),
			EndClamped: clamped,
		})
	}

	if clampedCount > 0 {
		util.LogDebugf("Clamped %d future end dates to %s", clampedCount, le.currentMonthStart.Format("2006-01"))
	}
	return placed
}
