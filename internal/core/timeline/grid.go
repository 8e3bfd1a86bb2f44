package timeline

import (
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
)

// BuildMonthGrid returns the gap-free month cells from the earliest entry start
// through now's month inclusive. The grid never extends past now's month, and
// always contains it, even when entries are empty or start in the future.
func BuildMonthGrid(entries []model.TimelineEntry, now time.Time) []model.MonthCell {
	current := util.MonthStart(now)

	earliest := current
	for _, e := range entries {
		if e.StartDate.IsZero() {
			continue
		}
		if start := util.MonthStart(e.StartDate); start.Before(earliest) {
			earliest = start
		}
	}

	count := util.MonthsBetween(earliest, current) + 1
	grid := make([]model.MonthCell, count)
	for i := range grid {
		m := util.AddMonths(earliest, i)
		grid[i] = model.MonthCell{
			Year:        m.Year(),
			Month:       int(m.Month()) - 1,
			Index:       i,
			IsYearStart: m.Month() == time.January,
		}
	}

	util.LogDebugf("Built month grid %s..%s (%d cells)", grid[0].Label(), grid[len(grid)-1].Label(), len(grid))
	return grid
}

// YearBoundaries returns the indexes of cells that start a calendar year
func YearBoundaries(grid []model.MonthCell) []int {
	var idx []int
	for _, c := range grid {
		if c.IsYearStart {
			idx = append(idx, c.Index)
		}
	}
	return idx
}
