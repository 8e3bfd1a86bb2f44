package timeline

import (
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func workEntry(name string, start time.Time, end *time.Time) model.TimelineEntry {
	return model.TimelineEntry{
		ID:            name + "-" + start.Format("2006-01"),
		Category:      model.CategoryWork,
		EntityName:    name,
		PositionTitle: "Engineer",
		StartDate:     start,
		EndDate:       end,
	}
}

// gridFor builds a contiguous grid of count cells starting at first
func gridFor(first time.Time, count int) []model.MonthCell {
	grid := make([]model.MonthCell, count)
	for i := range grid {
		m := first.AddDate(0, i, 0)
		grid[i] = model.MonthCell{Year: m.Year(), Month: int(m.Month()) - 1, Index: i, IsYearStart: m.Month() == time.January}
	}
	return grid
}
