package timeline

import (
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

// PositionMapper converts calendar dates to horizontal pixel offsets on a month grid
type PositionMapper struct {
	cells          map[int]int // year*12+month -> cell index
	firstKey       int
	count          int
	columnWidth    float64
	leadingPadding float64
}

// NewPositionMapper creates a mapper for grid. columnWidth is the only
// environment-dependent input: wider on desktop, narrower on compact viewports.
func NewPositionMapper(grid []model.MonthCell, columnWidth, leadingPadding float64) *PositionMapper {
	pm := &PositionMapper{
		cells:          make(map[int]int, len(grid)),
		count:          len(grid),
		columnWidth:    columnWidth,
		leadingPadding: leadingPadding,
	}
	for _, c := range grid {
		pm.cells[c.Year*12+c.Month] = c.Index
	}
	if len(grid) > 0 {
		pm.firstKey = grid[0].Year*12 + grid[0].Month
	}
	return pm
}

func monthKey(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}

// IndexOf returns the index of the cell matching date's month
func (pm *PositionMapper) IndexOf(date time.Time) (int, bool) {
	idx, ok := pm.cells[monthKey(date)]
	return idx, ok
}

// ClampedIndex returns the matching cell index, or the nearest boundary cell
// when date falls outside the grid
func (pm *PositionMapper) ClampedIndex(date time.Time) int {
	if idx, ok := pm.IndexOf(date); ok {
		return idx
	}
	if pm.count == 0 || monthKey(date) < pm.firstKey {
		return 0
	}
	return pm.count - 1
}

// Position returns the left offset of date's month cell
func (pm *PositionMapper) Position(date time.Time) float64 {
	return pm.PositionOfIndex(pm.ClampedIndex(date))
}

// PositionOfIndex returns the left offset of the cell at index
func (pm *PositionMapper) PositionOfIndex(index int) float64 {
	return float64(index)*pm.columnWidth + pm.leadingPadding
}

func (pm *PositionMapper) ColumnWidth() float64 {
	return pm.columnWidth
}

// Len returns the number of cells in the grid
func (pm *PositionMapper) Len() int {
	return pm.count
}

// ContentWidth is the full scrollable width, padding on both sides
func (pm *PositionMapper) ContentWidth() float64 {
	return float64(pm.count)*pm.columnWidth + 2*pm.leadingPadding
}
