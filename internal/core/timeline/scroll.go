package timeline

import (
	"math"
	"time"

	"github.com/penwyp/go-career-timeline/internal/util"
)

// PlanScroll returns the initial horizontal scroll offset that centers now's
// month cell in a viewport of viewportWidth, clamped to [0, maxScroll].
// If now's month is missing from the grid it scrolls to the right edge.
func PlanScroll(mapper *PositionMapper, now time.Time, viewportWidth float64) float64 {
	maxScroll := MaxScroll(mapper, viewportWidth)

	idx, ok := mapper.IndexOf(now)
	if !ok {
		util.LogWarnf("Current month %s not in grid, scrolling to the end", now.Format("2006-01"))
		return maxScroll
	}

	target := mapper.PositionOfIndex(idx) - viewportWidth/2 + mapper.ColumnWidth()/2
	return math.Min(math.Max(target, 0), maxScroll)
}

// MaxScroll is how far content can scroll in a viewport of viewportWidth
func MaxScroll(mapper *PositionMapper, viewportWidth float64) float64 {
	return math.Max(mapper.ContentWidth()-viewportWidth, 0)
}
