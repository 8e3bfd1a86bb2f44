package timeline

import (
	"testing"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertGapFree(t *testing.T, grid []model.MonthCell) {
	t.Helper()
	for i := 1; i < len(grid); i++ {
		prev, cur := grid[i-1], grid[i]
		assert.Equal(t, 1, util.MonthsBetween(prev.Start(), cur.Start()), "gap between %s and %s", prev.Label(), cur.Label())
		assert.Equal(t, i, cur.Index)
	}
}

func assertContainsMonth(t *testing.T, grid []model.MonthCell, now time.Time) {
	t.Helper()
	for _, c := range grid {
		if util.SameMonth(c.Start(), now) {
			return
		}
	}
	t.Errorf("grid does not contain %s", now.Format("2006-01"))
}

func TestBuildMonthGridProperties(t *testing.T) {
	tests := []struct {
		name    string
		entries []model.TimelineEntry
		now     time.Time
		want    int
	}{
		{
			name: "empty",
			now:  date(2025, time.January, 9),
			want: 1,
		},
		{
			name:    "all ended in the past",
			entries: []model.TimelineEntry{workEntry("Old", date(2018, time.March, 1), datePtr(2018, time.May, 1))},
			now:     date(2019, time.February, 1),
			want:    12,
		},
		{
			name:    "start after now is clamped",
			entries: []model.TimelineEntry{workEntry("Future", date(2027, time.January, 1), nil)},
			now:     date(2026, time.October, 18),
			want:    1,
		},
		{
			name:    "future end does not extend grid",
			entries: []model.TimelineEntry{workEntry("Acme", date(2024, time.January, 1), datePtr(2030, time.January, 1))},
			now:     date(2024, time.June, 30),
			want:    6,
		},
		{
			name: "spans years",
			entries: []model.TimelineEntry{
				workEntry("A", date(2022, time.November, 20), datePtr(2023, time.February, 1)),
				workEntry("B", date(2023, time.May, 1), nil),
			},
			now:  date(2024, time.January, 2),
			want: 15,
		},
		{
			name:    "zero start ignored",
			entries: []model.TimelineEntry{{EntityName: "Zero"}},
			now:     date(2024, time.March, 1),
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := BuildMonthGrid(tt.entries, tt.now)
			require.Len(t, grid, tt.want)
			assertGapFree(t, grid)
			assertContainsMonth(t, grid, tt.now)
			assert.True(t, util.SameMonth(grid[len(grid)-1].Start(), tt.now), "last cell must be now's month")
		})
	}
}

func TestBuildMonthGridClosedRangeScenario(t *testing.T) {
	entries := []model.TimelineEntry{workEntry("Acme", date(2023, time.January, 1), datePtr(2023, time.March, 1))}

	grid := BuildMonthGrid(entries, date(2023, time.June, 15))

	require.Len(t, grid, 6)
	assert.Equal(t, model.MonthCell{Year: 2023, Month: 0, Index: 0, IsYearStart: true}, grid[0])
	assert.Equal(t, model.MonthCell{Year: 2023, Month: 5, Index: 5}, grid[5])
}

func TestBuildMonthGridEmptyScenario(t *testing.T) {
	grid := BuildMonthGrid(nil, date(2025, time.January, 1))

	require.Len(t, grid, 1)
	assert.Equal(t, 2025, grid[0].Year)
	assert.Equal(t, 0, grid[0].Month)
	assert.True(t, grid[0].IsYearStart)
}

func TestBuildMonthGridYearBoundaries(t *testing.T) {
	entries := []model.TimelineEntry{workEntry("A", date(2021, time.October, 1), nil)}
	grid := BuildMonthGrid(entries, date(2023, time.February, 1))

	boundaries := YearBoundaries(grid)
	require.Len(t, boundaries, 2)
	assert.Equal(t, 2022, grid[boundaries[0]].Year)
	assert.Equal(t, 2023, grid[boundaries[1]].Year)
	for _, idx := range boundaries {
		assert.Equal(t, 0, grid[idx].Month)
	}
}

func TestBuildMonthGridNowInOtherTimezone(t *testing.T) {
	// Late on May 31 in UTC-5 is June in UTC; the caller's calendar month wins.
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2024, time.May, 31, 22, 0, 0, 0, loc)

	grid := BuildMonthGrid(nil, now)
	require.Len(t, grid, 1)
	assert.Equal(t, 4, grid[0].Month)
}
