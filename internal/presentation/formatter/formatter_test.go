package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/fatih/color"
	"github.com/penwyp/go-career-timeline/internal/core/model"
	"github.com/penwyp/go-career-timeline/internal/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// sampleTimeline is Jan..Jun 2024 with one ongoing, one closed and one
// future-dated entry, ten units per month
func sampleTimeline(t *testing.T, viewport float64) model.Timeline {
	t.Helper()
	set := model.RecordSet{
		Experiences: []model.WorkRecord{
			{Company: "Acme", Positions: []model.WorkPosition{{Title: "Engineer", StartDate: "2024-01"}}},
			{Company: "Globex", Positions: []model.WorkPosition{{Title: "Lead", StartDate: "2024-04", EndDate: strPtr("2025-01")}}},
		},
		Volunteering: []model.VolunteerRecord{
			{Organisation: "Code Club", Roles: []model.VolunteerRole{{Role: "Mentor", StartDate: "2024-02", EndDate: strPtr("2024-03")}}},
		},
	}
	tl, err := timeline.NewEngine().Compute(set, model.LayoutParams{
		Now:           time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		ColumnWidth:   10,
		ViewportWidth: viewport,
	})
	require.NoError(t, err)
	return tl
}

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		f, err := New(name, Options{})
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	f, err := New("", Options{})
	require.NoError(t, err)
	assert.IsType(t, &ChartFormatter{}, f)

	_, err = New("xml", Options{})
	assert.Error(t, err)
}

func TestChartFormatterFullWidth(t *testing.T) {
	withoutColor(t)
	tl := sampleTimeline(t, 0)

	var buf bytes.Buffer
	require.NoError(t, NewChartFormatter(Options{LabelWidth: 12}).Format(&buf, tl))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	gutter := strings.Repeat(" ", 12)
	assert.Equal(t, gutter+" │2024  ", lines[0])
	assert.Equal(t, gutter+" │JFMAMJ", lines[1])
	assert.Equal(t, "Globex · Le… │···███ » Jan 2025", lines[2])
	assert.Equal(t, "Code Club ·… │·██··┊", lines[3])
	assert.Equal(t, "Acme · Engi… │██████ ▸ present", lines[4])
	assert.Contains(t, lines[5], "showing Jan 2024 to Jun 2024 of 6 months, now Jun 2024")
}

func TestChartFormatterViewportWindow(t *testing.T) {
	withoutColor(t)
	tl := sampleTimeline(t, 30)
	require.Equal(t, 30.0, tl.ScrollOffset)

	var buf bytes.Buffer
	require.NoError(t, NewChartFormatter(Options{LabelWidth: 12}).Format(&buf, tl))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasSuffix(lines[1], "│AMJ"))
	assert.True(t, strings.HasSuffix(lines[3], "│··┊"))
	assert.Contains(t, lines[4], "│███ ▸ present")
	assert.Contains(t, lines[5], "showing Apr 2024 to Jun 2024 of 6 months")

	buf.Reset()
	require.NoError(t, NewChartFormatter(Options{LabelWidth: 12, FullWidth: true}).Format(&buf, tl))
	assert.Contains(t, buf.String(), "│JFMAMJ")
}

func TestChartFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewChartFormatter(Options{}).Format(&buf, model.Timeline{}))
	assert.Equal(t, "(empty timeline)\n", buf.String())
}

func TestYearAxis(t *testing.T) {
	cells := []model.MonthCell{
		{Year: 2023, Month: 10}, {Year: 2023, Month: 11},
		{Year: 2024, Month: 0, IsYearStart: true}, {Year: 2024, Month: 1},
		{Year: 2024, Month: 2}, {Year: 2024, Month: 3}, {Year: 2024, Month: 4},
		{Year: 2024, Month: 5}, {Year: 2024, Month: 6},
	}
	// 2024 would overlap 2023's label, so it is skipped
	assert.Equal(t, "2023     ", yearAxis(cells))
	assert.Equal(t, "2024   ", yearAxis(cells[2:]))
}

func TestParseHex(t *testing.T) {
	r, g, b, ok := parseHex("#8b5cf6")
	require.True(t, ok)
	assert.Equal(t, []int{0x8b, 0x5c, 0xf6}, []int{r, g, b})

	_, _, _, ok = parseHex("violet")
	assert.False(t, ok)
}

func TestTableFormatter(t *testing.T) {
	tl := sampleTimeline(t, 0)

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter().Format(&buf, tl))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "┌"))
	assert.Contains(t, out, "│ Category  │ Entity    │ Position │")
	assert.Contains(t, out, "Jan 2025 »")
	assert.Contains(t, out, "present")
	assert.Contains(t, out, string(timeline.NewColorAssigner().ColorFor("Acme", model.CategoryWork)))
	assert.Contains(t, out, "3 entries across 6 months (Jan 2024 to Jun 2024), scroll 55 of 60")
}

func TestSummaryFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryFormatter().Format(&buf, sampleTimeline(t, 0)))
	out := buf.String()

	assert.Contains(t, out, "Span:    Jan 2024 to Jun 2024 (6 months)")
	assert.Contains(t, out, "Current: Jun 2024 (scroll 55)")
	assert.Contains(t, out, "[work] 2 entries, 2 entities, 1 ongoing, 1 clamped, 9 months covered")
	assert.Contains(t, out, "[volunteer] 1 entries, 1 entities, 0 ongoing, 0 clamped, 2 months covered")
	assert.Contains(t, out, "  Acme    #8b5cf6")
	assert.Less(t, strings.Index(out, "[work]"), strings.Index(out, "[volunteer]"))
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter().Format(&buf, sampleTimeline(t, 0)))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "id", records[0][0])

	byEntity := map[string][]string{}
	for _, rec := range records[1:] {
		byEntity[rec[2]] = rec
	}

	acme := byEntity["Acme"]
	assert.Equal(t, []string{"work", "Acme", "Engineer", "2024-01-01", "", "true", "false", "0", "60"}, acme[1:10])

	globex := byEntity["Globex"]
	assert.Equal(t, "2025-01-01", globex[5])
	assert.Equal(t, "true", globex[7])
	assert.Equal(t, "30", globex[8])
	assert.Equal(t, "30", globex[9])
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestFormattersReportWriteErrors(t *testing.T) {
	tl := sampleTimeline(t, 0)
	for _, name := range Names() {
		f, err := New(name, Options{})
		require.NoError(t, err)
		assert.Error(t, f.Format(failingWriter{}, tl), name)
	}
}

func TestJSONFormatter(t *testing.T) {
	tl := sampleTimeline(t, 0)

	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, tl))
	assert.Contains(t, buf.String(), `"scroll_offset": 55`)

	var decoded model.Timeline
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Entries, 3)
	assert.Len(t, decoded.Grid, 6)
	assert.Equal(t, tl.CurrentMonth, decoded.CurrentMonth)
}
