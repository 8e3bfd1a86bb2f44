package model

import (
	"fmt"
	"strings"
	"time"
)

// Category distinguishes paid work from volunteer engagements
type Category string

const (
	CategoryWork      Category = "work"
	CategoryVolunteer Category = "volunteer"
)

// ParseCategory accepts "work" or "volunteer" (any case, with common aliases)
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "experience", "experiences":
		return CategoryWork, nil
	case "volunteer", "volunteering":
		return CategoryVolunteer, nil
	default:
		return "", fmt.Errorf("unknown category %q (want work or volunteer)", s)
	}
}

// TimelineEntry is one role at one entity over one date range.
// Entries are values; nothing mutates them after normalization.
type TimelineEntry struct {
	ID            string     `json:"id"`
	Category      Category   `json:"category"`
	EntityName    string     `json:"entity_name"`
	LogoRef       string     `json:"logo_ref,omitempty"`
	PositionTitle string     `json:"position_title"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"` // nil means ongoing
	Description   string     `json:"description,omitempty"`
	Technologies  []string   `json:"technologies,omitempty"`
}

// IsOngoing reports whether the entry has no end date
func (e TimelineEntry) IsOngoing() bool {
	return e.EndDate == nil
}

// MonthCell is one column of the month grid
type MonthCell struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"` // 0-11
	Index       int  `json:"index"`
	IsYearStart bool `json:"is_year_start"`
}

// Start returns the first day of the cell's month in UTC
func (c MonthCell) Start() time.Time {
	return time.Date(c.Year, time.Month(c.Month+1), 1, 0, 0, 0, 0, time.UTC)
}

// Label returns a short "Jan 2006" style label
func (c MonthCell) Label() string {
	return c.Start().Format("Jan 2006")
}

// LayoutRect is the horizontal geometry of one bar
type LayoutRect struct {
	LeftPx  float64 `json:"left_px"`
	WidthPx float64 `json:"width_px"`
}

// Right returns the bar's right edge
func (r LayoutRect) Right() float64 {
	return r.LeftPx + r.WidthPx
}

// ColorToken is a palette entry
type ColorToken string

// PlacedEntry is an entry with its derived geometry and color
type PlacedEntry struct {
	Entry      TimelineEntry `json:"entry"`
	Rect       LayoutRect    `json:"rect"`
	Color      ColorToken    `json:"color"`
	IsOngoing  bool          `json:"is_ongoing"`
	EndClamped bool          `json:"end_clamped"` // a future end date was cut back to the current month
}

// Timeline is the complete output of one layout pass
type Timeline struct {
	Entries        []PlacedEntry `json:"entries"`
	Grid           []MonthCell   `json:"grid"`
	ScrollOffset   float64       `json:"scroll_offset"`
	ColumnWidth    float64       `json:"column_width"`
	ViewportWidth  float64       `json:"viewport_width"`
	LeadingPadding float64       `json:"leading_padding"`
	ContentWidth   float64       `json:"content_width"`
	CurrentMonth   int           `json:"current_month"` // index of the current month cell
	ComputedAt     time.Time     `json:"computed_at"`
}

// ByID returns the placed entry with the given entry ID
func (t Timeline) ByID(id string) (PlacedEntry, bool) {
	for _, pe := range t.Entries {
		if pe.Entry.ID == id {
			return pe, true
		}
	}
	return PlacedEntry{}, false
}

// LayoutParams are the caller-supplied, environment-dependent inputs
type LayoutParams struct {
	Now            time.Time
	ColumnWidth    float64
	ViewportWidth  float64
	LeadingPadding float64
}

// FileEvent is a change notification for a watched input file
type FileEvent struct {
	Path      string
	Operation string
}
