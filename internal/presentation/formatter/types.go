package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

// Formatter writes a computed timeline
type Formatter interface {
	Format(w io.Writer, tl model.Timeline) error
}

// Options tune the terminal formatters
type Options struct {
	LabelWidth int  // chart row label width
	FullWidth  bool // chart shows every month instead of the scrolled viewport
}

// New returns the formatter for an output name
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "chart", "":
		return NewChartFormatter(opts), nil
	case "table":
		return NewTableFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want chart, table, summary, json or csv)", name)
	}
}

// Names lists the supported output names
func Names() []string {
	return []string{"chart", "table", "summary", "json", "csv"}
}

func formatMonth(t time.Time) string {
	return t.Format("Jan 2006")
}

func formatEnd(pe model.PlacedEntry) string {
	if pe.Entry.EndDate == nil {
		return "present"
	}
	return formatMonth(*pe.Entry.EndDate)
}

func entryLabel(pe model.PlacedEntry) string {
	if pe.Entry.PositionTitle == "" {
		return pe.Entry.EntityName
	}
	return pe.Entry.EntityName + " · " + pe.Entry.PositionTitle
}
