package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-career-timeline/internal/core/model"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(w io.Writer, tl model.Timeline) error {
	cw := csv.NewWriter(w)

	headers := []string{
		"id", "category", "entity", "position", "start", "end",
		"ongoing", "end_clamped", "left_px", "width_px", "color",
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, pe := range tl.Entries {
		end := ""
		if pe.Entry.EndDate != nil {
			end = pe.Entry.EndDate.Format("2006-01-02")
		}
		record := []string{
			pe.Entry.ID,
			string(pe.Entry.Category),
			pe.Entry.EntityName,
			pe.Entry.PositionTitle,
			pe.Entry.StartDate.Format("2006-01-02"),
			end,
			strconv.FormatBool(pe.IsOngoing),
			strconv.FormatBool(pe.EndClamped),
			strconv.FormatFloat(pe.Rect.LeftPx, 'f', -1, 64),
			strconv.FormatFloat(pe.Rect.WidthPx, 'f', -1, 64),
			string(pe.Color),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
