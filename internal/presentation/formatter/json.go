package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-career-timeline/internal/core/model"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, tl model.Timeline) error {
	data, err := sonic.ConfigStd.MarshalIndent(tl, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
